package dto

// ImageUpload carries one file destined for the blob store.
type ImageUpload struct {
	FileName string
	Data     []byte
}

type CreateProductInput struct {
	Name          string
	Description   string
	Price         float64
	CategoryIDs   []string
	Tags          []string
	StockQuantity int
	Thumbnail     *ImageUpload
	Images        []ImageUpload
}

// UpdateProductInput is a typed patch: nil fields are left untouched.
// KeepImageURLs lists the existing gallery images to retain; stored images
// absent from it are deleted from the blob store.
type UpdateProductInput struct {
	ID              string
	Name            *string
	Description     *string
	Price           *float64
	CategoryIDs     *[]string
	Tags            *[]string
	StockQuantity   *int
	Thumbnail       *ImageUpload
	RemoveThumbnail bool
	KeepImageURLs   []string
	NewImages       []ImageUpload
}

type ProductFilters struct {
	SearchQuery string `json:"search_query"`
	CategoryID  string `json:"category_id"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
