package model

// Product is a catalog item. Pricing fields derived by the resolution engine
// (OriginalPrice, FinalPrice, AppliedPriceRules) are never stored; they are
// attached on read.
type Product struct {
	BaseModel
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	CategoryIDs   []string `json:"categoryIds"`
	Tags          []string `json:"tags"`
	StockQuantity int      `json:"stockQuantity"`
	ThumbnailURL  *string  `json:"thumbnailURL,omitempty"`
	ThumbnailPath *string  `json:"thumbnailPath,omitempty"`
	ImageURLs     []string `json:"imageURLs"`
	ImagePaths    []string `json:"imagePaths"`
}

// PricedProduct is a product with resolution output attached.
type PricedProduct struct {
	Product
	OriginalPrice     float64       `json:"originalPrice"`
	FinalPrice        float64       `json:"finalPrice"`
	AppliedPriceRules []AppliedRule `json:"appliedPriceRules"`
}

// AppliedRule records one rule's contribution to a resolved price, in
// application order.
type AppliedRule struct {
	CategoryName string  `json:"categoryName,omitempty"`
	RuleName     string  `json:"ruleName"`
	RuleValue    float64 `json:"ruleValue"`
	RuleType     string  `json:"ruleType"`
	ProductRule  bool    `json:"isProductRule"`
}
