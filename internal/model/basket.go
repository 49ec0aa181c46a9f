package model

// BasketItem is one basket line. FinalPrice is a snapshot computed when the
// line is created and never refreshed, even when quantity changes or rules
// are edited later.
type BasketItem struct {
	BaseModel
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	FinalPrice   float64 `json:"finalPrice"`
	Quantity     int     `json:"quantity"`
	ThumbnailURL *string `json:"thumbnailURL,omitempty"`
	UserID       string  `json:"userId"`
}

const (
	ReservationStatusPending   = "pending"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation is a customer order assembled from basket lines. Item prices
// are copies of the basket snapshots.
type Reservation struct {
	BaseModel
	UserID string            `json:"userId"`
	Status string            `json:"status"`
	Items  []ReservationItem `json:"items"`
}

type ReservationItem struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
	Quantity   int     `json:"quantity"`
}
