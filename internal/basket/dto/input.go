package dto

// AddToBasketInput adds quantity of a product to the caller's basket.
// GuestID identifies the basket when no authenticated user is present.
type AddToBasketInput struct {
	ProductID string
	Quantity  int
	GuestID   string
}

type UpdateQuantityInput struct {
	ItemID   string
	Quantity int
	GuestID  string
}
