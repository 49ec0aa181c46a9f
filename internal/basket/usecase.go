package basket

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/basket/dto"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/pricing"
)

type UseCase interface {
	// AddToBasket merges into an existing line for the same product when one
	// exists; only the quantity changes then, the stored FinalPrice stays as
	// it was captured on first add.
	AddToBasket(ctx context.Context, input *dto.AddToBasketInput) (*model.BasketItem, error)
	UpdateItemQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.BasketItem, error)
	RemoveFromBasket(ctx context.Context, itemID, guestID string) error
	FetchBasketItems(ctx context.Context, guestID string) ([]model.BasketItem, error)
	ClearBasket(ctx context.Context, guestID string) error
	// ConvertGuestToUser reassigns each guest line to the authenticated user,
	// one line at a time; lines that fail are left behind.
	ConvertGuestToUser(ctx context.Context, guestID string) error
	BasketCount(ctx context.Context, guestID string) (int, error)
	BasketTotal(ctx context.Context, guestID string) (float64, error)
}

// Engine is the slice of the pricing engine the basket consumes.
type Engine interface {
	ResolveBasket(ctx context.Context, product *model.Product) (*pricing.Resolution, error)
}
