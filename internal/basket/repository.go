package basket

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

type Repository interface {
	Set(ctx context.Context, item *model.BasketItem) error
	// FindByID returns (nil, nil) when the line does not exist.
	FindByID(ctx context.Context, id string) (*model.BasketItem, error)
	FindByUser(ctx context.Context, userID string) ([]model.BasketItem, error)
	Update(ctx context.Context, id string, patch docstore.Patch) error
	Delete(ctx context.Context, id string) error
	// DeleteAll removes the given lines in a single batch.
	DeleteAll(ctx context.Context, ids []string) error
}
