package product

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

type Repository interface {
	Set(ctx context.Context, p *model.Product) error
	// FindByID returns (nil, nil) when the product does not exist.
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// FindAll returns all products ordered by creation time, newest first.
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByCategory(ctx context.Context, categoryID string) ([]model.Product, error)
	Update(ctx context.Context, id string, patch docstore.Patch) error
	Delete(ctx context.Context, id string) error
}
