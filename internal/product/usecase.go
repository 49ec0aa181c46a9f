package product

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/pricing"
	"github.com/JhnDrwnl/appDevFinal/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// GetPricedProduct attaches the catalog resolution to the product.
	GetPricedProduct(ctx context.Context, id string) (*model.PricedProduct, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	ListPricedProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.PricedProduct, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// SearchProductsByName returns up to five products ranked by where the
	// query appears in the name.
	SearchProductsByName(ctx context.Context, query string) ([]model.Product, error)
}

// Engine is the slice of the pricing engine the product usecase consumes.
type Engine interface {
	ResolveCatalog(ctx context.Context, product *model.Product) (*pricing.Resolution, error)
}
