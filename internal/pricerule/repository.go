package pricerule

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

type Repository interface {
	SetRule(ctx context.Context, rule *model.PriceRule) error
	// FindRuleByID returns (nil, nil) when the rule does not exist.
	FindRuleByID(ctx context.Context, id string) (*model.PriceRule, error)
	FindAllRules(ctx context.Context) ([]model.PriceRule, error)
	UpdateRule(ctx context.Context, id string, patch docstore.Patch) error
	DeleteRule(ctx context.Context, id string) error

	SetProductRule(ctx context.Context, rule *model.ProductPriceRule) error
	FindAllProductRules(ctx context.Context) ([]model.ProductPriceRule, error)
	FindProductRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error)
	UpdateProductRule(ctx context.Context, id string, patch docstore.Patch) error
	DeleteProductRule(ctx context.Context, id string) error
}
