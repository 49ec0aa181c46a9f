package pricerule

import (
	"context"
	"time"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/pricerule/dto"
)

type UseCase interface {
	// AddPriceRule stores the rule under an id derived from name and type.
	// Writing an id that already exists overwrites the stored rule.
	AddPriceRule(ctx context.Context, input *dto.CreatePriceRuleInput) (*model.PriceRule, error)
	GetPriceRule(ctx context.Context, id string) (*model.PriceRule, error)
	ListPriceRules(ctx context.Context) ([]model.PriceRule, error)
	ListActivePriceRules(ctx context.Context, now time.Time) ([]model.PriceRule, error)
	UpdatePriceRule(ctx context.Context, input *dto.UpdatePriceRuleInput) (*model.PriceRule, error)
	// DeletePriceRule removes the rule only. Categories and products still
	// referencing the id keep their dangling references; the resolution
	// engine skips them.
	DeletePriceRule(ctx context.Context, id string) error

	// AddProductPriceRule upserts the association under a composite key
	// derived from product name and rule name.
	AddProductPriceRule(ctx context.Context, input *dto.ProductPriceRuleInput) (*model.ProductPriceRule, error)
	ListProductPriceRules(ctx context.Context) ([]model.ProductPriceRule, error)
	ListProductPriceRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error)
	UpdateProductPriceRule(ctx context.Context, id string, input *dto.ProductPriceRuleInput) error
	DeleteProductPriceRule(ctx context.Context, id string) error
}
