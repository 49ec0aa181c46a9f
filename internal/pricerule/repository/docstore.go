package repository

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const (
	rulesCollection        = "priceRules"
	productRulesCollection = "productPriceRules"
)

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) SetRule(ctx context.Context, rule *model.PriceRule) error {
	return r.store.Set(ctx, rulesCollection, rule.ID, rule)
}

func (r *DocRepository) FindRuleByID(ctx context.Context, id string) (*model.PriceRule, error) {
	var rule model.PriceRule
	err := r.store.Get(ctx, rulesCollection, id, &rule)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *DocRepository) FindAllRules(ctx context.Context) ([]model.PriceRule, error) {
	var rules []model.PriceRule
	if err := r.store.Query(ctx, rulesCollection, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *DocRepository) UpdateRule(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, rulesCollection, id, patch)
}

func (r *DocRepository) DeleteRule(ctx context.Context, id string) error {
	return r.store.Delete(ctx, rulesCollection, id)
}

func (r *DocRepository) SetProductRule(ctx context.Context, rule *model.ProductPriceRule) error {
	return r.store.Set(ctx, productRulesCollection, rule.ID, rule)
}

func (r *DocRepository) FindAllProductRules(ctx context.Context) ([]model.ProductPriceRule, error) {
	var rules []model.ProductPriceRule
	if err := r.store.Query(ctx, productRulesCollection, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *DocRepository) FindProductRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error) {
	var rules []model.ProductPriceRule
	filters := []docstore.Filter{{Field: "productId", Op: docstore.OpEqual, Value: productID}}
	if err := r.store.Query(ctx, productRulesCollection, filters, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// RuleByID and ProductRulesByProduct satisfy the pricing engine lookups.

func (r *DocRepository) RuleByID(ctx context.Context, id string) (*model.PriceRule, error) {
	return r.FindRuleByID(ctx, id)
}

func (r *DocRepository) ProductRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error) {
	return r.FindProductRulesByProduct(ctx, productID)
}

func (r *DocRepository) UpdateProductRule(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, productRulesCollection, id, patch)
}

func (r *DocRepository) DeleteProductRule(ctx context.Context, id string) error {
	return r.store.Delete(ctx, productRulesCollection, id)
}
