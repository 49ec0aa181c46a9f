// Package pricing computes final sale prices from category and product price
// rules.
//
// Two resolution paths exist on purpose and are not interchangeable: catalog
// listings price through ResolveCatalog (category rules only, validated
// against the join table), while add-to-basket prices through ResolveBasket
// (product rules resolved through the registry, then category snapshots taken
// at face value). Callers must pick explicitly.
package pricing

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
)

// CategoryLookup resolves a category by id. Implementations return (nil, nil)
// when the category does not exist.
type CategoryLookup interface {
	CategoryByID(ctx context.Context, id string) (*model.Category, error)
}

// CategoryRuleLookup resolves a category price rule join record by its id.
// Implementations return (nil, nil) when the record does not exist.
type CategoryRuleLookup interface {
	CategoryRuleByID(ctx context.Context, id string) (*model.CategoryPriceRule, error)
}

// ProductRuleLookup lists the product-rule associations for one product.
type ProductRuleLookup interface {
	ProductRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error)
}

// RuleLookup resolves a registry rule by id. Implementations return
// (nil, nil) when the rule does not exist.
type RuleLookup interface {
	RuleByID(ctx context.Context, id string) (*model.PriceRule, error)
}

// Resolution is the outcome of pricing one product.
type Resolution struct {
	OriginalPrice     float64
	FinalPrice        float64
	AppliedPriceRules []model.AppliedRule
}

// Engine resolves final prices. It holds no state beyond its lookups and is
// safe for concurrent use.
type Engine struct {
	categories    CategoryLookup
	categoryRules CategoryRuleLookup
	productRules  ProductRuleLookup
	rules         RuleLookup
}

func NewEngine(categories CategoryLookup, categoryRules CategoryRuleLookup, productRules ProductRuleLookup, rules RuleLookup) *Engine {
	return &Engine{
		categories:    categories,
		categoryRules: categoryRules,
		productRules:  productRules,
		rules:         rules,
	}
}

func applyRule(price, value float64, ruleType string) float64 {
	if ruleType == model.RuleTypePercentage {
		return price - price*(value/100)
	}
	return price - value
}

// ResolveCatalog prices a product from its category rules alone. Categories
// are visited in the order of the product's categoryIds and every applied
// rule discounts the running price, so chains compound sequentially. A
// category whose snapshot points at a join record that no longer exists is
// skipped silently. The result is clamped at zero after all categories are
// processed.
func (e *Engine) ResolveCatalog(ctx context.Context, product *model.Product) (*Resolution, error) {
	res := &Resolution{
		OriginalPrice:     product.Price,
		FinalPrice:        product.Price,
		AppliedPriceRules: []model.AppliedRule{},
	}

	for _, categoryID := range product.CategoryIDs {
		c, err := e.categories.CategoryByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if c == nil || c.PriceRule == nil {
			continue
		}

		rule, err := e.categoryRules.CategoryRuleByID(ctx, c.PriceRule.ID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			continue
		}

		res.FinalPrice = applyRule(res.FinalPrice, rule.PriceRuleValue, rule.PriceRuleType)
		res.AppliedPriceRules = append(res.AppliedPriceRules, model.AppliedRule{
			CategoryName: c.Name,
			RuleName:     rule.PriceRuleName,
			RuleValue:    rule.PriceRuleValue,
			RuleType:     rule.PriceRuleType,
		})
	}

	if res.FinalPrice < 0 {
		res.FinalPrice = 0
	}
	return res, nil
}

// ResolveBasket prices a product the way add-to-basket does: product-rule
// associations first, each resolved through the registry (an association
// whose registry rule is gone still applies, as a zero-value fixed discount),
// then the category snapshots in categoryIds order, taken at face value
// without consulting the join table. Clamped at zero at the end.
func (e *Engine) ResolveBasket(ctx context.Context, product *model.Product) (*Resolution, error) {
	res := &Resolution{
		OriginalPrice:     product.Price,
		FinalPrice:        product.Price,
		AppliedPriceRules: []model.AppliedRule{},
	}

	associations, err := e.productRules.ProductRulesByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	for _, assoc := range associations {
		applied := model.AppliedRule{
			RuleName:    "Unknown Rule",
			RuleValue:   0,
			RuleType:    model.RuleTypeFixed,
			ProductRule: true,
		}
		rule, err := e.rules.RuleByID(ctx, assoc.PriceRuleID)
		if err != nil {
			return nil, err
		}
		if rule != nil {
			applied.RuleName = rule.Name
			applied.RuleValue = rule.Value
			applied.RuleType = rule.Type
		}
		res.FinalPrice = applyRule(res.FinalPrice, applied.RuleValue, applied.RuleType)
		res.AppliedPriceRules = append(res.AppliedPriceRules, applied)
	}

	for _, categoryID := range product.CategoryIDs {
		c, err := e.categories.CategoryByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if c == nil || c.PriceRule == nil {
			continue
		}
		res.FinalPrice = applyRule(res.FinalPrice, c.PriceRule.PriceRuleValue, c.PriceRule.PriceRuleType)
		res.AppliedPriceRules = append(res.AppliedPriceRules, model.AppliedRule{
			CategoryName: c.Name,
			RuleName:     c.Name + " - " + c.PriceRule.PriceRuleName,
			RuleValue:    c.PriceRule.PriceRuleValue,
			RuleType:     c.PriceRule.PriceRuleType,
		})
	}

	if res.FinalPrice < 0 {
		res.FinalPrice = 0
	}
	return res, nil
}
