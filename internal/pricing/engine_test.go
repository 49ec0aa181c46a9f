package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
)

type fakeLookups struct {
	categories    map[string]*model.Category
	categoryRules map[string]*model.CategoryPriceRule
	productRules  map[string][]model.ProductPriceRule
	rules         map[string]*model.PriceRule
}

func (f *fakeLookups) CategoryByID(_ context.Context, id string) (*model.Category, error) {
	return f.categories[id], nil
}

func (f *fakeLookups) CategoryRuleByID(_ context.Context, id string) (*model.CategoryPriceRule, error) {
	return f.categoryRules[id], nil
}

func (f *fakeLookups) ProductRulesByProduct(_ context.Context, productID string) ([]model.ProductPriceRule, error) {
	return f.productRules[productID], nil
}

func (f *fakeLookups) RuleByID(_ context.Context, id string) (*model.PriceRule, error) {
	return f.rules[id], nil
}

func newFakeEngine(f *fakeLookups) *Engine {
	if f.categories == nil {
		f.categories = map[string]*model.Category{}
	}
	if f.categoryRules == nil {
		f.categoryRules = map[string]*model.CategoryPriceRule{}
	}
	if f.productRules == nil {
		f.productRules = map[string][]model.ProductPriceRule{}
	}
	if f.rules == nil {
		f.rules = map[string]*model.PriceRule{}
	}
	return NewEngine(f, f, f, f)
}

func categoryWithRule(id, name, joinID, ruleName string, value float64, ruleType string) *model.Category {
	return &model.Category{
		BaseModel: model.BaseModel{ID: id},
		Name:      name,
		PriceRule: &model.CategoryPriceRule{
			ID:             joinID,
			CategoryID:     id,
			CategoryName:   name,
			PriceRuleName:  ruleName,
			PriceRuleValue: value,
			PriceRuleType:  ruleType,
		},
	}
}

func TestResolveCatalogNoCategories(t *testing.T) {
	engine := newFakeEngine(&fakeLookups{})
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{}}

	res, err := engine.ResolveCatalog(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.OriginalPrice)
	assert.Equal(t, 100.0, res.FinalPrice)
	assert.Empty(t, res.AppliedPriceRules)
}

func TestResolveCatalogCompoundsInCategoryOrder(t *testing.T) {
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"a": categoryWithRule("a", "Drinks", "join-a", "Summer Sale", 10, model.RuleTypePercentage),
			"b": categoryWithRule("b", "Alcohol", "join-b", "Clearance", 5, model.RuleTypeFixed),
		},
		categoryRules: map[string]*model.CategoryPriceRule{
			"join-a": {ID: "join-a", CategoryName: "Drinks", PriceRuleName: "Summer Sale", PriceRuleValue: 10, PriceRuleType: model.RuleTypePercentage},
			"join-b": {ID: "join-b", CategoryName: "Alcohol", PriceRuleName: "Clearance", PriceRuleValue: 5, PriceRuleType: model.RuleTypeFixed},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{"a", "b"}}

	res, err := engine.ResolveCatalog(context.Background(), p)
	require.NoError(t, err)

	// 100 -10% = 90, then -5 = 85.
	assert.Equal(t, 85.0, res.FinalPrice)
	require.Len(t, res.AppliedPriceRules, 2)
	assert.Equal(t, "Summer Sale", res.AppliedPriceRules[0].RuleName)
	assert.Equal(t, "Clearance", res.AppliedPriceRules[1].RuleName)
	assert.False(t, res.AppliedPriceRules[0].ProductRule)
}

func TestResolveCatalogClampsAtZero(t *testing.T) {
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"a": categoryWithRule("a", "Bargain Bin", "join-a", "Massive", 500, model.RuleTypeFixed),
		},
		categoryRules: map[string]*model.CategoryPriceRule{
			"join-a": {ID: "join-a", PriceRuleName: "Massive", PriceRuleValue: 500, PriceRuleType: model.RuleTypeFixed},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{"a"}}

	res, err := engine.ResolveCatalog(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.FinalPrice)
	assert.Len(t, res.AppliedPriceRules, 1)
}

func TestResolveCatalogSkipsDanglingJoin(t *testing.T) {
	// Snapshot present but the join record is gone: skip without error.
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"a": categoryWithRule("a", "Drinks", "join-gone", "Summer Sale", 10, model.RuleTypePercentage),
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{"a"}}

	res, err := engine.ResolveCatalog(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.FinalPrice)
	assert.Empty(t, res.AppliedPriceRules)
}

func TestResolveCatalogSkipsMissingCategoryAndBareCategory(t *testing.T) {
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"plain": {BaseModel: model.BaseModel{ID: "plain"}, Name: "Plain"},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 50, CategoryIDs: []string{"missing", "plain"}}

	res, err := engine.ResolveCatalog(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.FinalPrice)
	assert.Empty(t, res.AppliedPriceRules)
}

func TestResolveBasketProductRulesThenCategorySnapshots(t *testing.T) {
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"a": categoryWithRule("a", "Drinks", "join-a", "Summer Sale", 10, model.RuleTypePercentage),
		},
		productRules: map[string][]model.ProductPriceRule{
			"p1": {{ID: "assoc-1", ProductID: "p1", PriceRuleID: "loyalty_fixed"}},
		},
		rules: map[string]*model.PriceRule{
			"loyalty_fixed": {ID: "loyalty_fixed", Name: "Loyalty", Value: 20, Type: model.RuleTypeFixed},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{"a"}}

	res, err := engine.ResolveBasket(context.Background(), p)
	require.NoError(t, err)

	// 100 -20 = 80, then -10% = 72.
	assert.Equal(t, 72.0, res.FinalPrice)
	require.Len(t, res.AppliedPriceRules, 2)
	assert.True(t, res.AppliedPriceRules[0].ProductRule)
	assert.Equal(t, "Loyalty", res.AppliedPriceRules[0].RuleName)
	assert.Equal(t, "Drinks - Summer Sale", res.AppliedPriceRules[1].RuleName)
}

func TestResolveBasketDanglingAssociationAppliesAsZero(t *testing.T) {
	f := &fakeLookups{
		productRules: map[string][]model.ProductPriceRule{
			"p1": {{ID: "assoc-1", ProductID: "p1", PriceRuleID: "gone"}},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100}

	res, err := engine.ResolveBasket(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.FinalPrice)
	require.Len(t, res.AppliedPriceRules, 1)
	assert.Equal(t, "Unknown Rule", res.AppliedPriceRules[0].RuleName)
	assert.Equal(t, 0.0, res.AppliedPriceRules[0].RuleValue)
}

func TestResolveBasketIgnoresJoinTable(t *testing.T) {
	// The basket path trusts the category snapshot even when the join record
	// no longer exists.
	f := &fakeLookups{
		categories: map[string]*model.Category{
			"a": categoryWithRule("a", "Drinks", "join-gone", "Summer Sale", 10, model.RuleTypePercentage),
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100, CategoryIDs: []string{"a"}}

	res, err := engine.ResolveBasket(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 90.0, res.FinalPrice)
	require.Len(t, res.AppliedPriceRules, 1)
}

func TestResolveBasketClampsAtZero(t *testing.T) {
	f := &fakeLookups{
		productRules: map[string][]model.ProductPriceRule{
			"p1": {{ID: "assoc-1", ProductID: "p1", PriceRuleID: "huge_fixed"}},
		},
		rules: map[string]*model.PriceRule{
			"huge_fixed": {ID: "huge_fixed", Name: "Huge", Value: 500, Type: model.RuleTypeFixed},
		},
	}
	engine := newFakeEngine(f)
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Price: 100}

	res, err := engine.ResolveBasket(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.FinalPrice)
}
