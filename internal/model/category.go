package model

// Category is a catalog node. Multiple parents are allowed; a category with no
// parents is a root. PriceRule is the eagerly copied-down rule snapshot, not a
// lazy reference: propagation overwrites it on every descendant.
type Category struct {
	BaseModel
	Name         string             `json:"name"`
	ParentIDs    []string           `json:"parentIds"`
	ProductCount int                `json:"productCount"`
	PriceRule    *CategoryPriceRule `json:"priceRule,omitempty"`
}

// CategoryPriceRule is the denormalized join record binding one price rule to
// one category. It is stored both in its own collection and as the category's
// PriceRule snapshot; the two are kept in sync on every mutation.
type CategoryPriceRule struct {
	ID             string  `json:"id"`
	CategoryID     string  `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	PriceRuleID    string  `json:"priceRuleId"`
	PriceRuleName  string  `json:"priceRuleName"`
	PriceRuleValue float64 `json:"priceRuleValue"`
	PriceRuleType  string  `json:"priceRuleType"`
}
