package dto

import "time"

type CreatePriceRuleInput struct {
	Name      string
	Value     float64
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdatePriceRuleInput is a typed patch: nil fields are left untouched. The
// rule id never changes, even on rename.
type UpdatePriceRuleInput struct {
	ID        string
	Name      *string
	Value     *float64
	StartDate *time.Time
	EndDate   *time.Time
}

type ProductPriceRuleInput struct {
	ProductID      string
	ProductName    string
	PriceRuleID    string
	PriceRuleName  string
	PriceRuleValue float64
	PriceRuleType  string
}
