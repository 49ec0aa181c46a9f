package model

import "time"

const (
	RuleTypePercentage = "percentage"
	RuleTypeFixed      = "fixed"
)

// PriceRule is a named discount definition. The id is derived from name and
// type so the same rule cannot be created twice under one name.
type PriceRule struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Value     float64    `json:"value"`
	Type      string     `json:"type"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsActive reports whether the rule's validity window covers now. A rule with
// no start date is never active; a missing end date leaves the window open.
func (r *PriceRule) IsActive(now time.Time) bool {
	if r.StartDate == nil {
		return false
	}
	if r.StartDate.After(now) {
		return false
	}
	return r.EndDate == nil || r.EndDate.After(now)
}

// ProductPriceRule binds one price rule directly to one product. Product
// rules never propagate through the category tree.
type ProductPriceRule struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	PriceRuleID    string  `json:"priceRuleId"`
	PriceRuleName  string  `json:"priceRuleName"`
	PriceRuleValue float64 `json:"priceRuleValue"`
	PriceRuleType  string  `json:"priceRuleType"`
}
