package model

import "time"

// StockMovement is the audit record written alongside every stock adjustment.
type StockMovement struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	QuantityChange int       `json:"quantityChange"`
	QuantityBefore int       `json:"quantityBefore"`
	QuantityAfter  int       `json:"quantityAfter"`
	ReferenceType  string    `json:"referenceType,omitempty"`
	ReferenceID    string    `json:"referenceId,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
