package dto

// AdjustStockInput describes one stock change. Delta is positive for
// restocks and negative for deductions. ReferenceType/ReferenceID tie the
// movement back to its cause, e.g. a completed reservation.
type AdjustStockInput struct {
	ProductID     string
	Delta         int
	ReferenceType string
	ReferenceID   string
	Notes         string
	ActorID       string
}
