package stock

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
)

type Repository interface {
	CreateMovement(ctx context.Context, m *model.StockMovement) error
	FindMovementsByProduct(ctx context.Context, productID string) ([]model.StockMovement, error)
}
