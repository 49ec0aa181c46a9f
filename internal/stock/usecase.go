package stock

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/stock/dto"
)

type UseCase interface {
	// AdjustStock changes a product's stock level by delta under a
	// per-product lock and records a movement entry. A negative delta that
	// would drive the level below zero is rejected.
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	FetchMovements(ctx context.Context, productID string) ([]model.StockMovement, error)
}
