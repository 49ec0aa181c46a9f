package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	productRepo "github.com/JhnDrwnl/appDevFinal/internal/product/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/stock"
	"github.com/JhnDrwnl/appDevFinal/internal/stock/dto"
	stockRepo "github.com/JhnDrwnl/appDevFinal/internal/stock/repository"
)

func newTestUseCase(t *testing.T) (stock.UseCase, *productRepo.DocRepository) {
	t.Helper()
	store := docstore.NewMemoryStore()
	products := productRepo.NewDocRepository(store)
	return NewStockUseCase(stockRepo.NewDocRepository(store), products, nil, logger.NewNop()), products
}

func seedProduct(t *testing.T, products *productRepo.DocRepository, id string, qty int) {
	t.Helper()
	require.NoError(t, products.Set(context.Background(), &model.Product{
		BaseModel:     model.BaseModel{ID: id},
		Name:          "Product " + id,
		Price:         10,
		StockQuantity: qty,
	}))
}

func TestAdjustStockRecordsMovement(t *testing.T) {
	uc, products := newTestUseCase(t)
	seedProduct(t, products, "p1", 10)

	m, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ProductID:     "p1",
		Delta:         -3,
		ReferenceType: "reservation",
		ReferenceID:   "r1",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, m.QuantityBefore)
	assert.Equal(t, 7, m.QuantityAfter)

	p, err := products.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockQuantity)

	movements, err := uc.FetchMovements(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "reservation", movements[0].ReferenceType)
	assert.Equal(t, "r1", movements[0].ReferenceID)
}

func TestAdjustStockRejectsInsufficient(t *testing.T) {
	uc, products := newTestUseCase(t)
	seedProduct(t, products, "p1", 2)

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductID: "p1", Delta: -5})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// The level is untouched and nothing was logged.
	p, err := products.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)

	movements, err := uc.FetchMovements(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestAdjustStockValidation(t *testing.T) {
	uc, _ := newTestUseCase(t)

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductID: "p1", Delta: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = uc.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductID: "missing", Delta: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdjustStockRestock(t *testing.T) {
	uc, products := newTestUseCase(t)
	seedProduct(t, products, "p1", 0)

	m, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductID: "p1", Delta: 25, Notes: "weekly delivery"})
	require.NoError(t, err)
	assert.Equal(t, 25, m.QuantityAfter)
	assert.Equal(t, "weekly delivery", m.Notes)
}
