package repository

import (
	"context"
	"sort"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const movementsCollection = "stockMovements"

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) CreateMovement(ctx context.Context, m *model.StockMovement) error {
	return r.store.Set(ctx, movementsCollection, m.ID, m)
}

func (r *DocRepository) FindMovementsByProduct(ctx context.Context, productID string) ([]model.StockMovement, error) {
	var out []model.StockMovement
	filters := []docstore.Filter{{Field: "productId", Op: docstore.OpEqual, Value: productID}}
	if err := r.store.Query(ctx, movementsCollection, filters, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
