package repository

import (
	"context"
	"sort"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const basketsCollection = "baskets"

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) Set(ctx context.Context, item *model.BasketItem) error {
	return r.store.Set(ctx, basketsCollection, item.ID, item)
}

func (r *DocRepository) FindByID(ctx context.Context, id string) (*model.BasketItem, error) {
	var item model.BasketItem
	err := r.store.Get(ctx, basketsCollection, id, &item)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *DocRepository) FindByUser(ctx context.Context, userID string) ([]model.BasketItem, error) {
	var items []model.BasketItem
	filters := []docstore.Filter{{Field: "userId", Op: docstore.OpEqual, Value: userID}}
	if err := r.store.Query(ctx, basketsCollection, filters, &items); err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *DocRepository) Update(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, basketsCollection, id, patch)
}

func (r *DocRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, basketsCollection, id)
}

func (r *DocRepository) DeleteAll(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ops := make([]docstore.WriteOp, 0, len(ids))
	for _, id := range ids {
		ops = append(ops, docstore.WriteOp{
			Kind:       docstore.WriteDelete,
			Collection: basketsCollection,
			ID:         id,
		})
	}
	return r.store.Batch(ctx, ops)
}
