package repository

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const (
	categoriesCollection = "categories"
	joinsCollection      = "categoryPriceRules"
)

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) Create(ctx context.Context, c *model.Category) error {
	return r.store.Set(ctx, categoriesCollection, c.ID, c)
}

func (r *DocRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.store.Get(ctx, categoriesCollection, id, &c)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *DocRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.store.Query(ctx, categoriesCollection, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *DocRepository) FindChildren(ctx context.Context, parentID string) ([]model.Category, error) {
	var categories []model.Category
	filters := []docstore.Filter{{Field: "parentIds", Op: docstore.OpArrayContains, Value: parentID}}
	if err := r.store.Query(ctx, categoriesCollection, filters, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *DocRepository) Update(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, categoriesCollection, id, patch)
}

func (r *DocRepository) DeleteAndDetach(ctx context.Context, id string, children []model.Category) error {
	ops := []docstore.WriteOp{{Kind: docstore.WriteDelete, Collection: categoriesCollection, ID: id}}
	for _, child := range children {
		remaining := make([]string, 0, len(child.ParentIDs))
		for _, parentID := range child.ParentIDs {
			if parentID != id {
				remaining = append(remaining, parentID)
			}
		}
		ops = append(ops, docstore.WriteOp{
			Kind:       docstore.WriteUpdate,
			Collection: categoriesCollection,
			ID:         child.ID,
			Patch:      docstore.Patch{"parentIds": remaining},
		})
	}
	return r.store.Batch(ctx, ops)
}

func (r *DocRepository) AdjustProductCount(ctx context.Context, id string, delta int) error {
	return r.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var c model.Category
		if err := tx.Get(categoriesCollection, id, &c); err != nil {
			return err
		}
		count := c.ProductCount + delta
		if count < 0 {
			count = 0
		}
		return tx.Update(categoriesCollection, id, docstore.Patch{"productCount": count})
	})
}

func (r *DocRepository) SetRuleSnapshots(ctx context.Context, categoryIDs []string, rule *model.CategoryPriceRule) error {
	var value interface{} = docstore.DeleteField
	if rule != nil {
		value = rule
	}
	ops := make([]docstore.WriteOp, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		ops = append(ops, docstore.WriteOp{
			Kind:       docstore.WriteUpdate,
			Collection: categoriesCollection,
			ID:         id,
			Patch:      docstore.Patch{"priceRule": value},
		})
	}
	return r.store.Batch(ctx, ops)
}

func (r *DocRepository) CreateJoin(ctx context.Context, join *model.CategoryPriceRule) error {
	return r.store.Set(ctx, joinsCollection, join.ID, join)
}

func (r *DocRepository) FindJoinsByCategory(ctx context.Context, categoryID string) ([]model.CategoryPriceRule, error) {
	var joins []model.CategoryPriceRule
	filters := []docstore.Filter{{Field: "categoryId", Op: docstore.OpEqual, Value: categoryID}}
	if err := r.store.Query(ctx, joinsCollection, filters, &joins); err != nil {
		return nil, err
	}
	return joins, nil
}

func (r *DocRepository) FindAllJoins(ctx context.Context) ([]model.CategoryPriceRule, error) {
	var joins []model.CategoryPriceRule
	if err := r.store.Query(ctx, joinsCollection, nil, &joins); err != nil {
		return nil, err
	}
	return joins, nil
}

func (r *DocRepository) UpdateJoin(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, joinsCollection, id, patch)
}

// CategoryByID and CategoryRuleByID satisfy the pricing engine lookups.

func (r *DocRepository) CategoryByID(ctx context.Context, id string) (*model.Category, error) {
	return r.FindByID(ctx, id)
}

func (r *DocRepository) CategoryRuleByID(ctx context.Context, id string) (*model.CategoryPriceRule, error) {
	var join model.CategoryPriceRule
	err := r.store.Get(ctx, joinsCollection, id, &join)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &join, nil
}

func (r *DocRepository) RemoveRule(ctx context.Context, joinID, categoryID string, descendantIDs []string) error {
	return r.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var join model.CategoryPriceRule
		if err := tx.Get(joinsCollection, joinID, &join); err != nil {
			return err
		}
		var c model.Category
		if err := tx.Get(categoriesCollection, categoryID, &c); err != nil {
			return err
		}
		if err := tx.Delete(joinsCollection, joinID); err != nil {
			return err
		}
		clear := docstore.Patch{"priceRule": docstore.DeleteField}
		if err := tx.Update(categoriesCollection, categoryID, clear); err != nil {
			return err
		}
		for _, id := range descendantIDs {
			if err := tx.Update(categoriesCollection, id, clear); err != nil {
				return err
			}
		}
		return nil
	})
}
