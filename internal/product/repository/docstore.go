package repository

import (
	"context"
	"sort"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const productsCollection = "products"

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) Set(ctx context.Context, p *model.Product) error {
	return r.store.Set(ctx, productsCollection, p.ID, p)
}

func (r *DocRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.store.Get(ctx, productsCollection, id, &p)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *DocRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.store.Query(ctx, productsCollection, nil, &products); err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (r *DocRepository) FindByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	var products []model.Product
	filters := []docstore.Filter{{Field: "categoryIds", Op: docstore.OpArrayContains, Value: categoryID}}
	if err := r.store.Query(ctx, productsCollection, filters, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *DocRepository) Update(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, productsCollection, id, patch)
}

func (r *DocRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, productsCollection, id)
}
