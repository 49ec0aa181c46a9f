package repository

import (
	"context"
	"sort"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

const reservationsCollection = "reservations"

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func (r *DocRepository) Set(ctx context.Context, res *model.Reservation) error {
	return r.store.Set(ctx, reservationsCollection, res.ID, res)
}

func (r *DocRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.store.Get(ctx, reservationsCollection, id, &res)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *DocRepository) FindByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var out []model.Reservation
	filters := []docstore.Filter{{Field: "userId", Op: docstore.OpEqual, Value: userID}}
	if err := r.store.Query(ctx, reservationsCollection, filters, &out); err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *DocRepository) FindAll(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := r.store.Query(ctx, reservationsCollection, nil, &out); err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *DocRepository) Update(ctx context.Context, id string, patch docstore.Patch) error {
	return r.store.Update(ctx, reservationsCollection, id, patch)
}

func sortNewestFirst(out []model.Reservation) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}
