package reservation

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

type Repository interface {
	Set(ctx context.Context, r *model.Reservation) error
	// FindByID returns (nil, nil) when the reservation does not exist.
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	FindAll(ctx context.Context) ([]model.Reservation, error)
	Update(ctx context.Context, id string, patch docstore.Patch) error
}
