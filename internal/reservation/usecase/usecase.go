package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/basket"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/reservation"
)

var validStatuses = map[string]bool{
	model.ReservationStatusPending:   true,
	model.ReservationStatusCompleted: true,
	model.ReservationStatusCancelled: true,
}

type reservationUseCase struct {
	repo      reservation.Repository
	baskets   basket.UseCase
	publisher reservation.Publisher
	logger    logger.ZapLogger
}

func NewReservationUseCase(repo reservation.Repository, baskets basket.UseCase, publisher reservation.Publisher, log logger.ZapLogger) reservation.UseCase {
	return &reservationUseCase{repo: repo, baskets: baskets, publisher: publisher, logger: log}
}

func (uc *reservationUseCase) CreateReservation(ctx context.Context, guestID string) (*model.Reservation, error) {
	user, ok := auth.GetUser(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	items, err := uc.baskets.FetchBasketItems(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.Validation("basket is empty")
	}

	now := time.Now()
	res := &model.Reservation{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: user.UserID,
		Status: model.ReservationStatusPending,
		Items:  make([]model.ReservationItem, 0, len(items)),
	}
	for _, item := range items {
		res.Items = append(res.Items, model.ReservationItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			FinalPrice: item.FinalPrice,
			Quantity:   item.Quantity,
		})
	}

	if err := uc.repo.Set(ctx, res); err != nil {
		return nil, err
	}

	if err := uc.baskets.ClearBasket(ctx, guestID); err != nil {
		uc.logger.Warn("failed to clear basket after reservation",
			zap.String("reservation_id", res.ID), zap.Error(err))
	}

	return res, nil
}

func (uc *reservationUseCase) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	res, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperrors.NotFound("reservation " + id)
	}
	if user, ok := auth.GetUser(ctx); ok && !auth.IsBackOffice(ctx) && res.UserID != user.UserID {
		return nil, apperrors.NotFound("reservation " + id)
	}
	return res, nil
}

func (uc *reservationUseCase) FetchUserReservations(ctx context.Context) ([]model.Reservation, error) {
	user, ok := auth.GetUser(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return uc.repo.FindByUser(ctx, user.UserID)
}

func (uc *reservationUseCase) FetchAllReservations(ctx context.Context) ([]model.Reservation, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	return uc.repo.FindAll(ctx)
}

func (uc *reservationUseCase) UpdateReservationStatus(ctx context.Context, id, status string) (*model.Reservation, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if !validStatuses[status] {
		return nil, apperrors.Validation("unknown reservation status " + status)
	}

	res, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperrors.NotFound("reservation " + id)
	}

	previous := res.Status
	res.Status = status
	res.UpdatedAt = time.Now()
	patch := docstore.Patch{
		"status":    status,
		"updatedAt": res.UpdatedAt,
	}
	if err := uc.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	if status == model.ReservationStatusCompleted && previous != model.ReservationStatusCompleted && uc.publisher != nil {
		event := reservation.CompletedEvent{
			Type:          reservation.EventTypeCompleted,
			ReservationID: res.ID,
			UserID:        res.UserID,
			Items:         res.Items,
		}
		payload, err := json.Marshal(event)
		if err == nil {
			err = uc.publisher.Publish(ctx, []byte(res.ID), payload)
		}
		if err != nil {
			uc.logger.Error("failed to publish reservation completed event",
				zap.String("reservation_id", res.ID), zap.Error(err))
		}
	}

	return res, nil
}
