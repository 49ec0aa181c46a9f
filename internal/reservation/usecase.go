package reservation

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
)

type UseCase interface {
	// CreateReservation turns the caller's basket into a pending reservation,
	// copying the basket price snapshots, and clears the basket.
	CreateReservation(ctx context.Context, guestID string) (*model.Reservation, error)
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	FetchUserReservations(ctx context.Context) ([]model.Reservation, error)
	// FetchAllReservations is back-office only.
	FetchAllReservations(ctx context.Context) ([]model.Reservation, error)
	// UpdateReservationStatus is back-office only. Moving a reservation to
	// completed emits a ReservationCompleted event for the stock worker.
	UpdateReservationStatus(ctx context.Context, id, status string) (*model.Reservation, error)
}

// Publisher emits reservation lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// CompletedEvent is the payload published when a reservation completes.
type CompletedEvent struct {
	Type          string                  `json:"type"`
	ReservationID string                  `json:"reservationId"`
	UserID        string                  `json:"userId"`
	Items         []model.ReservationItem `json:"items"`
}

const EventTypeCompleted = "ReservationCompleted"
