package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/basket"
	basketDto "github.com/JhnDrwnl/appDevFinal/internal/basket/dto"
	basketRepo "github.com/JhnDrwnl/appDevFinal/internal/basket/repository"
	basketUC "github.com/JhnDrwnl/appDevFinal/internal/basket/usecase"
	categoryRepo "github.com/JhnDrwnl/appDevFinal/internal/category/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	priceRuleRepo "github.com/JhnDrwnl/appDevFinal/internal/pricerule/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/pricing"
	productRepo "github.com/JhnDrwnl/appDevFinal/internal/product/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/reservation"
	reservationRepo "github.com/JhnDrwnl/appDevFinal/internal/reservation/repository"
)

type fakePublisher struct {
	events [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, _, value []byte) error {
	p.events = append(p.events, value)
	return nil
}

type fixture struct {
	reservations reservation.UseCase
	baskets      basket.UseCase
	products     *productRepo.DocRepository
	publisher    *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	categories := categoryRepo.NewDocRepository(store)
	rules := priceRuleRepo.NewDocRepository(store)
	products := productRepo.NewDocRepository(store)
	engine := pricing.NewEngine(categories, categories, rules, rules)
	baskets := basketUC.NewBasketUseCase(basketRepo.NewDocRepository(store), products, engine, logger.NewNop())

	publisher := &fakePublisher{}
	return &fixture{
		reservations: NewReservationUseCase(reservationRepo.NewDocRepository(store), baskets, publisher, logger.NewNop()),
		baskets:      baskets,
		products:     products,
		publisher:    publisher,
	}
}

func userCtx(id string) context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: id, Role: auth.RoleCustomer})
}

func adminCtx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin})
}

func seedBasket(t *testing.T, f *fixture, ctx context.Context) {
	t.Helper()
	require.NoError(t, f.products.Set(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		Name:      "Cola",
		Price:     100,
	}))
	_, err := f.baskets.AddToBasket(ctx, &basketDto.AddToBasketInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
}

func TestCreateReservationCopiesSnapshotsAndClearsBasket(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx("u1")
	seedBasket(t, f, ctx)

	res, err := f.reservations.CreateReservation(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusPending, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p1", res.Items[0].ProductID)
	assert.Equal(t, 100.0, res.Items[0].FinalPrice)
	assert.Equal(t, 2, res.Items[0].Quantity)

	items, err := f.baskets.FetchBasketItems(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateReservationRejectsEmptyBasket(t *testing.T) {
	f := newFixture(t)

	_, err := f.reservations.CreateReservation(userCtx("u1"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.reservations.CreateReservation(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCompletingReservationPublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx("u1")
	seedBasket(t, f, ctx)

	res, err := f.reservations.CreateReservation(ctx, "")
	require.NoError(t, err)

	updated, err := f.reservations.UpdateReservationStatus(adminCtx(), res.ID, model.ReservationStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, updated.Status)

	require.Len(t, f.publisher.events, 1)
	var event reservation.CompletedEvent
	require.NoError(t, json.Unmarshal(f.publisher.events[0], &event))
	assert.Equal(t, reservation.EventTypeCompleted, event.Type)
	assert.Equal(t, res.ID, event.ReservationID)
	require.Len(t, event.Items, 1)
	assert.Equal(t, 2, event.Items[0].Quantity)

	// Completing twice does not publish twice.
	_, err = f.reservations.UpdateReservationStatus(adminCtx(), res.ID, model.ReservationStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, f.publisher.events, 1)
}

func TestUpdateReservationStatusGuards(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx("u1")
	seedBasket(t, f, ctx)

	res, err := f.reservations.CreateReservation(ctx, "")
	require.NoError(t, err)

	_, err = f.reservations.UpdateReservationStatus(ctx, res.ID, model.ReservationStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.reservations.UpdateReservationStatus(adminCtx(), res.ID, "shipped")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.reservations.UpdateReservationStatus(adminCtx(), "missing", model.ReservationStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFetchReservationsScoping(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx("u1")
	seedBasket(t, f, ctx)

	res, err := f.reservations.CreateReservation(ctx, "")
	require.NoError(t, err)

	mine, err := f.reservations.FetchUserReservations(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, res.ID, mine[0].ID)

	others, err := f.reservations.FetchUserReservations(userCtx("u2"))
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = f.reservations.FetchAllReservations(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	all, err := f.reservations.FetchAllReservations(adminCtx())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Another customer cannot read someone else's reservation.
	_, err = f.reservations.GetReservation(userCtx("u2"), res.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.reservations.GetReservation(adminCtx(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
}
