package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/basket"
	"github.com/JhnDrwnl/appDevFinal/internal/basket/dto"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/product"
)

type basketUseCase struct {
	repo     basket.Repository
	products product.Repository
	engine   basket.Engine
	logger   logger.ZapLogger
}

func NewBasketUseCase(repo basket.Repository, products product.Repository, engine basket.Engine, log logger.ZapLogger) basket.UseCase {
	return &basketUseCase{repo: repo, products: products, engine: engine, logger: log}
}

// basketOwner resolves the basket identity: the authenticated user when one
// is present, otherwise a guest id prefixed so the two namespaces cannot
// collide.
func basketOwner(ctx context.Context, guestID string) (string, error) {
	if user, ok := auth.GetUser(ctx); ok {
		return user.UserID, nil
	}
	if guestID == "" {
		return "", apperrors.Validation("guest id is required for anonymous baskets")
	}
	return "guest_" + guestID, nil
}

func (uc *basketUseCase) AddToBasket(ctx context.Context, input *dto.AddToBasketInput) (*model.BasketItem, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}
	owner, err := basketOwner(ctx, input.GuestID)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.FindByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == input.ProductID {
			items[i].Quantity += input.Quantity
			patch := docstore.Patch{
				"quantity":  items[i].Quantity,
				"updatedAt": time.Now(),
			}
			if err := uc.repo.Update(ctx, items[i].ID, patch); err != nil {
				return nil, err
			}
			return &items[i], nil
		}
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product " + input.ProductID)
	}

	res, err := uc.engine.ResolveBasket(ctx, p)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.BasketItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProductID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		FinalPrice:   res.FinalPrice,
		Quantity:     input.Quantity,
		ThumbnailURL: p.ThumbnailURL,
		UserID:       owner,
	}
	if err := uc.repo.Set(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *basketUseCase) ownedItem(ctx context.Context, itemID, guestID string) (*model.BasketItem, error) {
	owner, err := basketOwner(ctx, guestID)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != owner {
		return nil, apperrors.NotFound("basket item " + itemID)
	}
	return item, nil
}

func (uc *basketUseCase) UpdateItemQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.BasketItem, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}
	item, err := uc.ownedItem(ctx, input.ItemID, input.GuestID)
	if err != nil {
		return nil, err
	}
	item.Quantity = input.Quantity
	patch := docstore.Patch{
		"quantity":  input.Quantity,
		"updatedAt": time.Now(),
	}
	if err := uc.repo.Update(ctx, item.ID, patch); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *basketUseCase) RemoveFromBasket(ctx context.Context, itemID, guestID string) error {
	item, err := uc.ownedItem(ctx, itemID, guestID)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, item.ID)
}

func (uc *basketUseCase) FetchBasketItems(ctx context.Context, guestID string) ([]model.BasketItem, error) {
	owner, err := basketOwner(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return uc.repo.FindByUser(ctx, owner)
}

func (uc *basketUseCase) ClearBasket(ctx context.Context, guestID string) error {
	owner, err := basketOwner(ctx, guestID)
	if err != nil {
		return err
	}
	items, err := uc.repo.FindByUser(ctx, owner)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return uc.repo.DeleteAll(ctx, ids)
}

func (uc *basketUseCase) ConvertGuestToUser(ctx context.Context, guestID string) error {
	user, ok := auth.GetUser(ctx)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	if guestID == "" {
		return apperrors.Validation("guest id is required")
	}

	items, err := uc.repo.FindByUser(ctx, "guest_"+guestID)
	if err != nil {
		return err
	}
	for _, item := range items {
		patch := docstore.Patch{
			"userId":    user.UserID,
			"updatedAt": time.Now(),
		}
		if err := uc.repo.Update(ctx, item.ID, patch); err != nil {
			// Leave the failed line under the guest id and keep going.
			uc.logger.Warn("failed to reassign guest basket line",
				zap.String("item_id", item.ID), zap.Error(err))
		}
	}
	return nil
}

func (uc *basketUseCase) BasketCount(ctx context.Context, guestID string) (int, error) {
	items, err := uc.FetchBasketItems(ctx, guestID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}

func (uc *basketUseCase) BasketTotal(ctx context.Context, guestID string) (float64, error) {
	items, err := uc.FetchBasketItems(ctx, guestID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, item := range items {
		total += item.FinalPrice * float64(item.Quantity)
	}
	return total, nil
}
