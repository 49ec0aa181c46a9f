package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/cache"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/product"
	"github.com/JhnDrwnl/appDevFinal/internal/stock"
	"github.com/JhnDrwnl/appDevFinal/internal/stock/dto"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type stockUseCase struct {
	repo     stock.Repository
	products product.Repository
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, products product.Repository, cacheClient *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{repo: repo, products: products, cache: cacheClient, logger: log}
}

func (uc *stockUseCase) withProductLock(ctx context.Context, productID string, fn func() error) error {
	if uc.cache == nil {
		return fn()
	}

	key := "stock:lock:" + productID
	token := uuid.New().String()

	acquired := false
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := uc.cache.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			return apperrors.Backend(err, "acquire stock lock")
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(lockBackoff)
	}
	if !acquired {
		return apperrors.Validation("product " + productID + " is locked by another adjustment")
	}
	defer func() {
		if err := uc.cache.ReleaseLock(ctx, key, token); err != nil {
			uc.logger.Warn("failed to release stock lock",
				zap.String("product_id", productID), zap.Error(err))
		}
	}()

	return fn()
}

func (uc *stockUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.Delta == 0 {
		return nil, apperrors.Validation("delta must not be zero")
	}

	var movement *model.StockMovement
	err := uc.withProductLock(ctx, input.ProductID, func() error {
		p, err := uc.products.FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperrors.NotFound("product " + input.ProductID)
		}

		after := p.StockQuantity + input.Delta
		if after < 0 {
			return apperrors.Validation("insufficient stock")
		}

		patch := docstore.Patch{
			"stockQuantity": after,
			"updatedAt":     time.Now(),
		}
		if err := uc.products.Update(ctx, p.ID, patch); err != nil {
			return err
		}

		movement = &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			QuantityChange: input.Delta,
			QuantityBefore: p.StockQuantity,
			QuantityAfter:  after,
			ReferenceType:  input.ReferenceType,
			ReferenceID:    input.ReferenceID,
			Notes:          input.Notes,
			CreatedBy:      input.ActorID,
			CreatedAt:      time.Now(),
		}
		if err := uc.repo.CreateMovement(ctx, movement); err != nil {
			// The adjustment already landed; surface the missing audit row.
			uc.logger.Error("stock adjusted but movement record failed",
				zap.String("product_id", p.ID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (uc *stockUseCase) FetchMovements(ctx context.Context, productID string) ([]model.StockMovement, error) {
	return uc.repo.FindMovementsByProduct(ctx, productID)
}
