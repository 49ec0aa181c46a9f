package category

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
)

type Repository interface {
	Create(ctx context.Context, c *model.Category) error
	// FindByID returns (nil, nil) when the category does not exist.
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]model.Category, error)
	Update(ctx context.Context, id string, patch docstore.Patch) error
	// DeleteAndDetach removes the category and strips its id from the
	// parentIds of the given children, all in one atomic batch.
	DeleteAndDetach(ctx context.Context, id string, children []model.Category) error
	// AdjustProductCount changes productCount by delta inside a transaction,
	// flooring the stored counter at zero.
	AdjustProductCount(ctx context.Context, id string, delta int) error

	// SetRuleSnapshots overwrites (or clears, when rule is nil) the priceRule
	// snapshot on every listed category in one atomic batch.
	SetRuleSnapshots(ctx context.Context, categoryIDs []string, rule *model.CategoryPriceRule) error
	CreateJoin(ctx context.Context, join *model.CategoryPriceRule) error
	FindJoinsByCategory(ctx context.Context, categoryID string) ([]model.CategoryPriceRule, error)
	FindAllJoins(ctx context.Context) ([]model.CategoryPriceRule, error)
	UpdateJoin(ctx context.Context, id string, patch docstore.Patch) error
	// RemoveRule deletes the join record and clears the snapshot on the
	// category and every descendant in one transaction.
	RemoveRule(ctx context.Context, joinID, categoryID string, descendantIDs []string) error
}
