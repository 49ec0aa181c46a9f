package category

import (
	"context"

	"github.com/JhnDrwnl/appDevFinal/internal/category/dto"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
)

type UseCase interface {
	AddCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListRootCategories(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	IncrementProductCount(ctx context.Context, id string) error
	DecrementProductCount(ctx context.Context, id string) error

	// SetCategoryPriceRule attaches rule to the category and eagerly copies
	// the snapshot down to every descendant in one atomic batch.
	SetCategoryPriceRule(ctx context.Context, categoryID string, rule *model.PriceRule) (*model.CategoryPriceRule, error)
	// RemoveCategoryPriceRule deletes the join record and clears the snapshot
	// on the category and all its descendants in one transaction.
	RemoveCategoryPriceRule(ctx context.Context, categoryID string) error
	ListCategoryPriceRules(ctx context.Context) ([]model.CategoryPriceRule, error)
	SearchCategories(ctx context.Context, query string) ([]model.Category, error)
}
