package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/category"
	"github.com/JhnDrwnl/appDevFinal/internal/category/dto"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) AddCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if input.Name == "" {
		return nil, apperrors.Validation("category name is required")
	}

	id := uuid.New().String()
	parentIDs := input.ParentIDs
	if parentIDs == nil {
		parentIDs = []string{}
	}
	if err := uc.validateParents(ctx, id, parentIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Category{
		BaseModel: model.BaseModel{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         input.Name,
		ParentIDs:    parentIDs,
		ProductCount: 0,
		PriceRule:    nil,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("category " + id)
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *categoryUseCase) ListRootCategories(ctx context.Context) ([]model.Category, error) {
	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	roots := make([]model.Category, 0, len(all))
	for _, c := range all {
		if len(c.ParentIDs) == 0 {
			roots = append(roots, c)
		}
	}
	return roots, nil
}

func (uc *categoryUseCase) ListChildren(ctx context.Context, parentID string) ([]model.Category, error) {
	return uc.repo.FindChildren(ctx, parentID)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}

	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("category " + input.ID)
	}

	patch := docstore.Patch{"updatedAt": time.Now()}

	if input.ParentIDs != nil {
		if err := uc.validateParents(ctx, c.ID, *input.ParentIDs); err != nil {
			return nil, err
		}
		c.ParentIDs = *input.ParentIDs
		patch["parentIds"] = c.ParentIDs
	}

	renamed := input.Name != nil && *input.Name != c.Name
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.Validation("category name is required")
		}
		c.Name = *input.Name
		patch["name"] = c.Name
	}
	if renamed && c.PriceRule != nil {
		c.PriceRule.CategoryName = c.Name
		patch["priceRule"] = c.PriceRule
	}

	if err := uc.repo.Update(ctx, c.ID, patch); err != nil {
		return nil, err
	}

	// A rename must reach every join record projecting this category's name.
	if renamed {
		joins, err := uc.repo.FindJoinsByCategory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, join := range joins {
			if err := uc.repo.UpdateJoin(ctx, join.ID, docstore.Patch{"categoryName": c.Name}); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}

	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperrors.NotFound("category " + id)
	}

	// Children keep their other parent edges; they are not deleted or
	// re-parented beyond losing this one edge.
	children, err := uc.repo.FindChildren(ctx, id)
	if err != nil {
		return err
	}
	return uc.repo.DeleteAndDetach(ctx, id, children)
}

func (uc *categoryUseCase) IncrementProductCount(ctx context.Context, id string) error {
	return uc.repo.AdjustProductCount(ctx, id, 1)
}

func (uc *categoryUseCase) DecrementProductCount(ctx context.Context, id string) error {
	return uc.repo.AdjustProductCount(ctx, id, -1)
}

func (uc *categoryUseCase) SetCategoryPriceRule(ctx context.Context, categoryID string, rule *model.PriceRule) (*model.CategoryPriceRule, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if rule == nil {
		return nil, apperrors.Validation("price rule is required")
	}

	c, err := uc.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("category " + categoryID)
	}

	join := &model.CategoryPriceRule{
		ID:             uuid.New().String(),
		CategoryID:     c.ID,
		CategoryName:   c.Name,
		PriceRuleID:    rule.ID,
		PriceRuleName:  rule.Name,
		PriceRuleValue: rule.Value,
		PriceRuleType:  rule.Type,
	}
	if err := uc.repo.CreateJoin(ctx, join); err != nil {
		return nil, err
	}

	// The full descendant set is computed up front and written in one batch,
	// so a crash cannot leave part of the subtree carrying a stale rule.
	targets, err := uc.subtreeIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetRuleSnapshots(ctx, targets, join); err != nil {
		return nil, err
	}

	uc.logger.Info("propagated category price rule",
		zap.String("category_id", categoryID),
		zap.String("price_rule_id", rule.ID),
		zap.Int("categories_written", len(targets)),
	)
	return join, nil
}

func (uc *categoryUseCase) RemoveCategoryPriceRule(ctx context.Context, categoryID string) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}

	joins, err := uc.repo.FindJoinsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(joins) == 0 {
		return apperrors.NotFound("price rule for category " + categoryID)
	}

	targets, err := uc.subtreeIDs(ctx, categoryID)
	if err != nil {
		return err
	}
	// targets[0] is the category itself; RemoveRule clears it separately.
	descendants := targets[1:]

	for _, join := range joins {
		if err := uc.repo.RemoveRule(ctx, join.ID, categoryID, descendants); err != nil {
			return err
		}
	}
	return nil
}

func (uc *categoryUseCase) ListCategoryPriceRules(ctx context.Context) ([]model.CategoryPriceRule, error) {
	return uc.repo.FindAllJoins(ctx)
}

func (uc *categoryUseCase) SearchCategories(ctx context.Context, query string) ([]model.Category, error) {
	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	q := strings.ToLower(query)
	seen := map[string]bool{}
	var results []model.Category
	for _, c := range all {
		if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.ID), q) {
			continue
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			results = append(results, c)
		}
		// Matches bring their direct parents along for display context.
		for _, parentID := range c.ParentIDs {
			if parent, ok := byID[parentID]; ok && !seen[parent.ID] {
				seen[parent.ID] = true
				results = append(results, parent)
			}
		}
	}
	return results, nil
}

// subtreeIDs returns the category id followed by every transitive descendant.
// The visited set makes the walk terminate even on legacy cyclic data.
func (uc *categoryUseCase) subtreeIDs(ctx context.Context, rootID string) ([]string, error) {
	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	children := map[string][]string{}
	for _, c := range all {
		for _, parentID := range c.ParentIDs {
			children[parentID] = append(children[parentID], c.ID)
		}
	}

	visited := map[string]bool{rootID: true}
	order := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range children[current] {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			order = append(order, childID)
			queue = append(queue, childID)
		}
	}
	return order, nil
}

// validateParents rejects self-parenting and any parent set that would make
// id an ancestor of itself.
func (uc *categoryUseCase) validateParents(ctx context.Context, id string, parentIDs []string) error {
	if len(parentIDs) == 0 {
		return nil
	}

	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]model.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	for _, parentID := range parentIDs {
		if parentID == id {
			return apperrors.Validation("category cannot be its own parent")
		}
		// Climb from the proposed parent; reaching id means a cycle.
		visited := map[string]bool{}
		stack := []string{parentID}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if current == id {
				return apperrors.Validation("parent assignment would create a cycle")
			}
			if visited[current] {
				continue
			}
			visited[current] = true
			if ancestor, ok := byID[current]; ok {
				stack = append(stack, ancestor.ParentIDs...)
			}
		}
	}
	return nil
}
