package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/pricerule"
	"github.com/JhnDrwnl/appDevFinal/internal/pricerule/dto"
)

var whitespace = regexp.MustCompile(`\s+`)

// RuleID derives the stable registry id from a rule's name and type.
func RuleID(name, ruleType string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-") + "_" + ruleType
}

// ProductRuleID derives the composite association key from product and rule
// names, case-insensitive and whitespace-normalized.
func ProductRuleID(productName, ruleName string) string {
	return whitespace.ReplaceAllString(strings.ToLower(productName+"_"+ruleName), "_")
}

type priceRuleUseCase struct {
	repo   pricerule.Repository
	logger logger.ZapLogger
}

func NewPriceRuleUseCase(repo pricerule.Repository, log logger.ZapLogger) pricerule.UseCase {
	return &priceRuleUseCase{
		repo:   repo,
		logger: log,
	}
}

func validRuleType(t string) bool {
	return t == model.RuleTypePercentage || t == model.RuleTypeFixed
}

func (uc *priceRuleUseCase) AddPriceRule(ctx context.Context, input *dto.CreatePriceRuleInput) (*model.PriceRule, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if input.Name == "" {
		return nil, apperrors.Validation("price rule name is required")
	}
	if !validRuleType(input.Type) {
		return nil, apperrors.Validation("price rule type must be percentage or fixed")
	}
	if input.Value < 0 {
		return nil, apperrors.Validation("price rule value must not be negative")
	}

	id := RuleID(input.Name, input.Type)

	existing, err := uc.repo.FindRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.logger.Warn("overwriting existing price rule", zap.String("price_rule_id", id))
	}

	now := time.Now()
	rule := &model.PriceRule{
		ID:        id,
		Name:      input.Name,
		Value:     input.Value,
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.SetRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (uc *priceRuleUseCase) GetPriceRule(ctx context.Context, id string) (*model.PriceRule, error) {
	rule, err := uc.repo.FindRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperrors.NotFound("price rule " + id)
	}
	return rule, nil
}

func (uc *priceRuleUseCase) ListPriceRules(ctx context.Context) ([]model.PriceRule, error) {
	return uc.repo.FindAllRules(ctx)
}

func (uc *priceRuleUseCase) ListActivePriceRules(ctx context.Context, now time.Time) ([]model.PriceRule, error) {
	all, err := uc.repo.FindAllRules(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.PriceRule, 0, len(all))
	for _, rule := range all {
		if rule.IsActive(now) {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (uc *priceRuleUseCase) UpdatePriceRule(ctx context.Context, input *dto.UpdatePriceRuleInput) (*model.PriceRule, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}

	rule, err := uc.repo.FindRuleByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperrors.NotFound("price rule " + input.ID)
	}

	patch := docstore.Patch{"updatedAt": time.Now()}
	if input.Name != nil {
		rule.Name = *input.Name
		patch["name"] = rule.Name
	}
	if input.Value != nil {
		if *input.Value < 0 {
			return nil, apperrors.Validation("price rule value must not be negative")
		}
		rule.Value = *input.Value
		patch["value"] = rule.Value
	}
	if input.StartDate != nil {
		rule.StartDate = input.StartDate
		patch["startDate"] = rule.StartDate
	}
	if input.EndDate != nil {
		rule.EndDate = input.EndDate
		patch["endDate"] = rule.EndDate
	}

	if err := uc.repo.UpdateRule(ctx, rule.ID, patch); err != nil {
		return nil, err
	}
	return rule, nil
}

func (uc *priceRuleUseCase) DeletePriceRule(ctx context.Context, id string) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}
	return uc.repo.DeleteRule(ctx, id)
}

func (uc *priceRuleUseCase) AddProductPriceRule(ctx context.Context, input *dto.ProductPriceRuleInput) (*model.ProductPriceRule, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if input.ProductName == "" || input.PriceRuleName == "" {
		return nil, apperrors.Validation("product name and price rule name are required")
	}

	rule := &model.ProductPriceRule{
		ID:             ProductRuleID(input.ProductName, input.PriceRuleName),
		ProductID:      input.ProductID,
		ProductName:    input.ProductName,
		PriceRuleID:    input.PriceRuleID,
		PriceRuleName:  input.PriceRuleName,
		PriceRuleValue: input.PriceRuleValue,
		PriceRuleType:  input.PriceRuleType,
	}
	if err := uc.repo.SetProductRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (uc *priceRuleUseCase) ListProductPriceRules(ctx context.Context) ([]model.ProductPriceRule, error) {
	return uc.repo.FindAllProductRules(ctx)
}

func (uc *priceRuleUseCase) ListProductPriceRulesByProduct(ctx context.Context, productID string) ([]model.ProductPriceRule, error) {
	return uc.repo.FindProductRulesByProduct(ctx, productID)
}

func (uc *priceRuleUseCase) UpdateProductPriceRule(ctx context.Context, id string, input *dto.ProductPriceRuleInput) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}
	patch := docstore.Patch{
		"productId":      input.ProductID,
		"productName":    input.ProductName,
		"priceRuleId":    input.PriceRuleID,
		"priceRuleName":  input.PriceRuleName,
		"priceRuleValue": input.PriceRuleValue,
		"priceRuleType":  input.PriceRuleType,
	}
	return uc.repo.UpdateProductRule(ctx, id, patch)
}

func (uc *priceRuleUseCase) DeleteProductPriceRule(ctx context.Context, id string) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}
	return uc.repo.DeleteProductRule(ctx, id)
}
