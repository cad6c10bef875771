package repositories

import (
	"context"
	"errors"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// PricingRuleRepo handles pricing rule persistence. Rules are owned by
// the property owner; the sync orchestrator only ever reads them.
type PricingRuleRepo struct {
	db *gormlib.DB
}

func NewPricingRuleRepo(db *gormlib.DB) *PricingRuleRepo {
	return &PricingRuleRepo{db: db}
}

func (r *PricingRuleRepo) Create(ctx context.Context, rule *gormModels.PricingRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *PricingRuleRepo) GetByID(ctx context.Context, id string) (*gormModels.PricingRule, error) {
	var rule gormModels.PricingRule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, constants.NewNotFoundError("pricing rule", id)
		}
		return nil, err
	}
	return &rule, nil
}

func (r *PricingRuleRepo) ListByProperty(ctx context.Context, propertyID string) ([]gormModels.PricingRule, error) {
	var rules []gormModels.PricingRule
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	return rules, err
}

// ListActiveByProperty returns the rule snapshot the pricing engine
// evaluates against.
func (r *PricingRuleRepo) ListActiveByProperty(ctx context.Context, propertyID string) ([]gormModels.PricingRule, error) {
	var rules []gormModels.PricingRule
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *PricingRuleRepo) Update(ctx context.Context, rule *gormModels.PricingRule) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.PricingRule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]interface{}{
			"priority":         rule.Priority,
			"matcher_type":     rule.MatcherType,
			"start_date":       rule.StartDate,
			"end_date":         rule.EndDate,
			"days_of_week":     rule.DaysOfWeek,
			"adjustment_type":  rule.AdjustmentType,
			"adjustment_value": rule.AdjustmentValue,
			"is_active":        rule.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return constants.NewNotFoundError("pricing rule", rule.ID)
	}
	return nil
}

func (r *PricingRuleRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.PricingRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return constants.NewNotFoundError("pricing rule", id)
	}
	return nil
}
