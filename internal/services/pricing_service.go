package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staylink/channelsync/internal/common"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"
)

const ruleSnapshotTTL = 60 * time.Second

// PricingService wraps the pure pricing engine with a cached rule
// snapshot per property. Rules are read-mostly and advisory: owners may
// edit them concurrently with syncs, each CalculatePrice call just sees
// one consistent snapshot.
type PricingService struct {
	ruleRepo     *repositories.PricingRuleRepo
	propertyRepo *repositories.PropertyRepo
	cache        common.CacheInterface
}

func NewPricingService(ruleRepo *repositories.PricingRuleRepo, propertyRepo *repositories.PropertyRepo, cache common.CacheInterface) *PricingService {
	return &PricingService{
		ruleRepo:     ruleRepo,
		propertyRepo: propertyRepo,
		cache:        cache,
	}
}

// RulesSnapshot returns the active rules for a property, cached for a
// short TTL so a pricing sync over a 90-day horizon loads them once.
func (s *PricingService) RulesSnapshot(ctx context.Context, propertyID string) ([]gormModels.PricingRule, error) {
	key := fmt.Sprintf("pricing:rules:%s", propertyID)

	val, err := s.cache.GetOrSet(key, ruleSnapshotTTL, func() (any, error) {
		return s.ruleRepo.ListActiveByProperty(ctx, propertyID)
	})
	if err != nil {
		return nil, err
	}

	if rules, ok := decodeRuleSnapshot(val); ok {
		return rules, nil
	}
	// Unrecognizable cached value; reload from the repository.
	return s.ruleRepo.ListActiveByProperty(ctx, propertyID)
}

// decodeRuleSnapshot recovers the typed rule slice from a cache value.
// The in-process cache hands back the slice it stored. The Redis
// backend json-unmarshals into interface{}, so a hit arrives as
// []interface{} of maps and is round-tripped through JSON into the
// typed slice.
func decodeRuleSnapshot(val interface{}) ([]gormModels.PricingRule, bool) {
	if rules, ok := val.([]gormModels.PricingRule); ok {
		return rules, true
	}

	data, err := json.Marshal(val)
	if err != nil {
		return nil, false
	}
	var rules []gormModels.PricingRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, false
	}
	return rules, true
}

// InvalidateRules drops the cached snapshot after a rule edit.
func (s *PricingService) InvalidateRules(propertyID string) {
	s.cache.Delete(fmt.Sprintf("pricing:rules:%s", propertyID))
}

// Quote computes the price for one date from the property's base price
// and its active rules.
func (s *PricingService) Quote(ctx context.Context, propertyID string, date time.Time) (*dtos.QuoteResponse, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	rules, err := s.RulesSnapshot(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	date = NormalizeDate(date)
	return &dtos.QuoteResponse{
		PropertyID:   propertyID,
		Date:         date.Format(DateFormat),
		BasePrice:    property.BasePrice,
		Price:        CalculatePrice(rules, date, property.BasePrice),
		RulesMatched: MatchingRuleCount(rules, date),
	}, nil
}
