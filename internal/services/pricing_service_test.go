package services

import (
	"context"
	"testing"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	gormModels "staylink/channelsync/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeCache lets a test script the cache's answers.
type fakeCache struct {
	getOrSetFunc func(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)
	deleted      []string
}

func (c *fakeCache) Set(key string, value interface{}, duration time.Duration) {}

func (c *fakeCache) Get(key string) (interface{}, bool) { return nil, false }

func (c *fakeCache) Delete(key string) { c.deleted = append(c.deleted, key) }

func (c *fakeCache) GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error) {
	if c.getOrSetFunc != nil {
		return c.getOrSetFunc(key, duration, loader)
	}
	return loader()
}

func (c *fakeCache) Close() error { return nil }

func setupPricingService(t *testing.T, cache *fakeCache) (*PricingService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gormModels.Property{}, &gormModels.PricingRule{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	property := &gormModels.Property{ID: "prop-1", Name: "Test Flat", BasePrice: 100, Currency: "EUR", IsActive: true}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}

	svc := NewPricingService(repositories.NewPricingRuleRepo(db), repositories.NewPropertyRepo(db), cache)
	return svc, db
}

// A Redis cache hit arrives as the generic shape json.Unmarshal
// produces; the snapshot must still decode into typed rules instead of
// falling through to the repository.
func TestRulesSnapshot_DecodesGenericCacheHit(t *testing.T) {
	hit := []interface{}{
		map[string]interface{}{
			"id":              "rule-1",
			"propertyId":      "prop-1",
			"priority":        float64(10),
			"matcherType":     constants.MatcherDateRange,
			"adjustmentType":  constants.AdjustmentPercentage,
			"adjustmentValue": 1.5,
			"isActive":        true,
		},
	}
	cache := &fakeCache{
		getOrSetFunc: func(key string, duration time.Duration, loader func() (any, error)) (interface{}, error) {
			return hit, nil
		},
	}
	// The rules table is left empty so any repository fallback would
	// return nothing.
	svc, _ := setupPricingService(t, cache)

	rules, err := svc.RulesSnapshot(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("Expected 1 rule from the cache hit, got %d", len(rules))
	}
	if rules[0].ID != "rule-1" || rules[0].AdjustmentValue != 1.5 || rules[0].Priority != 10 {
		t.Errorf("Cached rule decoded incorrectly: %+v", rules[0])
	}
}

func TestRulesSnapshot_TypedValuePassesThrough(t *testing.T) {
	cache := &fakeCache{} // GetOrSet runs the loader directly
	svc, db := setupPricingService(t, cache)

	rule := &gormModels.PricingRule{
		ID:              "rule-1",
		PropertyID:      "prop-1",
		MatcherType:     constants.MatcherDateRange,
		AdjustmentType:  constants.AdjustmentFixed,
		AdjustmentValue: 10,
		IsActive:        true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("Failed to create rule: %v", err)
	}

	rules, err := svc.RulesSnapshot(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "rule-1" {
		t.Fatalf("Expected the stored rule, got %+v", rules)
	}
}

func TestRulesSnapshot_UnrecognizableCacheValueFallsBack(t *testing.T) {
	cache := &fakeCache{
		getOrSetFunc: func(key string, duration time.Duration, loader func() (any, error)) (interface{}, error) {
			return "not a rule snapshot", nil
		},
	}
	svc, db := setupPricingService(t, cache)

	rule := &gormModels.PricingRule{
		ID:              "rule-1",
		PropertyID:      "prop-1",
		MatcherType:     constants.MatcherDaysOfWeek,
		DaysOfWeek:      "5,6",
		AdjustmentType:  constants.AdjustmentPercentage,
		AdjustmentValue: 1.2,
		IsActive:        true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("Failed to create rule: %v", err)
	}

	rules, err := svc.RulesSnapshot(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "rule-1" {
		t.Fatalf("Expected the repository rule on fallback, got %+v", rules)
	}
}

func TestInvalidateRules_DropsSnapshotKey(t *testing.T) {
	cache := &fakeCache{}
	svc, _ := setupPricingService(t, cache)

	svc.InvalidateRules("prop-1")

	if len(cache.deleted) != 1 || cache.deleted[0] != "pricing:rules:prop-1" {
		t.Errorf("Expected snapshot key deleted, got %v", cache.deleted)
	}
}
