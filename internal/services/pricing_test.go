package services

import (
	"testing"
	"time"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestCalculatePrice_PercentageThenFixed(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	rules := []gormModels.PricingRule{
		{
			ID:              "rule-summer",
			Priority:        10,
			MatcherType:     constants.MatcherDateRange,
			StartDate:       datePtr(start),
			EndDate:         datePtr(end),
			AdjustmentType:  constants.AdjustmentPercentage,
			AdjustmentValue: 1.5,
			IsActive:        true,
		},
		{
			ID:              "rule-cleaning",
			Priority:        5,
			MatcherType:     constants.MatcherDateRange,
			StartDate:       datePtr(start),
			EndDate:         datePtr(end),
			AdjustmentType:  constants.AdjustmentFixed,
			AdjustmentValue: 10,
			IsActive:        true,
		},
	}

	date := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	price := CalculatePrice(rules, date, 100)

	// (100 * 1.5) + 10, higher priority first
	if price != 160.00 {
		t.Errorf("Expected price 160.00, got %.2f", price)
	}
}

func TestCalculatePrice_Deterministic(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	rules := []gormModels.PricingRule{
		{ID: "a", Priority: 3, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 1.2, IsActive: true},
		{ID: "b", Priority: 2, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentFixed, AdjustmentValue: 25, IsActive: true},
		{ID: "c", Priority: 1, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 0.9, IsActive: true},
	}

	date := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	first := CalculatePrice(rules, date, 100)

	for i := 0; i < 50; i++ {
		if got := CalculatePrice(rules, date, 100); got != first {
			t.Fatalf("Run %d produced %.4f, expected %.4f", i, got, first)
		}
	}
}

func TestCalculatePrice_SingleRoundingAtEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	// 100 * 0.0333333 = 3.33333, * 6 = 19.99998 -> 20.00.
	// Rounding the intermediate step would give 3.33 * 6 = 19.98.
	rules := []gormModels.PricingRule{
		{ID: "a", Priority: 2, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 0.0333333, IsActive: true},
		{ID: "b", Priority: 1, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 6, IsActive: true},
	}

	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	price := CalculatePrice(rules, date, 100)

	if price != 20.00 {
		t.Errorf("Expected 20.00 with a single final rounding, got %.4f", price)
	}

	surcharge := []gormModels.PricingRule{
		{ID: "s", MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentFixed, AdjustmentValue: 0.001, IsActive: true},
	}
	if got := CalculatePrice(surcharge, date, 19.999); got != 20.00 {
		t.Errorf("Expected 19.999 + 0.001 to round to 20.00, got %.4f", got)
	}
}

func TestCalculatePrice_NoMatchingRules(t *testing.T) {
	rules := []gormModels.PricingRule{
		{
			ID:              "rule-past",
			MatcherType:     constants.MatcherDateRange,
			StartDate:       datePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:         datePtr(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)),
			AdjustmentType:  constants.AdjustmentPercentage,
			AdjustmentValue: 2,
			IsActive:        true,
		},
	}

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if price := CalculatePrice(rules, date, 120); price != 120 {
		t.Errorf("Expected base price 120 unchanged, got %.2f", price)
	}
	if price := CalculatePrice(nil, date, 120); price != 120 {
		t.Errorf("Expected base price 120 with no rules, got %.2f", price)
	}
}

func TestCalculatePrice_PriorityOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	fixed := gormModels.PricingRule{ID: "fixed", MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentFixed, AdjustmentValue: 10, IsActive: true}
	pct := gormModels.PricingRule{ID: "pct", MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 1.5, IsActive: true}

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	// fixed applies first: (100 + 10) * 1.5 = 165
	fixed.Priority, pct.Priority = 10, 5
	if price := CalculatePrice([]gormModels.PricingRule{fixed, pct}, date, 100); price != 165.00 {
		t.Errorf("Expected 165.00 with fixed rule first, got %.2f", price)
	}

	// percentage applies first: (100 * 1.5) + 10 = 160
	fixed.Priority, pct.Priority = 5, 10
	if price := CalculatePrice([]gormModels.PricingRule{fixed, pct}, date, 100); price != 160.00 {
		t.Errorf("Expected 160.00 with percentage rule first, got %.2f", price)
	}
}

func TestCalculatePrice_PriorityTieBrokenByID(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	rules := []gormModels.PricingRule{
		{ID: "b-double", Priority: 1, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentPercentage, AdjustmentValue: 2, IsActive: true},
		{ID: "a-surcharge", Priority: 1, MatcherType: constants.MatcherDateRange, StartDate: datePtr(start), EndDate: datePtr(end), AdjustmentType: constants.AdjustmentFixed, AdjustmentValue: 10, IsActive: true},
	}

	// Equal priority resolves by id: "a-surcharge" before "b-double",
	// so (100 + 10) * 2 = 220.
	date := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	if price := CalculatePrice(rules, date, 100); price != 220.00 {
		t.Errorf("Expected 220.00 with id tie-break, got %.2f", price)
	}
}

func TestRuleMatches_DateRangeBoundsInclusive(t *testing.T) {
	rule := &gormModels.PricingRule{
		MatcherType:     constants.MatcherDateRange,
		StartDate:       datePtr(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:         datePtr(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)),
		AdjustmentType:  constants.AdjustmentFixed,
		AdjustmentValue: 1,
		IsActive:        true,
	}

	cases := []struct {
		date    time.Time
		matches bool
	}{
		{time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, c := range cases {
		if got := RuleMatches(rule, c.date); got != c.matches {
			t.Errorf("Date %s: expected matches=%v, got %v", c.date.Format(DateFormat), c.matches, got)
		}
	}
}

func TestRuleMatches_DateRangeOpenEnded(t *testing.T) {
	rule := &gormModels.PricingRule{
		MatcherType:     constants.MatcherDateRange,
		StartDate:       datePtr(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
		AdjustmentType:  constants.AdjustmentFixed,
		AdjustmentValue: 1,
		IsActive:        true,
	}

	if !RuleMatches(rule, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected open-ended rule to match any date after start")
	}
	if RuleMatches(rule, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected open-ended rule not to match before start")
	}

	// A date-range rule with neither bound matches nothing.
	unbounded := &gormModels.PricingRule{
		MatcherType:     constants.MatcherDateRange,
		AdjustmentType:  constants.AdjustmentFixed,
		AdjustmentValue: 1,
		IsActive:        true,
	}
	if RuleMatches(unbounded, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected rule with no bounds to never match")
	}
}

func TestRuleMatches_DaysOfWeek(t *testing.T) {
	weekend := &gormModels.PricingRule{
		MatcherType:     constants.MatcherDaysOfWeek,
		DaysOfWeek:      "5,6",
		AdjustmentType:  constants.AdjustmentPercentage,
		AdjustmentValue: 1.25,
		IsActive:        true,
	}

	saturday := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

	if saturday.Weekday() != time.Saturday || monday.Weekday() != time.Monday {
		t.Fatal("Test fixture dates are wrong")
	}
	if !RuleMatches(weekend, saturday) {
		t.Error("Expected weekend rule to match Saturday")
	}
	if RuleMatches(weekend, monday) {
		t.Error("Expected weekend rule not to match Monday")
	}
}

func TestRuleMatches_InactiveNeverMatches(t *testing.T) {
	rule := &gormModels.PricingRule{
		MatcherType:     constants.MatcherDateRange,
		StartDate:       datePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:         datePtr(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)),
		AdjustmentType:  constants.AdjustmentFixed,
		AdjustmentValue: 50,
		IsActive:        false,
	}

	if RuleMatches(rule, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected inactive rule not to match")
	}
	if price := CalculatePrice([]gormModels.PricingRule{*rule}, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 100); price != 100 {
		t.Errorf("Expected inactive rule to leave price at 100, got %.2f", price)
	}
}
