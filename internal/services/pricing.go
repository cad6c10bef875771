package services

import (
	"math"
	"sort"
	"time"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"
)

// RuleMatches reports whether an active rule applies to the given date.
// Inactive rules never match.
func RuleMatches(rule *gormModels.PricingRule, date time.Time) bool {
	if !rule.IsActive {
		return false
	}

	date = NormalizeDate(date)

	switch rule.MatcherType {
	case constants.MatcherDateRange:
		if rule.StartDate != nil && date.Before(NormalizeDate(*rule.StartDate)) {
			return false
		}
		if rule.EndDate != nil && date.After(NormalizeDate(*rule.EndDate)) {
			return false
		}
		return rule.StartDate != nil || rule.EndDate != nil
	case constants.MatcherDaysOfWeek:
		for _, wd := range rule.Weekdays() {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// CalculatePrice evaluates basePrice against a property's rules for one
// date. Matching rules apply highest priority first (ties broken by
// rule id so evaluation order is never ambiguous); percentage rules
// multiply the running price, fixed rules add to it. The result is
// rounded to 2 decimals once at the end only, so intermediate steps
// never compound rounding error. No matching rule returns basePrice
// unchanged.
//
// Pure function: no I/O, no side effects.
func CalculatePrice(rules []gormModels.PricingRule, date time.Time, basePrice float64) float64 {
	matching := make([]gormModels.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if RuleMatches(&rule, date) {
			matching = append(matching, rule)
		}
	}

	if len(matching) == 0 {
		return basePrice
	}

	sort.Slice(matching, func(i, j int) bool {
		if matching[i].Priority != matching[j].Priority {
			return matching[i].Priority > matching[j].Priority
		}
		return matching[i].ID < matching[j].ID
	})

	price := basePrice
	for _, rule := range matching {
		switch rule.AdjustmentType {
		case constants.AdjustmentPercentage:
			price *= rule.AdjustmentValue
		case constants.AdjustmentFixed:
			price += rule.AdjustmentValue
		}
	}

	return roundPrice(price)
}

// MatchingRuleCount returns how many rules apply to the date, for
// quote responses.
func MatchingRuleCount(rules []gormModels.PricingRule, date time.Time) int {
	count := 0
	for _, rule := range rules {
		if RuleMatches(&rule, date) {
			count++
		}
	}
	return count
}

func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
