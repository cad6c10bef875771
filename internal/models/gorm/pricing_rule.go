package gorm

import (
	"strconv"
	"strings"
	"time"
)

// PricingRule adjusts a property's base price for matching dates.
// Rules are independent, may overlap, and are applied highest priority
// first (ties broken by id). MatcherType selects which matcher fields
// are consulted.
type PricingRule struct {
	ID              string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	PropertyID      string     `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	Priority        int        `gorm:"column:priority;default:0" json:"priority"`
	MatcherType     string     `gorm:"column:matcher_type;type:varchar(20);not null" json:"matcherType"`
	StartDate       *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate         *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	DaysOfWeek      string     `gorm:"column:days_of_week" json:"daysOfWeek,omitempty"`
	AdjustmentType  string     `gorm:"column:adjustment_type;type:varchar(20);not null" json:"adjustmentType"`
	AdjustmentValue float64    `gorm:"column:adjustment_value;not null" json:"adjustmentValue"`
	IsActive        bool       `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// Weekdays parses the comma-separated DaysOfWeek column into weekday
// numbers (0=Sunday .. 6=Saturday). Malformed entries are skipped.
func (r *PricingRule) Weekdays() []time.Weekday {
	if r.DaysOfWeek == "" {
		return nil
	}
	parts := strings.Split(r.DaysOfWeek, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
