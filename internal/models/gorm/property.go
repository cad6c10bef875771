package gorm

import "time"

// Property is the owning entity for calendars, rules and integrations
type Property struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	BasePrice float64   `gorm:"column:base_price;not null" json:"basePrice"`
	Currency  string    `gorm:"column:currency;type:varchar(3);default:EUR" json:"currency"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Property) TableName() string {
	return "properties"
}
