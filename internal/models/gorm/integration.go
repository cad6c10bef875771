package gorm

import "time"

// Integration is a configured connection between one property and one
// channel platform. One row per (property, platform) pair.
type Integration struct {
	ID            string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	PropertyID    string     `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_property_platform" json:"propertyId"`
	Platform      string     `gorm:"column:platform;type:varchar(50);not null;uniqueIndex:idx_property_platform" json:"platform"`
	CredentialRef string     `gorm:"column:credential_ref" json:"credentialRef"`
	IsActive      bool       `gorm:"column:is_active;default:true" json:"isActive"`
	LastSyncDate  *time.Time `gorm:"column:last_sync_date" json:"lastSyncDate,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
}

// TableName specifies the table name for GORM
func (Integration) TableName() string {
	return "integrations"
}
