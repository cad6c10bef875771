package gorm

import "time"

// SyncLog is one immutable row of the synchronization audit trail.
// Rows are appended by the orchestrator and never updated or deleted.
type SyncLog struct {
	ID               string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	IntegrationID    string    `gorm:"column:integration_id;type:uuid;not null;index" json:"integrationId"`
	PropertyID       string    `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	Platform         string    `gorm:"column:platform;type:varchar(50);not null" json:"platform"`
	SyncType         string    `gorm:"column:sync_type;type:varchar(20);not null" json:"syncType"`
	Status           string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	RecordsProcessed int       `gorm:"column:records_processed;default:0" json:"recordsProcessed"`
	RecordsFailed    int       `gorm:"column:records_failed;default:0" json:"recordsFailed"`
	Message          string    `gorm:"column:message" json:"message"`
	StartTime        time.Time `gorm:"column:start_time;not null" json:"startTime"`
	EndTime          time.Time `gorm:"column:end_time;not null" json:"endTime"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
