package entities

// SyncLogStat is one aggregated row of the sync-log report query.
type SyncLogStat struct {
	SyncType         string `db:"sync_type" json:"syncType"`
	Status           string `db:"status" json:"status"`
	Runs             int    `db:"runs" json:"runs"`
	RecordsProcessed int    `db:"records_processed" json:"recordsProcessed"`
	RecordsFailed    int    `db:"records_failed" json:"recordsFailed"`
}
