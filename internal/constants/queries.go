package constants

const (
	GetStatusByApiKey = `
	SELECT id, status FROM api_keys WHERE id = $1
	`

	GetSyncLogStats = `
	SELECT sync_type,
	       status,
	       COUNT(*)               AS runs,
	       SUM(records_processed) AS records_processed,
	       SUM(records_failed)    AS records_failed
	FROM sync_logs
	WHERE property_id = $1
	GROUP BY sync_type, status
	ORDER BY sync_type, status
	`
)
