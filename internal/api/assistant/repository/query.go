package assistantRepository

const (
	queryCreateCommandRecord = `
		INSERT INTO command_records (
			id, transcript, corrected, action, resolution_tier,
			executed, response, confidence, latency_ms, metadata,
			created_at
		) VALUES (
			:id, :transcript, :corrected, :action, :resolution_tier,
			:executed, :response, :confidence, :latency_ms, :metadata,
			:created_at
		)
	`

	queryGetCommandRecords = `
		SELECT 
			id, transcript, corrected, action, resolution_tier,
			executed, response, confidence, latency_ms, metadata,
			created_at
		FROM command_records
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandRecords = `
		SELECT COUNT(*)
		FROM command_records
	`

	queryGetRecentCommandRecords = `
		SELECT 
			id, transcript, corrected, action, resolution_tier,
			executed, response, confidence, latency_ms, metadata,
			created_at
		FROM command_records
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
