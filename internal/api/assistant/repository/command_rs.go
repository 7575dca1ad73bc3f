package assistantRepository

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectLark/internal/entity"
	contextPkg "ProjectLark/pkg/context"
)

type CommandRecordDB struct {
	ID         sql.NullString  `db:"id"`
	Transcript sql.NullString  `db:"transcript"`
	Corrected  sql.NullString  `db:"corrected"`
	Action     sql.NullString  `db:"action"`
	Tier       sql.NullString  `db:"resolution_tier"`
	Executed   sql.NullBool    `db:"executed"`
	Response   sql.NullString  `db:"response"`
	Confidence sql.NullFloat64 `db:"confidence"`
	LatencyMs  sql.NullInt64   `db:"latency_ms"`
	Metadata   sql.NullString  `db:"metadata"`
	CreatedAt  sql.NullTime    `db:"created_at"`
}

func (r *commandRepository) CreateCommandRecord(ctx context.Context, rec entity.CommandRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal command metadata")
		return err
	}

	argsKV := map[string]interface{}{
		"id":              rec.ID,
		"transcript":      rec.Transcript,
		"corrected":       rec.Corrected,
		"action":          string(rec.Action),
		"resolution_tier": string(rec.Tier),
		"executed":        rec.Executed,
		"response":        rec.Response,
		"confidence":      rec.Confidence,
		"latency_ms":      rec.LatencyMs,
		"metadata":        string(metadataJSON),
		"created_at":      rec.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCommandRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommandRecord")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating command record")
		return err
	}

	return nil
}

func (r *commandRepository) GetCommandRecords(ctx context.Context, limit, offset int) ([]entity.CommandRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetCommandRecords, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandRecords named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []CommandRecordDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing command records")
		return nil, 0, err
	}

	countQuery := r.q.Rebind(queryCountCommandRecords)
	var total int
	if err := r.q.QueryRowxContext(ctx, countQuery).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when counting command records")
		return nil, 0, err
	}

	records := make([]entity.CommandRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}

	return records, total, nil
}

func (r *commandRepository) GetRecentCommandRecords(ctx context.Context, limit int) ([]entity.CommandRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetRecentCommandRecords, map[string]interface{}{
		"limit": limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentCommandRecords named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []CommandRecordDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when loading recent command records")
		return nil, err
	}

	records := make([]entity.CommandRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}

	return records, nil
}

func (row CommandRecordDB) toEntity() entity.CommandRecord {
	var metadata map[string]interface{}
	if row.Metadata.Valid && row.Metadata.String != "" {
		_ = json.Unmarshal([]byte(row.Metadata.String), &metadata)
	}

	return entity.CommandRecord{
		ID:         row.ID.String,
		Transcript: row.Transcript.String,
		Corrected:  row.Corrected.String,
		Action:     entity.ParseAction(row.Action.String),
		Tier:       entity.ResolutionTier(row.Tier.String),
		Executed:   row.Executed.Bool,
		Response:   row.Response.String,
		Confidence: row.Confidence.Float64,
		LatencyMs:  row.LatencyMs.Int64,
		Metadata:   metadata,
		CreatedAt:  row.CreatedAt.Time,
	}
}
