package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-assistant/internal/types"
)

// DefaultHistoryLimit caps ListExtractions when the caller passes no limit.
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the largest page ListExtractions returns.
const MaxHistoryLimit = 500

// -----------------------------------------------------------------------------
// History Methods
// -----------------------------------------------------------------------------

// RecordExtraction appends an extraction attempt. It implements history.Recorder.
func (db *DB) RecordExtraction(ctx context.Context, a types.ExtractionAttempt) error {
	var payload []byte
	if a.Payload != nil {
		var err error
		payload, err = json.Marshal(a.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal scraped data: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO extraction_history
		    (id, user_id, url, platform, job_title, company, success, error_message, scraped_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.URL, a.Platform, a.JobTitle, a.Company, a.Success, a.ErrorMessage, payload, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record extraction: %w", err)
	}
	return nil
}

// RecordFill appends a fill attempt. It implements history.Recorder.
func (db *DB) RecordFill(ctx context.Context, a types.FillAttempt) error {
	var payload []byte
	found, filled := 0, 0
	if a.Payload != nil {
		var err error
		payload, err = json.Marshal(a.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal fill report: %w", err)
		}
		found, filled = a.Payload.FieldsFound, a.Payload.FieldsFilled
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO fill_history
		    (id, user_id, url, platform, success, error_message, fields_found, fields_filled, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.URL, a.Platform, a.Success, a.ErrorMessage, found, filled, payload, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fill: %w", err)
	}
	return nil
}

// ListExtractions returns a user's most recent extraction attempts, newest first.
func (db *DB) ListExtractions(ctx context.Context, userID uuid.UUID, limit int) ([]types.ExtractionAttempt, error) {
	limit = clampLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, url, platform, job_title, company, success, error_message, scraped_data, created_at
		 FROM extraction_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	attempts := []types.ExtractionAttempt{}
	for rows.Next() {
		var a types.ExtractionAttempt
		var payload []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.URL, &a.Platform, &a.JobTitle, &a.Company,
			&a.Success, &a.ErrorMessage, &payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		if payload != nil {
			var job types.JobPosting
			if err := json.Unmarshal(payload, &job); err == nil {
				a.Payload = &job
			}
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extractions: %w", err)
	}
	return attempts, nil
}

// Stats summarizes all recorded history.
func (db *DB) Stats(ctx context.Context) (*types.Stats, error) {
	stats := &types.Stats{ByPlatform: []types.PlatformStats{}}

	rows, err := db.pool.Query(ctx,
		`SELECT platform,
		        COUNT(*) FILTER (WHERE success),
		        COUNT(*) FILTER (WHERE NOT success)
		 FROM extraction_history
		 GROUP BY platform
		 ORDER BY platform`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query extraction stats: %w", err)
	}
	platforms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.PlatformStats, error) {
		var p types.PlatformStats
		err := row.Scan(&p.Platform, &p.Successes, &p.Failures)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan extraction stats: %w", err)
	}
	for _, p := range platforms {
		stats.Successful += p.Successes
		stats.Failed += p.Failures
		stats.ByPlatform = append(stats.ByPlatform, p)
	}
	stats.TotalExtractions = stats.Successful + stats.Failed

	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(fields_filled), 0) FROM fill_history`,
	).Scan(&stats.TotalFills, &stats.FieldsFilled)
	if err != nil {
		return nil, fmt.Errorf("failed to query fill stats: %w", err)
	}
	return stats, nil
}

// PruneHistory deletes history rows created before cutoff and returns how
// many were removed. Saved jobs are never pruned.
func (db *DB) PruneHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"extraction_history", "fill_history"} {
		tag, err := db.pool.Exec(ctx, `DELETE FROM `+table+` WHERE created_at < $1`, cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
