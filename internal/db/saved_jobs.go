package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-assistant/internal/types"
)

// -----------------------------------------------------------------------------
// Saved Job Methods
// -----------------------------------------------------------------------------

// SaveJob stores a posting on the user's job board. Saving the same URL
// again replaces the stored posting and status.
func (db *DB) SaveJob(ctx context.Context, userID uuid.UUID, status string, job *types.JobPosting) (*types.SavedJob, error) {
	if !job.HasJobData() {
		return nil, types.ErrEmptyJob
	}
	if status == "" {
		status = "saved"
	}
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	saved := &types.SavedJob{UserID: userID, Status: status, Job: *job}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO saved_jobs (id, user_id, url, status, job, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, url) DO UPDATE SET status = $4, job = $5
		 RETURNING id, created_at`,
		uuid.New(), userID, job.URL, status, jobJSON, time.Now().UTC(),
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	return saved, nil
}

// ListSavedJobs returns a user's saved jobs, newest first.
func (db *DB) ListSavedJobs(ctx context.Context, userID uuid.UUID, limit int) ([]types.SavedJob, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, status, job, created_at
		 FROM saved_jobs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.SavedJob{}
	for rows.Next() {
		var s types.SavedJob
		var jobJSON []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &jobJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved job: %w", err)
		}
		if err := json.Unmarshal(jobJSON, &s.Job); err != nil {
			return nil, fmt.Errorf("failed to decode saved job %s: %w", s.ID, err)
		}
		jobs = append(jobs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved jobs: %w", err)
	}
	return jobs, nil
}
