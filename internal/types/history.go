package types

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionAttempt is an append-only history record of one extraction.
type ExtractionAttempt struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	URL          string      `json:"url"`
	Platform     string      `json:"platform"`
	JobTitle     string      `json:"jobTitle"`
	Company      string      `json:"company"`
	Success      bool        `json:"success"`
	ErrorMessage *string     `json:"errorMessage"`
	Payload      *JobPosting `json:"scrapedData"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// NewExtractionAttempt builds a history record from an extraction outcome.
// A nil err marks the attempt successful.
func NewExtractionAttempt(userID uuid.UUID, url, platform string, job *JobPosting, err error, now time.Time) ExtractionAttempt {
	attempt := ExtractionAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		Platform:  platform,
		Success:   err == nil,
		CreatedAt: now.UTC(),
	}
	if err != nil {
		msg := err.Error()
		attempt.ErrorMessage = &msg
	}
	if job != nil {
		attempt.JobTitle = job.Title
		attempt.Company = job.Company
		if err == nil {
			attempt.Payload = job
		}
	}
	return attempt
}

// FillAttempt is an append-only history record of one fill pass.
type FillAttempt struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	URL          string      `json:"url"`
	Platform     string      `json:"platform"`
	Success      bool        `json:"success"`
	ErrorMessage *string     `json:"errorMessage"`
	Payload      *FillReport `json:"report"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// NewFillAttempt builds a history record from a fill report. A pass that
// found fields but filled none is recorded as unsuccessful.
func NewFillAttempt(userID uuid.UUID, url, platform string, report FillReport, now time.Time) FillAttempt {
	attempt := FillAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		Platform:  platform,
		Success:   report.FieldsFilled > 0 || report.FieldsFound == 0,
		Payload:   &report,
		CreatedAt: now.UTC(),
	}
	if !attempt.Success {
		msg := "no fields could be filled"
		attempt.ErrorMessage = &msg
	}
	return attempt
}

// SavedJob is a posting the user explicitly saved to their job board.
type SavedJob struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Status    string     `json:"status"`
	Job       JobPosting `json:"job"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PlatformStats aggregates history outcomes for one platform.
type PlatformStats struct {
	Platform  string `json:"platform"`
	Successes int64  `json:"successes"`
	Failures  int64  `json:"failures"`
}

// Stats is the summary returned by the stats endpoint.
type Stats struct {
	TotalExtractions int64           `json:"totalExtractions"`
	Successful       int64           `json:"successful"`
	Failed           int64           `json:"failed"`
	TotalFills       int64           `json:"totalFills"`
	FieldsFilled     int64           `json:"fieldsFilled"`
	ByPlatform       []PlatformStats `json:"byPlatform"`
}
