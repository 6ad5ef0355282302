// Package types provides type definitions for structured data used throughout the job-assistant system.
package types

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyJob is returned when a posting has neither title nor company.
var ErrEmptyJob = errors.New("job posting has no title or company")

// JobPosting is the normalized record produced by extraction. JSON field
// names are consumed by the tailoring and job board collaborators.
type JobPosting struct {
	Title               string    `json:"title"`
	Company             string    `json:"company"`
	Location            string    `json:"location"`
	Description         string    `json:"description"`
	DescriptionMarkdown string    `json:"descriptionMarkdown,omitempty"`
	Salary              *string   `json:"salary"`
	JobType             *string   `json:"jobType"`
	Experience          *string   `json:"experience"`
	Skills              []string  `json:"skills"`
	Requirements        []string  `json:"requirements"`
	Benefits            []string  `json:"benefits"`
	URL                 string    `json:"url"`
	Platform            string    `json:"platform,omitempty"`
	ExtractedAt         time.Time `json:"extractedAt"`
}

// HasJobData reports whether the posting carries a title or a company.
// A posting without either is a failed extraction.
func (j *JobPosting) HasJobData() bool {
	return j != nil && (strings.TrimSpace(j.Title) != "" || strings.TrimSpace(j.Company) != "")
}

// IsPartial reports whether a posting with job data is missing its
// description or skills.
func (j *JobPosting) IsPartial() bool {
	return j.HasJobData() && (strings.TrimSpace(j.Description) == "" || len(j.Skills) == 0)
}

// Normalize replaces nil slices with empty ones so they encode as [] rather than null.
func (j *JobPosting) Normalize() {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	if j.Benefits == nil {
		j.Benefits = []string{}
	}
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Analysis is the response of the resume-tailoring analyze collaborator.
type Analysis struct {
	Keywords    []string `json:"keywords"`
	MatchScore  int      `json:"matchScore"`
	Suggestions []string `json:"suggestions"`
}
