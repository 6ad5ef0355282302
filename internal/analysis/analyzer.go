// Package analysis scores job descriptions and tailors resumes with an LLM.
// Keyword detection from the skill vocabulary always runs locally; the model
// refines the list and adds a score and suggestions.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/prompts"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/skills"
	"github.com/jonathan/job-assistant/internal/types"
)

const (
	promptFile = "analysis.json"

	maxSuggestions = 5
	// maxDescriptionRunes bounds the prompt size for very long postings.
	maxDescriptionRunes = 20000
)

// Input errors returned before any model call.
var (
	ErrEmptyDescription = errors.New("job description is empty")
	ErrEmptyResume      = errors.New("resume is empty")
)

// Analyzer runs job analysis and resume tailoring against an llm.Client.
type Analyzer struct {
	client llm.Client
}

// New returns an Analyzer backed by client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// rawAnalysis mirrors analysis.schema.json; matchScore may come back as a
// fraction.
type rawAnalysis struct {
	Keywords    []string `json:"keywords"`
	MatchScore  float64  `json:"matchScore"`
	Suggestions []string `json:"suggestions"`
}

// Analyze extracts keywords, a 0-100 match score and suggestions from a
// job description.
func (a *Analyzer) Analyze(ctx context.Context, description string) (*types.Analysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	detected := skills.MatchN(description, skills.MaxSkills)

	schema, err := schemas.Load(schemas.Analysis)
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(promptFile, "analyze-job", map[string]string{
		"Schema":         schema,
		"Keywords":       keywordList(detected),
		"JobDescription": llm.Truncate(description, maxDescriptionRunes),
	})
	if err != nil {
		return nil, err
	}

	text, err := a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	text = llm.CleanJSONBlock(text)
	if err := schemas.Validate(schemas.Analysis, []byte(text)); err != nil {
		return nil, fmt.Errorf("analysis response does not match schema: %w", err)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	keywords := skills.Dedupe(raw.Keywords, skills.MaxSkills)
	if len(keywords) == 0 {
		keywords = detected
	}

	return &types.Analysis{
		Keywords:    keywords,
		MatchScore:  clampScore(raw.MatchScore),
		Suggestions: cleanSuggestions(raw.Suggestions),
	}, nil
}

// Tailor rewrites resume toward the job description and returns the new text.
func (a *Analyzer) Tailor(ctx context.Context, resume, description string) (string, error) {
	resume = strings.TrimSpace(resume)
	description = strings.TrimSpace(description)
	if resume == "" {
		return "", ErrEmptyResume
	}
	if description == "" {
		return "", ErrEmptyDescription
	}

	prompt, err := prompts.Render(promptFile, "tailor-resume", map[string]string{
		"Keywords":       keywordList(skills.MatchN(description, skills.MaxSkills)),
		"JobDescription": llm.Truncate(description, maxDescriptionRunes),
		"Resume":         resume,
	})
	if err != nil {
		return "", err
	}

	text, err := a.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("tailoring request failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("tailoring returned an empty resume")
	}
	return text, nil
}

func keywordList(keywords []string) string {
	if len(keywords) == 0 {
		return "none"
	}
	return strings.Join(keywords, ", ")
}

// clampScore rounds to the nearest integer and clamps into 0..100.
func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func cleanSuggestions(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
