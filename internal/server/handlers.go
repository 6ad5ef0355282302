package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/formfill"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/types"
)

// FillPreviewResponse is the body of a successful POST /fill/preview.
type FillPreviewResponse struct {
	Success bool             `json:"success"`
	Report  types.FillReport `json:"report"`
	HTML    string           `json:"html"`
}

// handleExtract fetches a posting URL and returns the extracted job data.
// Every attempt is written to history; a failing history store never
// changes the response.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, types.ExtractResponse{Error: "Invalid request body"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, types.ExtractResponse{Error: "URL is required"})
		return
	}

	job, err := s.extractor.ExtractFromURL(r.Context(), req.URL)

	platform := string(fetch.DetectPlatform(req.URL))
	attempt := types.NewExtractionAttempt(userID(r), req.URL, platform, job, err, s.now())
	if recErr := s.recorder.RecordExtraction(r.Context(), attempt); recErr != nil {
		log.Printf("[history] RecordExtraction failed for %s: %v", req.URL, recErr)
	}

	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), types.ExtractResponse{Error: ingestion.UserMessage(err)})
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ExtractResponse{Success: true, JobData: job})
}

// handleFillPreview runs the form-fill matcher over posted HTML and returns
// the report together with the filled document.
func (s *Server) handleFillPreview(w http.ResponseWriter, r *http.Request) {
	var req types.FillPreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	doc, err := formfill.NewHTMLDocument(req.HTML)
	if err != nil {
		s.failure(w, &ErrValidation{Field: "html", Message: err.Error()})
		return
	}

	report := formfill.Fill(&req.Profile, doc)
	observability.RecordFill(report.FieldsFound, report.FieldsFilled)

	html, err := doc.HTML()
	if err != nil {
		s.failure(w, err)
		return
	}

	platform := ""
	if req.URL != "" {
		platform = string(fetch.DetectPlatform(req.URL))
	}
	attempt := types.NewFillAttempt(userID(r), req.URL, platform, report, s.now())
	if recErr := s.recorder.RecordFill(r.Context(), attempt); recErr != nil {
		log.Printf("[history] RecordFill failed: %v", recErr)
	}

	s.jsonResponse(w, http.StatusOK, FillPreviewResponse{Success: true, Report: report, HTML: html})
}

// handleAnalyze scores a job description with the LLM analyzer.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.failure(w, &ErrUnavailable{Feature: "analysis", Reason: "GEMINI_API_KEY is not set"})
		return
	}

	var req types.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req.Description)
	if err != nil {
		s.failure(w, &ErrUpstream{Service: "analysis", Err: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
}

// handleTailor rewrites a resume toward a job description.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.failure(w, &ErrUnavailable{Feature: "tailoring", Reason: "GEMINI_API_KEY is not set"})
		return
	}

	var req types.TailorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	resume, err := s.analyzer.Tailor(r.Context(), req.Resume, req.Description)
	if err != nil {
		s.failure(w, &ErrUpstream{Service: "tailoring", Err: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "resume": resume})
}

// handleHistory lists the caller's most recent extraction attempts.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, &ErrUnavailable{Feature: "history", Reason: "DATABASE_URL is not set"})
		return
	}

	limit := parseQueryInt(r, "limit", db.DefaultHistoryLimit, db.MaxHistoryLimit)
	attempts, err := s.store.ListExtractions(r.Context(), userID(r), limit)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"history": attempts,
		"count":   len(attempts),
	})
}

// handleStats returns aggregate extraction and fill counts, preferring the
// Redis counters over a database scan.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var source StatsSource
	switch {
	case s.stats != nil:
		source = s.stats
	case s.store != nil:
		source = s.store
	default:
		s.failure(w, &ErrUnavailable{Feature: "stats", Reason: "neither REDIS_URL nor DATABASE_URL is set"})
		return
	}

	stats, err := source.Stats(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// handleSaveJob adds a posting to the caller's job board.
func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, &ErrUnavailable{Feature: "job board", Reason: "DATABASE_URL is not set"})
		return
	}

	var req types.SaveJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err))
		return
	}

	saved, err := s.store.SaveJob(r.Context(), userID(r), req.Status, &req.Job)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"success": true, "job": saved})
}

// handleListJobs lists the caller's saved jobs, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, &ErrUnavailable{Feature: "job board", Reason: "DATABASE_URL is not set"})
		return
	}

	limit := parseQueryInt(r, "limit", db.DefaultHistoryLimit, db.MaxHistoryLimit)
	jobs, err := s.store.ListSavedJobs(r.Context(), userID(r), limit)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"jobs":    jobs,
		"count":   len(jobs),
	})
}

// handleHealth reports liveness and, when a database is configured, whether
// it answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	status := http.StatusOK
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp["database"] = "ok"
		}
	}
	s.jsonResponse(w, status, resp)
}
