package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "url", Message: "is required"}, http.StatusBadRequest},
		{"unavailable", &ErrUnavailable{Feature: "history", Reason: "no db"}, http.StatusServiceUnavailable},
		{"upstream", &ErrUpstream{Service: "analysis", Err: errors.New("x")}, http.StatusBadGateway},
		{"empty job", fmt.Errorf("save: %w", types.ErrEmptyJob), http.StatusUnprocessableEntity},
		{"invalid url", &ingestion.ExtractionError{Kind: ingestion.KindInvalidURL}, http.StatusBadRequest},
		{"fetch failed", &ingestion.ExtractionError{Kind: ingestion.KindFetchFailed, StatusCode: 404}, http.StatusBadGateway},
		{"fetch timeout", &ingestion.ExtractionError{Kind: ingestion.KindFetchTimeout}, http.StatusGatewayTimeout},
		{"no job data", &ingestion.ExtractionError{Kind: ingestion.KindNoJobDataFound}, http.StatusUnprocessableEntity},
		{"wrapped extraction", fmt.Errorf("outer: %w", &ingestion.ExtractionError{Kind: ingestion.KindFetchTimeout}), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := validationError((&types.AnalyzeRequest{Description: "too short"}).Validate())
	var ve *ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "description", ve.Field)
	assert.Equal(t, "must be at least 20 characters", ve.Message)

	err = validationError((&types.SaveJobRequest{Status: "nope", Job: types.JobPosting{Title: "x"}}).Validate())
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
	assert.Contains(t, ve.Message, "must be one of")

	err = validationError((&types.SaveJobRequest{}).Validate())
	assert.ErrorIs(t, err, types.ErrEmptyJob)

	err = validationError(errors.New("odd"))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Field)
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "profile.email", jsonFieldName("FillPreviewRequest.profile.email"))
	assert.Equal(t, "url", jsonFieldName("ExtractRequest.url"))
	assert.Equal(t, "url", jsonFieldName("url"))
}

func TestErrUpstream_Unwrap(t *testing.T) {
	cause := errors.New("quota")
	err := &ErrUpstream{Service: "analysis", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "analysis failed: quota", err.Error())
}
