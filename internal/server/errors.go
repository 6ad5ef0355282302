// Package server provides the HTTP API for job posting extraction and
// application form filling.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable means a route's backing service is not configured.
type ErrUnavailable struct {
	Feature string
	Reason  string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Feature, e.Reason)
}

// ErrUpstream wraps a failure of an external collaborator such as the LLM.
type ErrUpstream struct {
	Service string
	Err     error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var unavailableErr *ErrUnavailable
	var upstreamErr *ErrUpstream

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	case errors.Is(err, types.ErrEmptyJob):
		return http.StatusUnprocessableEntity
	}

	switch ingestion.KindOf(err) {
	case ingestion.KindInvalidURL:
		return http.StatusBadRequest
	case ingestion.KindFetchFailed:
		return http.StatusBadGateway
	case ingestion.KindFetchTimeout:
		return http.StatusGatewayTimeout
	case ingestion.KindNoJobDataFound:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator output into an *ErrValidation naming
// the first failing field by its JSON name.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		if errors.Is(err, types.ErrEmptyJob) {
			return err
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := jsonFieldName(fe.Namespace())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		msg = "must be a valid email address"
	case "url":
		msg = "must be a valid URL"
	default:
		msg = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return &ErrValidation{Field: field, Message: msg}
}

// jsonFieldName drops the struct name from a validator namespace, turning
// "FillPreviewRequest.profile.email" into "profile.email".
func jsonFieldName(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
