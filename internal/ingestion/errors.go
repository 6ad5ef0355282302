package ingestion

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an extraction failed.
type ErrorKind string

const (
	// KindInvalidURL means the input was not an absolute http(s) URL. No
	// network I/O happened.
	KindInvalidURL ErrorKind = "invalid_url"
	// KindFetchFailed means the page answered with a non-2xx status or the
	// connection failed outright.
	KindFetchFailed ErrorKind = "fetch_failed"
	// KindFetchTimeout means the page did not answer within the fetch timeout.
	KindFetchTimeout ErrorKind = "fetch_timeout"
	// KindNoJobDataFound means the page loaded but carried neither a title
	// nor a company.
	KindNoJobDataFound ErrorKind = "no_job_data_found"
)

// Sentinels for errors.Is. An *ExtractionError matches the sentinel of its kind.
var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrFetchFailed    = errors.New("failed to fetch page")
	ErrFetchTimeout   = errors.New("timed out fetching page")
	ErrNoJobDataFound = errors.New("no job data found")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidURL:     ErrInvalidURL,
	KindFetchFailed:    ErrFetchFailed,
	KindFetchTimeout:   ErrFetchTimeout,
	KindNoJobDataFound: ErrNoJobDataFound,
}

// ExtractionError is the failure value returned by the Extractor.
type ExtractionError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ExtractionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = kindSentinels[e.Kind].Error()
	}
	if e.Kind == KindFetchFailed && e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.URL, msg)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *ExtractionError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// UserMessage returns text suitable for showing to the person who submitted
// the URL. It separates "couldn't reach the page" from "couldn't find job
// info on the page".
func (e *ExtractionError) UserMessage() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL. Please enter a full job posting link starting with http:// or https://."
	case KindFetchFailed:
		if e.StatusCode != 0 {
			return fmt.Sprintf("Couldn't reach the page (HTTP %d). The site may require login or block automated access; try a different link.", e.StatusCode)
		}
		return "Couldn't reach the page. Check the link and your connection, then try again."
	case KindFetchTimeout:
		return "The page took too long to respond. You can try again."
	case KindNoJobDataFound:
		return "No job information found on this page. It may require login or use dynamic content loading."
	default:
		return "Failed to extract job data."
	}
}

// KindOf returns the kind of the first *ExtractionError in err's chain, or
// "" when there is none.
func KindOf(err error) ErrorKind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return ""
}

// UserMessage returns the user-facing text for any error returned by the
// Extractor, falling back to a generic message.
func UserMessage(err error) string {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.UserMessage()
	}
	return "Failed to extract job data."
}
