// Package history records extraction and fill attempts. Recording is always
// best effort: a failing store never changes the outcome the caller sees.
package history

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/types"
)

// DefaultTimeout bounds a single asynchronous write.
const DefaultTimeout = 5 * time.Second

// Recorder persists history records. Records are append-only.
type Recorder interface {
	RecordExtraction(ctx context.Context, attempt types.ExtractionAttempt) error
	RecordFill(ctx context.Context, attempt types.FillAttempt) error
}

// Nop discards every record.
type Nop struct{}

// RecordExtraction implements Recorder.
func (Nop) RecordExtraction(context.Context, types.ExtractionAttempt) error { return nil }

// RecordFill implements Recorder.
func (Nop) RecordFill(context.Context, types.FillAttempt) error { return nil }

// Multi writes each record to every recorder and joins their errors.
type Multi []Recorder

// RecordExtraction implements Recorder.
func (m Multi) RecordExtraction(ctx context.Context, attempt types.ExtractionAttempt) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordExtraction(ctx, attempt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordFill implements Recorder.
func (m Multi) RecordFill(ctx context.Context, attempt types.FillAttempt) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordFill(ctx, attempt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AsyncRecorder hands records to a wrapped Recorder on a background
// goroutine. Its methods return immediately and always succeed.
type AsyncRecorder struct {
	next    Recorder
	name    string
	timeout time.Duration
	wg      sync.WaitGroup
}

// Async wraps next. name labels log lines and the write error metric.
func Async(next Recorder, name string, timeout time.Duration) *AsyncRecorder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AsyncRecorder{next: next, name: name, timeout: timeout}
}

// RecordExtraction implements Recorder.
func (a *AsyncRecorder) RecordExtraction(ctx context.Context, attempt types.ExtractionAttempt) error {
	a.run(ctx, "extraction", attempt.URL, func(ctx context.Context) error {
		return a.next.RecordExtraction(ctx, attempt)
	})
	return nil
}

// RecordFill implements Recorder.
func (a *AsyncRecorder) RecordFill(ctx context.Context, attempt types.FillAttempt) error {
	a.run(ctx, "fill", attempt.URL, func(ctx context.Context) error {
		return a.next.RecordFill(ctx, attempt)
	})
	return nil
}

// Wait blocks until every pending write has finished.
func (a *AsyncRecorder) Wait() {
	a.wg.Wait()
}

func (a *AsyncRecorder) run(ctx context.Context, kind, url string, write func(context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[history] %s: panic recording %s for %s: %v", a.name, kind, url, r)
				observability.HistoryWriteErrors.WithLabelValues(a.name).Inc()
			}
		}()

		// The request context is usually done by the time this runs.
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		if err := write(writeCtx); err != nil {
			log.Printf("[history] %s: failed to record %s for %s: %v", a.name, kind, url, err)
			observability.HistoryWriteErrors.WithLabelValues(a.name).Inc()
		}
	}()
}
