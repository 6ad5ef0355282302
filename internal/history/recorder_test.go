package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/types"
)

type memRecorder struct {
	mu          sync.Mutex
	extractions []types.ExtractionAttempt
	fills       []types.FillAttempt
	err         error
	panics      bool
	ctxErr      error
}

func (m *memRecorder) RecordExtraction(ctx context.Context, a types.ExtractionAttempt) error {
	if m.panics {
		panic("store exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctxErr = ctx.Err()
	m.extractions = append(m.extractions, a)
	return m.err
}

func (m *memRecorder) RecordFill(_ context.Context, a types.FillAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fills = append(m.fills, a)
	return m.err
}

func sampleAttempt(err error) types.ExtractionAttempt {
	job := &types.JobPosting{Title: "Engineer", Company: "Acme"}
	return types.NewExtractionAttempt(uuid.New(), "https://example.com/job", "generic", job, err, time.Now())
}

func TestMulti_WritesToAllAndJoinsErrors(t *testing.T) {
	ok := &memRecorder{}
	bad := &memRecorder{err: errors.New("disk full")}

	err := Multi{ok, bad}.RecordExtraction(context.Background(), sampleAttempt(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, ok.extractions, 1)
	assert.Len(t, bad.extractions, 1)

	require.NoError(t, Multi{ok}.RecordFill(context.Background(), types.NewFillAttempt(uuid.Nil, "u", "generic", types.FillReport{}, time.Now())))
	assert.Len(t, ok.fills, 1)
}

func TestAsync_NeverReturnsErrors(t *testing.T) {
	inner := &memRecorder{err: errors.New("connection refused")}
	rec := Async(inner, "test", time.Second)

	assert.NoError(t, rec.RecordExtraction(context.Background(), sampleAttempt(nil)))
	assert.NoError(t, rec.RecordFill(context.Background(), types.FillAttempt{URL: "https://example.com"}))
	rec.Wait()

	assert.Len(t, inner.extractions, 1)
	assert.Len(t, inner.fills, 1)
}

func TestAsync_SurvivesCancelledRequestContext(t *testing.T) {
	inner := &memRecorder{}
	rec := Async(inner, "test", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = rec.RecordExtraction(ctx, sampleAttempt(errors.New("no job data found")))
	rec.Wait()

	require.Len(t, inner.extractions, 1)
	assert.NoError(t, inner.ctxErr)
	assert.False(t, inner.extractions[0].Success)
	assert.Equal(t, "no job data found", types.Deref(inner.extractions[0].ErrorMessage))
}

func TestAsync_RecoversPanics(t *testing.T) {
	rec := Async(&memRecorder{panics: true}, "test", 0)
	assert.NotPanics(t, func() {
		_ = rec.RecordExtraction(context.Background(), sampleAttempt(nil))
		rec.Wait()
	})
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.RecordExtraction(context.Background(), types.ExtractionAttempt{}))
	assert.NoError(t, r.RecordFill(context.Background(), types.FillAttempt{}))
}
