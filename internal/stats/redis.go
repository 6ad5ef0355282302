// Package stats keeps running extraction and fill counters in Redis so the
// stats endpoint stays cheap without a database.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/job-assistant/internal/types"
)

// DefaultKey is the Redis hash holding all counters.
const DefaultKey = "job_assistant:stats"

// Hash fields. Per-platform fields are "<platform>:success" and "<platform>:failure".
const (
	fieldFills        = "fills"
	fieldFieldsFilled = "fields_filled"
	suffixSuccess     = ":success"
	suffixFailure     = ":failure"
)

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Counter increments history counters in a Redis hash. It implements
// history.Recorder.
type Counter struct {
	rdb redis.Cmdable
	key string
}

// NewCounter creates a Counter writing to key. An empty key uses DefaultKey.
func NewCounter(rdb redis.Cmdable, key string) *Counter {
	if key == "" {
		key = DefaultKey
	}
	return &Counter{rdb: rdb, key: key}
}

// RecordExtraction implements history.Recorder.
func (c *Counter) RecordExtraction(ctx context.Context, a types.ExtractionAttempt) error {
	if err := c.rdb.HIncrBy(ctx, c.key, outcomeField(a.Platform, a.Success), 1).Err(); err != nil {
		return fmt.Errorf("failed to increment extraction counter: %w", err)
	}
	return nil
}

// RecordFill implements history.Recorder.
func (c *Counter) RecordFill(ctx context.Context, a types.FillAttempt) error {
	filled := 0
	if a.Payload != nil {
		filled = a.Payload.FieldsFilled
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, c.key, fieldFills, 1)
		pipe.HIncrBy(ctx, c.key, fieldFieldsFilled, int64(filled))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment fill counters: %w", err)
	}
	return nil
}

// Stats reads every counter back.
func (c *Counter) Stats(ctx context.Context) (*types.Stats, error) {
	fields, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return parseStats(fields), nil
}

// Reset deletes every counter.
func (c *Counter) Reset(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}

func outcomeField(platform string, success bool) string {
	if platform == "" {
		platform = "generic"
	}
	if success {
		return platform + suffixSuccess
	}
	return platform + suffixFailure
}

// parseStats turns the raw hash into Stats. Unknown or malformed fields are ignored.
func parseStats(fields map[string]string) *types.Stats {
	stats := &types.Stats{ByPlatform: []types.PlatformStats{}}
	byPlatform := make(map[string]*types.PlatformStats)

	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch field {
		case fieldFills:
			stats.TotalFills = n
			continue
		case fieldFieldsFilled:
			stats.FieldsFilled = n
			continue
		}

		var platform string
		var success bool
		switch {
		case strings.HasSuffix(field, suffixSuccess):
			platform, success = strings.TrimSuffix(field, suffixSuccess), true
		case strings.HasSuffix(field, suffixFailure):
			platform = strings.TrimSuffix(field, suffixFailure)
		default:
			continue
		}

		p, ok := byPlatform[platform]
		if !ok {
			p = &types.PlatformStats{Platform: platform}
			byPlatform[platform] = p
		}
		if success {
			p.Successes += n
			stats.Successful += n
		} else {
			p.Failures += n
			stats.Failed += n
		}
	}

	for _, p := range byPlatform {
		stats.ByPlatform = append(stats.ByPlatform, *p)
	}
	sort.Slice(stats.ByPlatform, func(i, j int) bool {
		return stats.ByPlatform[i].Platform < stats.ByPlatform[j].Platform
	})
	stats.TotalExtractions = stats.Successful + stats.Failed
	return stats
}
