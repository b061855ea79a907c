package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReportThrottle limits how many reports one user can submit per window.
// Counters live in Redis so every API replica shares them.
type ReportThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewReportThrottle creates a fixed-window throttle; limit <= 0 disables it
func NewReportThrottle(client *redis.Client, limit int, window time.Duration) *ReportThrottle {
	return &ReportThrottle{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (t *ReportThrottle) key(reporterID uuid.UUID) string {
	return fmt.Sprintf("reports:throttle:%s", reporterID.String())
}

// Allow records one submission attempt and reports whether it is within the
// limit. The window starts at the first attempt; the TTL is re-asserted with NX
// on every attempt so a counter never outlives its window.
func (t *ReportThrottle) Allow(ctx context.Context, reporterID uuid.UUID) (bool, error) {
	if t.limit <= 0 {
		return true, nil
	}

	key := t.key(reporterID)
	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, t.window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return incr.Val() <= int64(t.limit), nil
}
