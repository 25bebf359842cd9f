package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/attendly/attendly/internal/attendance"
	"github.com/attendly/attendly/internal/shared"
)

// Summaries are cheap to serve stale for a minute; concurrent requests for
// the same tenant/day collapse into one query.
const cacheTTL = time.Minute

type Summarizer interface {
	SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (attendance.DaySummary, error)
}

type Service struct {
	summarizer Summarizer
	cache      *redis.Client
	logger     *slog.Logger
	group      singleflight.Group
}

func NewService(summarizer Summarizer, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{summarizer: summarizer, cache: cache, logger: logger}
}

// Daily returns the attendance summary for one tenant and day.
func (s *Service) Daily(ctx context.Context, actor *shared.Principal, tenantID uuid.UUID, day time.Time) (attendance.DaySummary, error) {
	if actor != nil && !actor.BelongsTo(tenantID) {
		return attendance.DaySummary{}, shared.ErrForbidden
	}

	key := "reports:daily:" + tenantID.String() + ":" + day.Format("2006-01-02")
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached attendance.DaySummary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		summary, err := s.summarizer.SummarizeDay(ctx, tenantID, day)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if raw, err := json.Marshal(summary); err == nil {
				if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
					s.logger.Warn("cache daily summary", slog.Any("error", err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return attendance.DaySummary{}, err
	}
	return result.(attendance.DaySummary), nil
}
