package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

const bucketCacheKey = "report:month_buckets"

// MonthBucket is one calendar month holding closed tickets. The bounds are
// half-open: StartDate is the first instant of the month and EndDate the
// first instant of the next.
type MonthBucket struct {
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ClosedTicketReport is the supervisor view over a date range.
type ClosedTicketReport struct {
	Tickets []repository.ClosedTicketSummary
	Counts  map[domain.ClosingState]int64
}

// ReportService serves supervisor reporting reads, caching the month bucket
// index in Redis since it only shifts when a ticket closes.
type ReportService struct {
	reports repository.ReportRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewReportService builds the service. The cache client may be nil, in which
// case every call recomputes the buckets.
func NewReportService(reports repository.ReportRepository, cache *redis.Client, cfg config.ReportConfig, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		cache:   cache,
		ttl:     cfg.BucketCacheTTL(),
		logger:  logger,
	}
}

// MonthBuckets returns one bucket per calendar month between the oldest and
// newest closed ticket, newest month first. Months without closed tickets in
// between still get a bucket.
func (s *ReportService) MonthBuckets(ctx context.Context) ([]MonthBucket, error) {
	if buckets, ok := s.cachedBuckets(ctx); ok {
		return buckets, nil
	}

	oldest, newest, err := s.reports.OldestNewestClosed(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	if oldest == nil || newest == nil {
		return []MonthBucket{}, nil
	}

	buckets := monthBuckets(*oldest, *newest)
	s.storeBuckets(ctx, buckets)
	return buckets, nil
}

// TicketsBetween returns the closed tickets in [start, end) together with a
// tally per closing state.
func (s *ReportService) TicketsBetween(ctx context.Context, start, end time.Time) (*ClosedTicketReport, error) {
	if end.Before(start) {
		return nil, util.NewValidationError("endDate precedes startDate", nil)
	}
	tickets, err := s.reports.ClosedBetween(ctx, start, end)
	if err != nil {
		return nil, util.MapError(err)
	}
	counts, err := s.reports.CountsByClosingState(ctx, start, end)
	if err != nil {
		return nil, util.MapError(err)
	}
	return &ClosedTicketReport{Tickets: tickets, Counts: counts}, nil
}

func (s *ReportService) cachedBuckets(ctx context.Context) ([]MonthBucket, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, bucketCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var buckets []MonthBucket
	if err := json.Unmarshal(raw, &buckets); err != nil {
		return nil, false
	}
	return buckets, true
}

func (s *ReportService) storeBuckets(ctx context.Context, buckets []MonthBucket) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(buckets)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, bucketCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("bucket cache write failed", zap.Error(err))
	}
}

// monthBuckets walks whole calendar months from oldest to newest and returns
// them newest first.
func monthBuckets(oldest, newest time.Time) []MonthBucket {
	oldest = oldest.UTC()
	newest = newest.UTC()

	var buckets []MonthBucket
	cursor := time.Date(oldest.Year(), oldest.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(newest.Year(), newest.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		next := cursor.AddDate(0, 1, 0)
		buckets = append(buckets, MonthBucket{
			Label:     cursor.Format("2006-01"),
			StartDate: cursor,
			EndDate:   next,
		})
		cursor = next
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets
}
