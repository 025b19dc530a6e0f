package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
)

type fakeReportRepo struct {
	oldest  *time.Time
	newest  *time.Time
	tickets []repository.ClosedTicketSummary
	counts  map[domain.ClosingState]int64
}

func (r *fakeReportRepo) OldestNewestClosed(context.Context) (*time.Time, *time.Time, error) {
	return r.oldest, r.newest, nil
}

func (r *fakeReportRepo) ClosedBetween(context.Context, time.Time, time.Time) ([]repository.ClosedTicketSummary, error) {
	return r.tickets, nil
}

func (r *fakeReportRepo) CountsByClosingState(context.Context, time.Time, time.Time) (map[domain.ClosingState]int64, error) {
	return r.counts, nil
}

func newReportService(repo repository.ReportRepository) *ReportService {
	return NewReportService(repo, nil, config.ReportConfig{}, zap.NewNop())
}

func TestMonthBucketsEmpty(t *testing.T) {
	svc := newReportService(&fakeReportRepo{})
	buckets, err := svc.MonthBuckets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestMonthBucketsSingleMonth(t *testing.T) {
	oldest := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	newest := time.Date(2024, time.March, 28, 23, 0, 0, 0, time.UTC)
	svc := newReportService(&fakeReportRepo{oldest: &oldest, newest: &newest})

	buckets, err := svc.MonthBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03", buckets[0].Label)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), buckets[0].StartDate)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), buckets[0].EndDate)
}

func TestMonthBucketsNewestFirstAcrossYears(t *testing.T) {
	oldest := time.Date(2023, time.November, 20, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)
	svc := newReportService(&fakeReportRepo{oldest: &oldest, newest: &newest})

	buckets, err := svc.MonthBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"2024-02", "2024-01", "2023-12", "2023-11"}, labels)

	// intermediate months with no closures still get a bucket
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), buckets[2].StartDate)
}

func TestMonthBucketsHalfOpenBounds(t *testing.T) {
	oldest := time.Date(2024, time.January, 31, 23, 59, 59, 999999999, time.UTC)
	newest := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	svc := newReportService(&fakeReportRepo{oldest: &oldest, newest: &newest})

	buckets, err := svc.MonthBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// adjacent buckets share a boundary, so a closure in the last sub-second
	// of a month still lands in that month
	assert.Equal(t, buckets[0].StartDate, buckets[1].EndDate)
	assert.True(t, oldest.Before(buckets[1].EndDate))
}

func TestTicketsBetween(t *testing.T) {
	reason := &domain.Reason{ID: 1, Name: "Robo", Priority: 1}
	repo := &fakeReportRepo{
		tickets: []repository.ClosedTicketSummary{
			{ID: "t-1", CreatedAt: time.Now(), Reason: reason},
		},
		counts: map[domain.ClosingState]int64{
			domain.ClosingEffective: 3,
			domain.ClosingRejected:  1,
		},
	}
	svc := newReportService(repo)

	report, err := svc.TicketsBetween(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Tickets, 1)
	assert.Equal(t, "t-1", report.Tickets[0].ID)
	assert.Equal(t, int64(3), report.Counts[domain.ClosingEffective])
}

func TestTicketsBetweenRejectsInvertedRange(t *testing.T) {
	svc := newReportService(&fakeReportRepo{})
	_, err := svc.TicketsBetween(context.Background(), time.Now(), time.Now().Add(-time.Hour))
	assert.Error(t, err)
}
