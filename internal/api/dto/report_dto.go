package dto

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/internal/service"
)

// MonthBucketResponse is one month range in the supervisor date index.
type MonthBucketResponse struct {
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ClosedTicketSummaryResponse is the trimmed per-ticket view in reports.
type ClosedTicketSummaryResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Reason    *ReasonResponse `json:"reason"`
}

// ClosedTicketReportResponse is the supervisor range report.
type ClosedTicketReportResponse struct {
	Tickets []ClosedTicketSummaryResponse `json:"tickets"`
	Counts  map[string]int64              `json:"counts"`
}

// NewMonthBucketListResponse maps the bucket index.
func NewMonthBucketListResponse(buckets []service.MonthBucket) []MonthBucketResponse {
	out := make([]MonthBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthBucketResponse{Label: b.Label, StartDate: b.StartDate, EndDate: b.EndDate})
	}
	return out
}

// NewClosedTicketReportResponse maps a range report.
func NewClosedTicketReportResponse(report *service.ClosedTicketReport) ClosedTicketReportResponse {
	resp := ClosedTicketReportResponse{
		Tickets: make([]ClosedTicketSummaryResponse, 0, len(report.Tickets)),
		Counts:  make(map[string]int64, len(report.Counts)),
	}
	for _, t := range report.Tickets {
		resp.Tickets = append(resp.Tickets, newClosedTicketSummary(t))
	}
	for state, count := range report.Counts {
		resp.Counts[string(state)] = count
	}
	return resp
}

func newClosedTicketSummary(t repository.ClosedTicketSummary) ClosedTicketSummaryResponse {
	summary := ClosedTicketSummaryResponse{ID: t.ID, CreatedAt: t.CreatedAt}
	if t.Reason != nil {
		re := NewReasonResponse(t.Reason)
		summary.Reason = &re
	}
	return summary
}
