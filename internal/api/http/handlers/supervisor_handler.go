package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// SupervisorHandler serves the closed-ticket reporting endpoints.
type SupervisorHandler struct {
	service *service.ReportService
}

// NewSupervisorHandler constructs handler.
func NewSupervisorHandler(reportService *service.ReportService) *SupervisorHandler {
	return &SupervisorHandler{service: reportService}
}

// Dates GET /supervisor/dates.
func (h *SupervisorHandler) Dates(c *fiber.Ctx) error {
	buckets, err := h.service.MonthBuckets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMonthBucketListResponse(buckets)})
}

// Tickets GET /supervisor/tickets?startDate&endDate.
func (h *SupervisorHandler) Tickets(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		return err
	}
	report, err := h.service.TicketsBetween(c.UserContext(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClosedTicketReportResponse(report)})
}

// parseDateQuery accepts RFC3339 timestamps or bare dates.
func parseDateQuery(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError(name+" is required", map[string]any{"param": name})
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError("invalid "+name, map[string]any{"param": name, "value": raw})
}
