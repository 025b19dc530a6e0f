package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// TicketsHandler manages the ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Open POST /ticket.
func (h *TicketsHandler) Open(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.OpenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	input := service.TicketOpenInput{
		CallStarted:    req.CallStarted,
		CallEnded:      req.CallEnded,
		PhoneNumber:    req.PhoneNumber,
		CallerName:     req.CallerName,
		IDNumber:       req.IDNumber,
		IDType:         domain.IDType(req.IDType),
		Address:        req.Address,
		ReferencePoint: req.ReferencePoint,
		Details:        req.Details,
		MunicipalityID: req.MunicipalityID,
		ParishID:       req.ParishID,
		ReasonID:       req.ReasonID,
	}
	ticket, err := h.service.Open(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// CloseEarly POST /ticket/close.
func (h *TicketsHandler) CloseEarly(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.EarlyCloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	input := service.TicketEarlyCloseInput{
		CallStarted:    req.CallStarted,
		CallEnded:      req.CallEnded,
		PhoneNumber:    req.PhoneNumber,
		CallerName:     req.CallerName,
		Details:        req.Details,
		ClosingState:   domain.ClosingState(req.ClosingState),
		ClosingDetails: req.ClosingDetails,
	}
	ticket, err := h.service.CloseEarly(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateDispatch PUT /ticket/edit/:id.
func (h *TicketsHandler) UpdateDispatch(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateDispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateDispatch(c.UserContext(), principal.User, c.Params("id"), req.DispatchFields())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Close PUT /ticket/close/:id.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	closure := domain.Closure{
		State:   domain.ClosingState(req.ClosingState),
		Details: req.ClosingDetails,
	}
	ticket, err := h.service.Close(c.UserContext(), principal.User, c.Params("id"), req.DispatchFields(), closure)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketIDResponse{ID: ticket.ID}})
}

// ListOpen GET /ticket/open.
func (h *TicketsHandler) ListOpen(c *fiber.Ctx) error {
	tickets, err := h.service.ListOpen(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets)})
}

// Get GET /ticket/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
