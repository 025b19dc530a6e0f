package events

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened    EventType = "ticket_opened"
	EventDispatchUpdated EventType = "dispatch_updated"
	EventTicketClosed    EventType = "ticket_closed"
)

// Actor encapsulates the user behind an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	ReasonID       *int64               `json:"reason_id,omitempty"`
	MunicipalityID *int64               `json:"municipality_id,omitempty"`
	ParishID       *int64               `json:"parish_id,omitempty"`
	PhoneNumber    *string              `json:"phone_number,omitempty"`
	EarlyClosed    bool                 `json:"early_closed"`
	EarlyState     *domain.ClosingState `json:"early_state,omitempty"`
}

// DispatchUpdatedPayload payload.
type DispatchUpdatedPayload struct {
	QuadrantID *int64 `json:"quadrant_id,omitempty"`
	OrganismID *int64 `json:"organism_id,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosingState domain.ClosingState `json:"closing_state"`
	QuadrantID   *int64              `json:"quadrant_id,omitempty"`
}
