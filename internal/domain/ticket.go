package domain

import (
	"errors"
	"time"
)

// TicketState tags the two lifecycle states of a ticket.
type TicketState string

const (
	TicketStateOpen   TicketState = "OPEN"
	TicketStateClosed TicketState = "CLOSED"
)

// IDType enumerates caller identification document types.
type IDType string

const (
	IDTypeVenezuelan IDType = "V"
	IDTypeForeign    IDType = "E"
	IDTypeJuridical  IDType = "J"
)

// Valid reports whether the identification type is known.
func (t IDType) Valid() bool {
	switch t {
	case IDTypeVenezuelan, IDTypeForeign, IDTypeJuridical:
		return true
	}
	return false
}

// ClosingState is the final disposition recorded at ticket closure.
type ClosingState string

const (
	ClosingEffective   ClosingState = "Efectiva"
	ClosingIneffective ClosingState = "No Efectiva"
	ClosingRejected    ClosingState = "Rechazada"
	ClosingInformative ClosingState = "Informativa"
	ClosingSabotage    ClosingState = "Sabotaje"
	ClosingAbandoned   ClosingState = "Abandonada"
)

// Valid reports whether the closing state is one of the known values.
func (c ClosingState) Valid() bool {
	return c.FieldConfirmed() || c.EarlyTermination()
}

// FieldConfirmed reports whether the state is a dispatcher-confirmed outcome
// after a field response.
func (c ClosingState) FieldConfirmed() bool {
	switch c {
	case ClosingEffective, ClosingIneffective, ClosingRejected:
		return true
	}
	return false
}

// EarlyTermination reports whether the state is an operator-side termination
// that never reaches a dispatcher.
func (c ClosingState) EarlyTermination() bool {
	switch c {
	case ClosingInformative, ClosingSabotage, ClosingAbandoned:
		return true
	}
	return false
}

// Lifecycle guard errors returned by ticket transitions.
var (
	ErrTicketClosed         = errors.New("ticket is already closed")
	ErrClosingStateRequired = errors.New("closing state required")
	ErrClosingStateInvalid  = errors.New("closing state not allowed for this transition")
)

// Ticket is one reported incident from intake through resolution.
// Optional fields are pointers so that early-closed tickets, which carry no
// dispatch or location context, round-trip without stray defaults.
type Ticket struct {
	ID     string
	IsOpen bool

	// Intake, recorded by the operator taking the call.
	CallStarted    time.Time
	CallEnded      time.Time
	PhoneNumber    *string
	CallerName     *string
	IDNumber       *int64
	IDType         *IDType
	Address        *string
	ReferencePoint *string
	Details        *string

	// Dispatch, recorded by the dispatcher coordinating the response.
	DispatchTime       *time.Time
	ArrivalTime        *time.Time
	FinishTime         *time.Time
	DispatchDetails    *string
	ReinforcementUnits *string
	FollowUp           *string

	// Closure.
	ClosingState   *ClosingState
	ClosingDetails *string

	// References. Municipality/parish/reason are set at intake, the rest at
	// dispatch. All nil on early-closed tickets.
	MunicipalityID  *int64
	ParishID        *int64
	ReasonID        *int64
	QuadrantID      *int64
	OrganismID      *int64
	OrganismGroupID *int64

	Municipality  *Municipality
	Parish        *Parish
	Reason        *Reason
	Quadrant      *Quadrant
	Organism      *Organism
	OrganismGroup *OrganismGroup

	// Every account that touched the ticket: the operator who opened it and
	// each dispatcher that handled it.
	Users []User

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// State returns the lifecycle state tag for the ticket.
func (t *Ticket) State() TicketState {
	if t.IsOpen {
		return TicketStateOpen
	}
	return TicketStateClosed
}

// DispatchFields is the subset of a ticket a dispatcher may assign while the
// ticket remains open. Nil fields are left untouched.
type DispatchFields struct {
	QuadrantID         *int64
	OrganismID         *int64
	OrganismGroupID    *int64
	DispatchTime       *time.Time
	ArrivalTime        *time.Time
	FinishTime         *time.Time
	DispatchDetails    *string
	ReinforcementUnits *string
	FollowUp           *string
}

// Closure carries the final disposition of a dispatcher-handled ticket.
type Closure struct {
	State   ClosingState
	Details string
}

// ApplyDispatch merges the provided dispatch fields into the ticket without
// changing its state. Closed tickets are immutable.
func (t *Ticket) ApplyDispatch(f DispatchFields) error {
	if t.State() == TicketStateClosed {
		return ErrTicketClosed
	}
	if f.QuadrantID != nil && *f.QuadrantID > 0 {
		t.QuadrantID = f.QuadrantID
	}
	if f.OrganismID != nil && *f.OrganismID > 0 {
		t.OrganismID = f.OrganismID
	}
	if f.OrganismGroupID != nil && *f.OrganismGroupID > 0 {
		t.OrganismGroupID = f.OrganismGroupID
	}
	if f.DispatchTime != nil {
		t.DispatchTime = f.DispatchTime
	}
	if f.ArrivalTime != nil {
		t.ArrivalTime = f.ArrivalTime
	}
	if f.FinishTime != nil {
		t.FinishTime = f.FinishTime
	}
	if f.DispatchDetails != nil {
		t.DispatchDetails = f.DispatchDetails
	}
	if f.ReinforcementUnits != nil {
		t.ReinforcementUnits = f.ReinforcementUnits
	}
	if f.FollowUp != nil {
		t.FollowUp = f.FollowUp
	}
	return nil
}

// Close transitions an open ticket to Closed with a field-confirmed outcome.
// The dispatch fields are applied first so the closure and its field data
// land in a single transition.
func (t *Ticket) Close(f DispatchFields, c Closure) error {
	if t.State() == TicketStateClosed {
		return ErrTicketClosed
	}
	if c.State == "" {
		return ErrClosingStateRequired
	}
	if !c.State.FieldConfirmed() {
		return ErrClosingStateInvalid
	}
	if err := t.ApplyDispatch(f); err != nil {
		return err
	}
	state := c.State
	details := c.Details
	t.ClosingState = &state
	t.ClosingDetails = &details
	t.IsOpen = false
	return nil
}

// CloseEarly marks a freshly created ticket as terminated by the operator
// without dispatch. Only the operator-side closing states are accepted.
func (t *Ticket) CloseEarly(c Closure) error {
	if t.State() == TicketStateClosed {
		return ErrTicketClosed
	}
	if c.State == "" {
		return ErrClosingStateRequired
	}
	if !c.State.EarlyTermination() {
		return ErrClosingStateInvalid
	}
	state := c.State
	t.ClosingState = &state
	if c.Details != "" {
		details := c.Details
		t.ClosingDetails = &details
	}
	t.IsOpen = false
	return nil
}
