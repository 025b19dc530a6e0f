package dto

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// OpenTicketRequest payload.
type OpenTicketRequest struct {
	CallStarted    time.Time `json:"call_started" validate:"required"`
	CallEnded      time.Time `json:"call_ended" validate:"required"`
	PhoneNumber    *string   `json:"phone_number"`
	CallerName     string    `json:"caller_name" validate:"required"`
	IDNumber       *int64    `json:"id_number"`
	IDType         string    `json:"id_type" validate:"required,oneof=V E J"`
	Address        string    `json:"address" validate:"required"`
	ReferencePoint string    `json:"reference_point" validate:"required"`
	Details        string    `json:"details" validate:"required"`
	MunicipalityID int64     `json:"municipalityId" validate:"required,gt=0"`
	ParishID       int64     `json:"parishId" validate:"required,gt=0"`
	ReasonID       int64     `json:"reasonId" validate:"required,gt=0"`
}

// EarlyCloseTicketRequest payload for calls terminated during intake.
type EarlyCloseTicketRequest struct {
	CallStarted    time.Time `json:"call_started" validate:"required"`
	CallEnded      time.Time `json:"call_ended" validate:"required"`
	PhoneNumber    *string   `json:"phone_number"`
	CallerName     *string   `json:"caller_name"`
	Details        *string   `json:"details"`
	ClosingState   string    `json:"closing_state" validate:"required,oneof=Informativa Sabotaje Abandonada"`
	ClosingDetails *string   `json:"closing_details"`
}

// UpdateDispatchRequest payload. All fields optional, nil leaves the stored
// value untouched.
type UpdateDispatchRequest struct {
	QuadrantID         *int64     `json:"quadrantId"`
	OrganismID         *int64     `json:"organismId"`
	OrganismGroupID    *int64     `json:"organismGroupId"`
	DispatchTime       *time.Time `json:"dispatch_time"`
	ArrivalTime        *time.Time `json:"arrival_time"`
	FinishTime         *time.Time `json:"finish_time"`
	DispatchDetails    *string    `json:"dispatch_details"`
	ReinforcementUnits *string    `json:"reinforcement_units"`
	FollowUp           *string    `json:"follow_up"`
}

// CloseTicketRequest payload for a full dispatcher closure.
type CloseTicketRequest struct {
	QuadrantID         int64     `json:"quadrantId" validate:"required,gt=0"`
	OrganismID         *int64    `json:"organismId"`
	OrganismGroupID    *int64    `json:"organismGroupId"`
	DispatchTime       time.Time `json:"dispatch_time" validate:"required"`
	ArrivalTime        time.Time `json:"arrival_time" validate:"required"`
	FinishTime         time.Time `json:"finish_time" validate:"required"`
	DispatchDetails    string    `json:"dispatch_details" validate:"required"`
	ReinforcementUnits *string   `json:"reinforcement_units"`
	FollowUp           *string   `json:"follow_up"`
	ClosingState       string    `json:"closing_state" validate:"required,oneof=Efectiva 'No Efectiva' Rechazada"`
	ClosingDetails     string    `json:"closing_details" validate:"required"`
}

// DispatchFields converts the update payload to domain dispatch fields.
func (r UpdateDispatchRequest) DispatchFields() domain.DispatchFields {
	return domain.DispatchFields{
		QuadrantID:         r.QuadrantID,
		OrganismID:         r.OrganismID,
		OrganismGroupID:    r.OrganismGroupID,
		DispatchTime:       r.DispatchTime,
		ArrivalTime:        r.ArrivalTime,
		FinishTime:         r.FinishTime,
		DispatchDetails:    r.DispatchDetails,
		ReinforcementUnits: r.ReinforcementUnits,
		FollowUp:           r.FollowUp,
	}
}

// DispatchFields converts the close payload to domain dispatch fields.
func (r CloseTicketRequest) DispatchFields() domain.DispatchFields {
	quadrantID := r.QuadrantID
	dispatchTime := r.DispatchTime
	arrivalTime := r.ArrivalTime
	finishTime := r.FinishTime
	dispatchDetails := r.DispatchDetails
	return domain.DispatchFields{
		QuadrantID:         &quadrantID,
		OrganismID:         r.OrganismID,
		OrganismGroupID:    r.OrganismGroupID,
		DispatchTime:       &dispatchTime,
		ArrivalTime:        &arrivalTime,
		FinishTime:         &finishTime,
		DispatchDetails:    &dispatchDetails,
		ReinforcementUnits: r.ReinforcementUnits,
		FollowUp:           r.FollowUp,
	}
}

// TicketResponse provides full ticket info with loaded associations.
type TicketResponse struct {
	ID     string `json:"id"`
	IsOpen bool   `json:"is_open"`

	CallStarted    time.Time `json:"call_started"`
	CallEnded      time.Time `json:"call_ended"`
	PhoneNumber    *string   `json:"phone_number"`
	CallerName     *string   `json:"caller_name"`
	IDNumber       *int64    `json:"id_number"`
	IDType         *string   `json:"id_type"`
	Address        *string   `json:"address"`
	ReferencePoint *string   `json:"reference_point"`
	Details        *string   `json:"details"`

	DispatchTime       *time.Time `json:"dispatch_time"`
	ArrivalTime        *time.Time `json:"arrival_time"`
	FinishTime         *time.Time `json:"finish_time"`
	DispatchDetails    *string    `json:"dispatch_details"`
	ReinforcementUnits *string    `json:"reinforcement_units"`
	FollowUp           *string    `json:"follow_up"`

	ClosingState   *string `json:"closing_state"`
	ClosingDetails *string `json:"closing_details"`

	Municipality  *MunicipalityResponse  `json:"municipality"`
	Parish        *ParishResponse        `json:"parish"`
	Reason        *ReasonResponse        `json:"reason"`
	Quadrant      *QuadrantResponse      `json:"quadrant"`
	Organism      *OrganismResponse      `json:"organism"`
	OrganismGroup *OrganismGroupResponse `json:"organism_group"`

	Users []UserResponse `json:"users"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketIDResponse acknowledges a mutation with the ticket id.
type TicketIDResponse struct {
	ID string `json:"id"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:                 t.ID,
		IsOpen:             t.IsOpen,
		CallStarted:        t.CallStarted,
		CallEnded:          t.CallEnded,
		PhoneNumber:        t.PhoneNumber,
		CallerName:         t.CallerName,
		IDNumber:           t.IDNumber,
		Address:            t.Address,
		ReferencePoint:     t.ReferencePoint,
		Details:            t.Details,
		DispatchTime:       t.DispatchTime,
		ArrivalTime:        t.ArrivalTime,
		FinishTime:         t.FinishTime,
		DispatchDetails:    t.DispatchDetails,
		ReinforcementUnits: t.ReinforcementUnits,
		FollowUp:           t.FollowUp,
		ClosingDetails:     t.ClosingDetails,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.IDType != nil {
		v := string(*t.IDType)
		resp.IDType = &v
	}
	if t.ClosingState != nil {
		v := string(*t.ClosingState)
		resp.ClosingState = &v
	}
	if t.Municipality != nil {
		m := NewMunicipalityResponse(t.Municipality)
		resp.Municipality = &m
	}
	if t.Parish != nil {
		p := NewParishResponse(t.Parish)
		resp.Parish = &p
	}
	if t.Reason != nil {
		re := NewReasonResponse(t.Reason)
		resp.Reason = &re
	}
	if t.Quadrant != nil {
		q := NewQuadrantResponse(t.Quadrant)
		resp.Quadrant = &q
	}
	if t.Organism != nil {
		o := NewOrganismResponse(t.Organism)
		resp.Organism = &o
	}
	if t.OrganismGroup != nil {
		g := NewOrganismGroupResponse(t.OrganismGroup)
		resp.OrganismGroup = &g
	}
	resp.Users = make([]UserResponse, 0, len(t.Users))
	for i := range t.Users {
		resp.Users = append(resp.Users, NewUserResponse(&t.Users[i]))
	}
	return resp
}

// NewTicketListResponse maps a slice of tickets.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
