package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/observability"
	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle from intake to closure.
type TicketService struct {
	tickets        repository.TicketRepository
	municipalities repository.MunicipalityRepository
	parishes       repository.ParishRepository
	quadrants      repository.QuadrantRepository
	organisms      repository.OrganismRepository
	organismGroups repository.OrganismGroupRepository
	reasons        repository.ReasonRepository
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo        repository.TicketRepository
	MunicipalityRepo  repository.MunicipalityRepository
	ParishRepo        repository.ParishRepository
	QuadrantRepo      repository.QuadrantRepository
	OrganismRepo      repository.OrganismRepository
	OrganismGroupRepo repository.OrganismGroupRepository
	ReasonRepo        repository.ReasonRepository
	Dispatcher        events.Dispatcher
	Metrics           *observability.Metrics
}

// TicketOpenInput describes the intake payload recorded by an operator.
type TicketOpenInput struct {
	CallStarted    time.Time
	CallEnded      time.Time
	PhoneNumber    *string
	CallerName     string
	IDNumber       *int64
	IDType         domain.IDType
	Address        string
	ReferencePoint string
	Details        string
	MunicipalityID int64
	ParishID       int64
	ReasonID       int64
}

// TicketEarlyCloseInput describes an operator-side termination. Calls ended
// this way never collected location or reason data, so only the call window
// and whatever caller details were captured come through.
type TicketEarlyCloseInput struct {
	CallStarted    time.Time
	CallEnded      time.Time
	PhoneNumber    *string
	CallerName     *string
	Details        *string
	ClosingState   domain.ClosingState
	ClosingDetails *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:        deps.TicketRepo,
		municipalities: deps.MunicipalityRepo,
		parishes:       deps.ParishRepo,
		quadrants:      deps.QuadrantRepo,
		organisms:      deps.OrganismRepo,
		organismGroups: deps.OrganismGroupRepo,
		reasons:        deps.ReasonRepo,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
	}
}

// Open registers a new incident ticket for the calling operator.
func (s *TicketService) Open(ctx context.Context, actor *domain.User, input TicketOpenInput) (*domain.Ticket, error) {
	if !input.IDType.Valid() {
		return nil, util.NewValidationError("invalid id_type", map[string]any{"id_type": string(input.IDType)})
	}
	if err := s.checkReason(ctx, input.ReasonID); err != nil {
		return nil, err
	}
	if err := s.checkMunicipality(ctx, input.MunicipalityID); err != nil {
		return nil, err
	}
	if err := s.checkParish(ctx, input.ParishID); err != nil {
		return nil, err
	}

	idType := input.IDType
	callerName := strings.TrimSpace(input.CallerName)
	address := strings.TrimSpace(input.Address)
	referencePoint := strings.TrimSpace(input.ReferencePoint)
	details := strings.TrimSpace(input.Details)

	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		IsOpen:         true,
		CallStarted:    input.CallStarted,
		CallEnded:      input.CallEnded,
		PhoneNumber:    input.PhoneNumber,
		CallerName:     &callerName,
		IDNumber:       input.IDNumber,
		IDType:         &idType,
		Address:        &address,
		ReferencePoint: &referencePoint,
		Details:        &details,
		MunicipalityID: &input.MunicipalityID,
		ParishID:       &input.ParishID,
		ReasonID:       &input.ReasonID,
	}

	if err := s.tickets.Create(ctx, ticket, actor.ID); err != nil {
		return nil, util.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketOpened,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketOpenedPayload{
			ReasonID:       ticket.ReasonID,
			MunicipalityID: ticket.MunicipalityID,
			ParishID:       ticket.ParishID,
			PhoneNumber:    ticket.PhoneNumber,
		},
	})

	return s.GetByID(ctx, ticket.ID)
}

// CloseEarly registers a ticket that terminated during intake without ever
// reaching a dispatcher.
func (s *TicketService) CloseEarly(ctx context.Context, actor *domain.User, input TicketEarlyCloseInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		IsOpen:      true,
		CallStarted: input.CallStarted,
		CallEnded:   input.CallEnded,
		PhoneNumber: input.PhoneNumber,
		CallerName:  input.CallerName,
		Details:     input.Details,
	}

	closure := domain.Closure{State: input.ClosingState}
	if input.ClosingDetails != nil {
		closure.Details = *input.ClosingDetails
	}
	if err := ticket.CloseEarly(closure); err != nil {
		return nil, mapLifecycleError(err)
	}

	if err := s.tickets.Create(ctx, ticket, actor.ID); err != nil {
		return nil, util.MapError(err)
	}
	s.metrics.RecordTicketClosed(string(input.ClosingState))

	state := input.ClosingState
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketOpened,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketOpenedPayload{
			PhoneNumber: ticket.PhoneNumber,
			EarlyClosed: true,
			EarlyState:  &state,
		},
	})

	return s.GetByID(ctx, ticket.ID)
}

// UpdateDispatch merges dispatcher-assigned fields into an open ticket and
// records the dispatcher on it.
func (s *TicketService) UpdateDispatch(ctx context.Context, actor *domain.User, ticketID string, fields domain.DispatchFields) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLookup(err)
	}
	if err := s.checkDispatchRefs(ctx, fields); err != nil {
		return nil, err
	}
	if err := ticket.ApplyDispatch(fields); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.tickets.Update(ctx, ticket, actor.ID); err != nil {
		return nil, util.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventDispatchUpdated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.DispatchUpdatedPayload{
			QuadrantID: ticket.QuadrantID,
			OrganismID: ticket.OrganismID,
		},
	})

	return s.GetByID(ctx, ticket.ID)
}

// Close transitions an open ticket to closed with a field-confirmed outcome,
// applying the final dispatch data in the same transition.
func (s *TicketService) Close(ctx context.Context, actor *domain.User, ticketID string, fields domain.DispatchFields, closure domain.Closure) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLookup(err)
	}
	if err := s.checkDispatchRefs(ctx, fields); err != nil {
		return nil, err
	}
	if err := ticket.Close(fields, closure); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.tickets.Update(ctx, ticket, actor.ID); err != nil {
		return nil, util.MapError(err)
	}
	s.metrics.RecordTicketClosed(string(closure.State))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketClosedPayload{
			ClosingState: closure.State,
			QuadrantID:   ticket.QuadrantID,
		},
	})

	return ticket, nil
}

// GetByID loads a ticket with its associations.
func (s *TicketService) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLookup(err)
	}
	return ticket, nil
}

// ListOpen returns the dispatcher queue, oldest first.
func (s *TicketService) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListOpen(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) checkReason(ctx context.Context, id int64) error {
	if _, err := s.reasons.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("reason", map[string]any{"reason_id": id})
		}
		return util.MapError(err)
	}
	return nil
}

func (s *TicketService) checkMunicipality(ctx context.Context, id int64) error {
	if _, err := s.municipalities.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("municipality", map[string]any{"municipality_id": id})
		}
		return util.MapError(err)
	}
	return nil
}

func (s *TicketService) checkParish(ctx context.Context, id int64) error {
	if _, err := s.parishes.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("parish", map[string]any{"parish_id": id})
		}
		return util.MapError(err)
	}
	return nil
}

// checkDispatchRefs verifies every reference a dispatcher is trying to
// assign actually exists; zero and negative ids are deselections and skip
// the lookup.
func (s *TicketService) checkDispatchRefs(ctx context.Context, fields domain.DispatchFields) error {
	if fields.QuadrantID != nil && *fields.QuadrantID > 0 {
		if _, err := s.quadrants.GetByID(ctx, *fields.QuadrantID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return util.NewNotFound("quadrant", map[string]any{"quadrant_id": *fields.QuadrantID})
			}
			return util.MapError(err)
		}
	}
	if fields.OrganismID != nil && *fields.OrganismID > 0 {
		if _, err := s.organisms.GetByID(ctx, *fields.OrganismID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return util.NewNotFound("organism", map[string]any{"organism_id": *fields.OrganismID})
			}
			return util.MapError(err)
		}
	}
	if fields.OrganismGroupID != nil && *fields.OrganismGroupID > 0 {
		if _, err := s.organismGroups.GetByID(ctx, *fields.OrganismGroupID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return util.NewNotFound("organism group", map[string]any{"organism_group_id": *fields.OrganismGroupID})
			}
			return util.MapError(err)
		}
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor *domain.User) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: actor.ID, Role: actor.RoleName()}
}

func mapTicketLookup(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("ticket", nil)
	}
	return util.MapError(err)
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTicketClosed):
		return util.NewConflict("ticket is already closed", nil)
	case errors.Is(err, domain.ErrClosingStateRequired):
		return util.NewValidationError("closing_state is required", nil)
	case errors.Is(err, domain.ErrClosingStateInvalid):
		return util.NewValidationError("closing_state not allowed for this operation", nil)
	default:
		return util.MapError(err)
	}
}
