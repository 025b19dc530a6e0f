package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/observability"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

type fakeTicketRepo struct {
	tickets map[string]domain.Ticket
	actors  map[string]map[string]struct{}
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[string]domain.Ticket),
		actors:  make(map[string]map[string]struct{}),
	}
}

func (r *fakeTicketRepo) recordActor(ticketID, actorID string) {
	if r.actors[ticketID] == nil {
		r.actors[ticketID] = make(map[string]struct{})
	}
	r.actors[ticketID][actorID] = struct{}{}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket, actorID string) error {
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	r.recordActor(ticket.ID, actorID)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket, actorID string) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	r.recordActor(ticket.ID, actorID)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListOpen(_ context.Context) ([]domain.Ticket, error) {
	var open []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.IsOpen {
			open = append(open, ticket)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })
	return open, nil
}

type fakeMunicipalityRepo struct {
	ids         map[int64]bool
	parishCount int64
	deleted     []int64
}

func (r *fakeMunicipalityRepo) Create(context.Context, *domain.Municipality) error { return nil }
func (r *fakeMunicipalityRepo) Update(context.Context, *domain.Municipality) error { return nil }
func (r *fakeMunicipalityRepo) SoftDelete(_ context.Context, id int64) error {
	if !r.ids[id] {
		return pgx.ErrNoRows
	}
	r.deleted = append(r.deleted, id)
	return nil
}
func (r *fakeMunicipalityRepo) GetByID(_ context.Context, id int64) (*domain.Municipality, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Municipality{ID: id}, nil
}
func (r *fakeMunicipalityRepo) List(context.Context, string) ([]domain.Municipality, error) {
	return nil, nil
}
func (r *fakeMunicipalityRepo) CountParishes(context.Context, int64) (int64, error) {
	return r.parishCount, nil
}

type fakeParishRepo struct{ ids map[int64]bool }

func (r *fakeParishRepo) Create(context.Context, *domain.Parish) error { return nil }
func (r *fakeParishRepo) Update(context.Context, *domain.Parish) error { return nil }
func (r *fakeParishRepo) SoftDelete(context.Context, int64) error      { return nil }
func (r *fakeParishRepo) GetByID(_ context.Context, id int64) (*domain.Parish, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Parish{ID: id}, nil
}
func (r *fakeParishRepo) List(context.Context, string) ([]domain.Parish, error) { return nil, nil }
func (r *fakeParishRepo) ListByMunicipality(context.Context, int64) ([]domain.Parish, error) {
	return nil, nil
}
func (r *fakeParishRepo) CountQuadrants(context.Context, int64) (int64, error) { return 0, nil }

type fakeQuadrantRepo struct{ ids map[int64]bool }

func (r *fakeQuadrantRepo) Create(context.Context, *domain.Quadrant) error { return nil }
func (r *fakeQuadrantRepo) Update(context.Context, *domain.Quadrant) error { return nil }
func (r *fakeQuadrantRepo) SoftDelete(context.Context, int64) error        { return nil }
func (r *fakeQuadrantRepo) GetByID(_ context.Context, id int64) (*domain.Quadrant, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Quadrant{ID: id}, nil
}
func (r *fakeQuadrantRepo) List(context.Context) ([]domain.Quadrant, error) { return nil, nil }
func (r *fakeQuadrantRepo) ListByParish(context.Context, int64) ([]domain.Quadrant, error) {
	return nil, nil
}

type fakeOrganismRepo struct{ ids map[int64]bool }

func (r *fakeOrganismRepo) Create(context.Context, *domain.Organism) error { return nil }
func (r *fakeOrganismRepo) Update(context.Context, *domain.Organism) error { return nil }
func (r *fakeOrganismRepo) SoftDelete(context.Context, int64) error        { return nil }
func (r *fakeOrganismRepo) GetByID(_ context.Context, id int64) (*domain.Organism, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Organism{ID: id}, nil
}
func (r *fakeOrganismRepo) List(context.Context) ([]domain.Organism, error) { return nil, nil }
func (r *fakeOrganismRepo) ListByGroup(context.Context, int64) ([]domain.Organism, error) {
	return nil, nil
}

type fakeOrganismGroupRepo struct{ ids map[int64]bool }

func (r *fakeOrganismGroupRepo) Create(context.Context, *domain.OrganismGroup) error { return nil }
func (r *fakeOrganismGroupRepo) Update(context.Context, *domain.OrganismGroup) error { return nil }
func (r *fakeOrganismGroupRepo) SoftDelete(context.Context, int64) error             { return nil }
func (r *fakeOrganismGroupRepo) GetByID(_ context.Context, id int64) (*domain.OrganismGroup, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.OrganismGroup{ID: id}, nil
}
func (r *fakeOrganismGroupRepo) List(context.Context) ([]domain.OrganismGroup, error) {
	return nil, nil
}
func (r *fakeOrganismGroupRepo) CountOrganisms(context.Context, int64) (int64, error) {
	return 0, nil
}

type fakeReasonRepo struct {
	ids         map[int64]bool
	ticketCount int64
	created     []domain.Reason
}

func (r *fakeReasonRepo) Create(_ context.Context, re *domain.Reason) error {
	re.ID = int64(len(r.created) + 100)
	r.created = append(r.created, *re)
	return nil
}
func (r *fakeReasonRepo) Update(context.Context, *domain.Reason) error { return nil }
func (r *fakeReasonRepo) SoftDelete(context.Context, int64) error      { return nil }
func (r *fakeReasonRepo) GetByID(_ context.Context, id int64) (*domain.Reason, error) {
	if !r.ids[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Reason{ID: id}, nil
}
func (r *fakeReasonRepo) List(context.Context) ([]domain.Reason, error) { return nil, nil }
func (r *fakeReasonRepo) CountTickets(context.Context, int64) (int64, error) {
	return r.ticketCount, nil
}

type ticketFixture struct {
	service  *TicketService
	tickets  *fakeTicketRepo
	captured *[]events.Event
	metrics  *observability.Metrics
}

func newTicketFixture() ticketFixture {
	tickets := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	captured := &[]events.Event{}
	for _, eventType := range []events.EventType{events.EventTicketOpened, events.EventDispatchUpdated, events.EventTicketClosed} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			*captured = append(*captured, event)
			return nil
		})
	}
	metrics := observability.NewMetrics()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:        tickets,
		MunicipalityRepo:  &fakeMunicipalityRepo{ids: map[int64]bool{1: true}},
		ParishRepo:        &fakeParishRepo{ids: map[int64]bool{2: true}},
		QuadrantRepo:      &fakeQuadrantRepo{ids: map[int64]bool{3: true}},
		OrganismRepo:      &fakeOrganismRepo{ids: map[int64]bool{4: true}},
		OrganismGroupRepo: &fakeOrganismGroupRepo{ids: map[int64]bool{5: true}},
		ReasonRepo:        &fakeReasonRepo{ids: map[int64]bool{6: true}},
		Dispatcher:        dispatcher,
		Metrics:           metrics,
	})
	return ticketFixture{service: svc, tickets: tickets, captured: captured, metrics: metrics}
}

func operator() *domain.User {
	return &domain.User{
		ID:       "op-1",
		Username: "operator1",
		Role:     &domain.RoleRecord{ID: 1, Name: string(domain.RoleOperator)},
	}
}

func dispatcherUser() *domain.User {
	return &domain.User{
		ID:       "dis-1",
		Username: "dispatcher1",
		Role:     &domain.RoleRecord{ID: 2, Name: string(domain.RoleDispatcher)},
	}
}

func validOpenInput() TicketOpenInput {
	return TicketOpenInput{
		CallStarted:    time.Now().Add(-3 * time.Minute),
		CallEnded:      time.Now(),
		CallerName:     "Maria Perez",
		IDType:         domain.IDTypeVenezuelan,
		Address:        "Av. Principal",
		ReferencePoint: "frente a la plaza",
		Details:        "robo en progreso",
		MunicipalityID: 1,
		ParishID:       2,
		ReasonID:       6,
	}
}

func TestOpenTicket(t *testing.T) {
	fx := newTicketFixture()

	ticket, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	assert.True(t, ticket.IsOpen)
	assert.Nil(t, ticket.ClosingState)
	assert.Nil(t, ticket.DispatchTime)
	require.NotNil(t, ticket.MunicipalityID)
	assert.Equal(t, int64(1), *ticket.MunicipalityID)

	_, recorded := fx.tickets.actors[ticket.ID]["op-1"]
	assert.True(t, recorded)

	require.Len(t, *fx.captured, 1)
	assert.Equal(t, events.EventTicketOpened, (*fx.captured)[0].Type)
	assert.Equal(t, "op-1", (*fx.captured)[0].Actor.UserID)
}

func TestOpenTicketUnknownMunicipality(t *testing.T) {
	fx := newTicketFixture()
	input := validOpenInput()
	input.MunicipalityID = 99

	_, err := fx.service.Open(context.Background(), operator(), input)
	require.Error(t, err)

	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Contains(t, domainErr.Message, "municipality")
	assert.Empty(t, fx.tickets.tickets)
	assert.Empty(t, *fx.captured)
}

func TestOpenTicketInvalidIDType(t *testing.T) {
	fx := newTicketFixture()
	input := validOpenInput()
	input.IDType = "X"

	_, err := fx.service.Open(context.Background(), operator(), input)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCloseEarly(t *testing.T) {
	fx := newTicketFixture()
	details := "broma telefonica"

	ticket, err := fx.service.CloseEarly(context.Background(), operator(), TicketEarlyCloseInput{
		CallStarted:    time.Now().Add(-time.Minute),
		CallEnded:      time.Now(),
		ClosingState:   domain.ClosingInformative,
		ClosingDetails: &details,
	})
	require.NoError(t, err)

	assert.False(t, ticket.IsOpen)
	require.NotNil(t, ticket.ClosingState)
	assert.Equal(t, domain.ClosingInformative, *ticket.ClosingState)
	assert.Nil(t, ticket.DispatchTime)
	assert.Nil(t, ticket.QuadrantID)
	assert.Nil(t, ticket.MunicipalityID)

	assert.Equal(t, int64(1), fx.metrics.ClosedTickets()[string(domain.ClosingInformative)])
}

func TestCloseEarlyRejectsFieldConfirmedState(t *testing.T) {
	fx := newTicketFixture()

	_, err := fx.service.CloseEarly(context.Background(), operator(), TicketEarlyCloseInput{
		CallStarted:  time.Now(),
		CallEnded:    time.Now(),
		ClosingState: domain.ClosingEffective,
	})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, fx.tickets.tickets)
}

func TestUpdateDispatchActorIdempotence(t *testing.T) {
	fx := newTicketFixture()
	opened, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	quadrant := int64(3)
	actor := dispatcherUser()
	_, err = fx.service.UpdateDispatch(context.Background(), actor, opened.ID, domain.DispatchFields{QuadrantID: &quadrant})
	require.NoError(t, err)
	_, err = fx.service.UpdateDispatch(context.Background(), actor, opened.ID, domain.DispatchFields{QuadrantID: &quadrant})
	require.NoError(t, err)

	assert.Len(t, fx.tickets.actors[opened.ID], 2) // operator + dispatcher, no duplicate
	stored := fx.tickets.tickets[opened.ID]
	require.NotNil(t, stored.QuadrantID)
	assert.Equal(t, int64(3), *stored.QuadrantID)
}

func TestUpdateDispatchUnknownQuadrant(t *testing.T) {
	fx := newTicketFixture()
	opened, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	missing := int64(77)
	_, err = fx.service.UpdateDispatch(context.Background(), dispatcherUser(), opened.ID, domain.DispatchFields{QuadrantID: &missing})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Contains(t, domainErr.Message, "quadrant")
}

func TestUpdateDispatchClosedTicket(t *testing.T) {
	fx := newTicketFixture()
	opened, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	_, err = fx.service.Close(context.Background(), dispatcherUser(), opened.ID, closeFields(), domain.Closure{State: domain.ClosingEffective, Details: "listo"})
	require.NoError(t, err)

	quadrant := int64(3)
	_, err = fx.service.UpdateDispatch(context.Background(), dispatcherUser(), opened.ID, domain.DispatchFields{QuadrantID: &quadrant})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func closeFields() domain.DispatchFields {
	quadrant := int64(3)
	now := time.Now()
	details := "patrulla enviada"
	return domain.DispatchFields{
		QuadrantID:      &quadrant,
		DispatchTime:    &now,
		ArrivalTime:     &now,
		FinishTime:      &now,
		DispatchDetails: &details,
	}
}

func TestCloseTicket(t *testing.T) {
	fx := newTicketFixture()
	opened, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	closed, err := fx.service.Close(context.Background(), dispatcherUser(), opened.ID, closeFields(), domain.Closure{State: domain.ClosingEffective, Details: "resuelto"})
	require.NoError(t, err)

	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.ClosingState)
	assert.Equal(t, domain.ClosingEffective, *closed.ClosingState)
	require.NotNil(t, closed.DispatchTime)
	require.NotNil(t, closed.QuadrantID)

	stored := fx.tickets.tickets[opened.ID]
	assert.False(t, stored.IsOpen)
	assert.Equal(t, int64(1), fx.metrics.ClosedTickets()[string(domain.ClosingEffective)])

	last := (*fx.captured)[len(*fx.captured)-1]
	assert.Equal(t, events.EventTicketClosed, last.Type)
}

func TestCloseUnknownTicket(t *testing.T) {
	fx := newTicketFixture()

	_, err := fx.service.Close(context.Background(), dispatcherUser(), "missing", closeFields(), domain.Closure{State: domain.ClosingEffective, Details: "x"})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListOpenOrdersByCreation(t *testing.T) {
	fx := newTicketFixture()
	first, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	_, err = fx.service.Close(context.Background(), dispatcherUser(), first.ID, closeFields(), domain.Closure{State: domain.ClosingEffective, Details: "x"})
	require.NoError(t, err)

	open, err := fx.service.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)
}

func TestOpenCloseRoundTripRetainsFields(t *testing.T) {
	fx := newTicketFixture()
	opened, err := fx.service.Open(context.Background(), operator(), validOpenInput())
	require.NoError(t, err)

	_, err = fx.service.Close(context.Background(), dispatcherUser(), opened.ID, closeFields(), domain.Closure{State: domain.ClosingIneffective, Details: "sin novedad"})
	require.NoError(t, err)

	fetched, err := fx.service.GetByID(context.Background(), opened.ID)
	require.NoError(t, err)

	require.NotNil(t, fetched.CallerName)
	assert.Equal(t, "Maria Perez", *fetched.CallerName)
	require.NotNil(t, fetched.MunicipalityID)
	assert.Equal(t, int64(1), *fetched.MunicipalityID)
	require.NotNil(t, fetched.QuadrantID)
	assert.Equal(t, int64(3), *fetched.QuadrantID)
	require.NotNil(t, fetched.ClosingState)
	assert.Equal(t, domain.ClosingIneffective, *fetched.ClosingState)
}
