package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

type fakeRoleRepo struct {
	roles     map[int64]domain.RoleRecord
	userCount int64
}

func (r *fakeRoleRepo) Create(_ context.Context, role *domain.RoleRecord) error {
	role.ID = int64(len(r.roles) + 1)
	if r.roles == nil {
		r.roles = make(map[int64]domain.RoleRecord)
	}
	r.roles[role.ID] = *role
	return nil
}
func (r *fakeRoleRepo) Update(context.Context, *domain.RoleRecord) error { return nil }
func (r *fakeRoleRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.roles, id)
	return nil
}
func (r *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.RoleRecord, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}
func (r *fakeRoleRepo) List(context.Context) ([]domain.RoleRecord, error) { return nil, nil }
func (r *fakeRoleRepo) CountUsers(context.Context, int64) (int64, error)  { return r.userCount, nil }

func newReferenceFixture(municipalities *fakeMunicipalityRepo, reasons *fakeReasonRepo, roles *fakeRoleRepo) *ReferenceService {
	if municipalities == nil {
		municipalities = &fakeMunicipalityRepo{ids: map[int64]bool{1: true}}
	}
	if reasons == nil {
		reasons = &fakeReasonRepo{ids: map[int64]bool{6: true}}
	}
	if roles == nil {
		roles = &fakeRoleRepo{roles: map[int64]domain.RoleRecord{}}
	}
	return NewReferenceService(ReferenceDependencies{
		RoleRepo:          roles,
		MunicipalityRepo:  municipalities,
		ParishRepo:        &fakeParishRepo{ids: map[int64]bool{2: true}},
		QuadrantRepo:      &fakeQuadrantRepo{ids: map[int64]bool{3: true}},
		OrganismGroupRepo: &fakeOrganismGroupRepo{ids: map[int64]bool{5: true}},
		OrganismRepo:      &fakeOrganismRepo{ids: map[int64]bool{4: true}},
		ReasonRepo:        reasons,
	})
}

func TestDeleteMunicipalityWithParishesConflicts(t *testing.T) {
	municipalities := &fakeMunicipalityRepo{ids: map[int64]bool{1: true}, parishCount: 2}
	svc := newReferenceFixture(municipalities, nil, nil)

	err := svc.DeleteMunicipality(context.Background(), 1)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Empty(t, municipalities.deleted)
}

func TestDeleteMunicipalityWithoutChildren(t *testing.T) {
	municipalities := &fakeMunicipalityRepo{ids: map[int64]bool{1: true}}
	svc := newReferenceFixture(municipalities, nil, nil)

	require.NoError(t, svc.DeleteMunicipality(context.Background(), 1))
	assert.Equal(t, []int64{1}, municipalities.deleted)
}

func TestDeleteMunicipalityUnknown(t *testing.T) {
	svc := newReferenceFixture(nil, nil, nil)

	err := svc.DeleteMunicipality(context.Background(), 42)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestCreateParishValidatesMunicipality(t *testing.T) {
	svc := newReferenceFixture(nil, nil, nil)

	_, err := svc.CreateParish(context.Background(), "Altagracia", 42)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Contains(t, domainErr.Message, "municipality")
}

func TestCreateReasonDefaultsPriority(t *testing.T) {
	reasons := &fakeReasonRepo{ids: map[int64]bool{}}
	svc := newReferenceFixture(nil, reasons, nil)

	re, err := svc.CreateReason(context.Background(), "Incendio", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReasonPriority, re.Priority)

	priority := 1
	re, err = svc.CreateReason(context.Background(), "Homicidio", &priority)
	require.NoError(t, err)
	assert.Equal(t, 1, re.Priority)
}

func TestDeleteReasonReferencedByTickets(t *testing.T) {
	reasons := &fakeReasonRepo{ids: map[int64]bool{6: true}, ticketCount: 5}
	svc := newReferenceFixture(nil, reasons, nil)

	err := svc.DeleteReason(context.Background(), 6)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestCreateRoleRejectsUnknownName(t *testing.T) {
	svc := newReferenceFixture(nil, nil, nil)

	_, err := svc.CreateRole(context.Background(), "superuser")
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	role, err := svc.CreateRole(context.Background(), string(domain.RoleSupervisor))
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleSupervisor), role.Name)
}

func TestDeleteRoleWithUsersConflicts(t *testing.T) {
	roles := &fakeRoleRepo{
		roles:     map[int64]domain.RoleRecord{1: {ID: 1, Name: string(domain.RoleOperator)}},
		userCount: 3,
	}
	svc := newReferenceFixture(nil, nil, roles)

	err := svc.DeleteRole(context.Background(), 1)
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateRoleRejectsUnknownName(t *testing.T) {
	roles := &fakeRoleRepo{
		roles: map[int64]domain.RoleRecord{1: {ID: 1, Name: string(domain.RoleOperator)}},
	}
	svc := newReferenceFixture(nil, nil, roles)

	_, err := svc.UpdateRole(context.Background(), 1, "superuser")
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateRoleRenames(t *testing.T) {
	roles := &fakeRoleRepo{
		roles: map[int64]domain.RoleRecord{1: {ID: 1, Name: string(domain.RoleOperator)}},
	}
	svc := newReferenceFixture(nil, nil, roles)

	role, err := svc.UpdateRole(context.Background(), 1, string(domain.RoleDispatcher))
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleDispatcher), role.Name)
}

var _ repository.RoleRepository = (*fakeRoleRepo)(nil)
