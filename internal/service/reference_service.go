package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

// ReferenceService manages the administrative reference catalogs: the
// territorial hierarchy, responding organisms, call reasons and roles.
type ReferenceService struct {
	roles          repository.RoleRepository
	municipalities repository.MunicipalityRepository
	parishes       repository.ParishRepository
	quadrants      repository.QuadrantRepository
	organismGroups repository.OrganismGroupRepository
	organisms      repository.OrganismRepository
	reasons        repository.ReasonRepository
}

// ReferenceDependencies bundles the catalog repositories.
type ReferenceDependencies struct {
	RoleRepo          repository.RoleRepository
	MunicipalityRepo  repository.MunicipalityRepository
	ParishRepo        repository.ParishRepository
	QuadrantRepo      repository.QuadrantRepository
	OrganismGroupRepo repository.OrganismGroupRepository
	OrganismRepo      repository.OrganismRepository
	ReasonRepo        repository.ReasonRepository
}

// NewReferenceService constructs the service.
func NewReferenceService(deps ReferenceDependencies) *ReferenceService {
	return &ReferenceService{
		roles:          deps.RoleRepo,
		municipalities: deps.MunicipalityRepo,
		parishes:       deps.ParishRepo,
		quadrants:      deps.QuadrantRepo,
		organismGroups: deps.OrganismGroupRepo,
		organisms:      deps.OrganismRepo,
		reasons:        deps.ReasonRepo,
	}
}

// --- Municipalities ---

func (s *ReferenceService) CreateMunicipality(ctx context.Context, name string) (*domain.Municipality, error) {
	m := &domain.Municipality{Name: strings.TrimSpace(name)}
	if err := s.municipalities.Create(ctx, m); err != nil {
		return nil, util.MapError(err)
	}
	return m, nil
}

func (s *ReferenceService) UpdateMunicipality(ctx context.Context, id int64, name string) (*domain.Municipality, error) {
	m, err := s.municipalities.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "municipality")
	}
	m.Name = strings.TrimSpace(name)
	if err := s.municipalities.Update(ctx, m); err != nil {
		return nil, mapCatalogLookup(err, "municipality")
	}
	return m, nil
}

// DeleteMunicipality rejects removal while parishes still hang off the
// municipality, so the hierarchy never dangles.
func (s *ReferenceService) DeleteMunicipality(ctx context.Context, id int64) error {
	count, err := s.municipalities.CountParishes(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("municipality still has parishes", map[string]any{"parishes": count})
	}
	if err := s.municipalities.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "municipality")
	}
	return nil
}

func (s *ReferenceService) GetMunicipality(ctx context.Context, id int64) (*domain.Municipality, error) {
	m, err := s.municipalities.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "municipality")
	}
	return m, nil
}

func (s *ReferenceService) ListMunicipalities(ctx context.Context, name string) ([]domain.Municipality, error) {
	items, err := s.municipalities.List(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Parishes ---

func (s *ReferenceService) CreateParish(ctx context.Context, name string, municipalityID int64) (*domain.Parish, error) {
	if _, err := s.municipalities.GetByID(ctx, municipalityID); err != nil {
		return nil, mapCatalogLookup(err, "municipality")
	}
	p := &domain.Parish{Name: strings.TrimSpace(name), MunicipalityID: municipalityID}
	if err := s.parishes.Create(ctx, p); err != nil {
		return nil, util.MapError(err)
	}
	return p, nil
}

func (s *ReferenceService) UpdateParish(ctx context.Context, id int64, name string, municipalityID *int64) (*domain.Parish, error) {
	p, err := s.parishes.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "parish")
	}
	p.Name = strings.TrimSpace(name)
	if municipalityID != nil {
		if _, err := s.municipalities.GetByID(ctx, *municipalityID); err != nil {
			return nil, mapCatalogLookup(err, "municipality")
		}
		p.MunicipalityID = *municipalityID
	}
	if err := s.parishes.Update(ctx, p); err != nil {
		return nil, mapCatalogLookup(err, "parish")
	}
	return p, nil
}

func (s *ReferenceService) DeleteParish(ctx context.Context, id int64) error {
	count, err := s.parishes.CountQuadrants(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("parish still has quadrants", map[string]any{"quadrants": count})
	}
	if err := s.parishes.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "parish")
	}
	return nil
}

func (s *ReferenceService) GetParish(ctx context.Context, id int64) (*domain.Parish, error) {
	p, err := s.parishes.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "parish")
	}
	return p, nil
}

func (s *ReferenceService) ListParishes(ctx context.Context, name string) ([]domain.Parish, error) {
	items, err := s.parishes.List(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

func (s *ReferenceService) ListParishesByMunicipality(ctx context.Context, municipalityID int64) ([]domain.Parish, error) {
	if _, err := s.municipalities.GetByID(ctx, municipalityID); err != nil {
		return nil, mapCatalogLookup(err, "municipality")
	}
	items, err := s.parishes.ListByMunicipality(ctx, municipalityID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Quadrants ---

func (s *ReferenceService) CreateQuadrant(ctx context.Context, name string, parishID int64) (*domain.Quadrant, error) {
	if _, err := s.parishes.GetByID(ctx, parishID); err != nil {
		return nil, mapCatalogLookup(err, "parish")
	}
	q := &domain.Quadrant{Name: strings.TrimSpace(name), ParishID: parishID}
	if err := s.quadrants.Create(ctx, q); err != nil {
		return nil, util.MapError(err)
	}
	return q, nil
}

func (s *ReferenceService) UpdateQuadrant(ctx context.Context, id int64, name string, parishID *int64) (*domain.Quadrant, error) {
	q, err := s.quadrants.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "quadrant")
	}
	q.Name = strings.TrimSpace(name)
	if parishID != nil {
		if _, err := s.parishes.GetByID(ctx, *parishID); err != nil {
			return nil, mapCatalogLookup(err, "parish")
		}
		q.ParishID = *parishID
	}
	if err := s.quadrants.Update(ctx, q); err != nil {
		return nil, mapCatalogLookup(err, "quadrant")
	}
	return q, nil
}

func (s *ReferenceService) DeleteQuadrant(ctx context.Context, id int64) error {
	if err := s.quadrants.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "quadrant")
	}
	return nil
}

func (s *ReferenceService) GetQuadrant(ctx context.Context, id int64) (*domain.Quadrant, error) {
	q, err := s.quadrants.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "quadrant")
	}
	return q, nil
}

func (s *ReferenceService) ListQuadrants(ctx context.Context) ([]domain.Quadrant, error) {
	items, err := s.quadrants.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

func (s *ReferenceService) ListQuadrantsByParish(ctx context.Context, parishID int64) ([]domain.Quadrant, error) {
	if _, err := s.parishes.GetByID(ctx, parishID); err != nil {
		return nil, mapCatalogLookup(err, "parish")
	}
	items, err := s.quadrants.ListByParish(ctx, parishID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Organism groups ---

func (s *ReferenceService) CreateOrganismGroup(ctx context.Context, name string) (*domain.OrganismGroup, error) {
	g := &domain.OrganismGroup{Name: strings.TrimSpace(name)}
	if err := s.organismGroups.Create(ctx, g); err != nil {
		return nil, util.MapError(err)
	}
	return g, nil
}

func (s *ReferenceService) UpdateOrganismGroup(ctx context.Context, id int64, name string) (*domain.OrganismGroup, error) {
	g, err := s.organismGroups.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "organism group")
	}
	g.Name = strings.TrimSpace(name)
	if err := s.organismGroups.Update(ctx, g); err != nil {
		return nil, mapCatalogLookup(err, "organism group")
	}
	return g, nil
}

func (s *ReferenceService) DeleteOrganismGroup(ctx context.Context, id int64) error {
	count, err := s.organismGroups.CountOrganisms(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("organism group still has organisms", map[string]any{"organisms": count})
	}
	if err := s.organismGroups.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "organism group")
	}
	return nil
}

func (s *ReferenceService) GetOrganismGroup(ctx context.Context, id int64) (*domain.OrganismGroup, error) {
	g, err := s.organismGroups.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "organism group")
	}
	return g, nil
}

func (s *ReferenceService) ListOrganismGroups(ctx context.Context) ([]domain.OrganismGroup, error) {
	items, err := s.organismGroups.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Organisms ---

func (s *ReferenceService) CreateOrganism(ctx context.Context, name string, groupID int64) (*domain.Organism, error) {
	if _, err := s.organismGroups.GetByID(ctx, groupID); err != nil {
		return nil, mapCatalogLookup(err, "organism group")
	}
	o := &domain.Organism{Name: strings.TrimSpace(name), OrganismGroupID: groupID}
	if err := s.organisms.Create(ctx, o); err != nil {
		return nil, util.MapError(err)
	}
	return o, nil
}

func (s *ReferenceService) UpdateOrganism(ctx context.Context, id int64, name string, groupID *int64) (*domain.Organism, error) {
	o, err := s.organisms.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "organism")
	}
	o.Name = strings.TrimSpace(name)
	if groupID != nil {
		if _, err := s.organismGroups.GetByID(ctx, *groupID); err != nil {
			return nil, mapCatalogLookup(err, "organism group")
		}
		o.OrganismGroupID = *groupID
	}
	if err := s.organisms.Update(ctx, o); err != nil {
		return nil, mapCatalogLookup(err, "organism")
	}
	return o, nil
}

func (s *ReferenceService) DeleteOrganism(ctx context.Context, id int64) error {
	if err := s.organisms.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "organism")
	}
	return nil
}

func (s *ReferenceService) GetOrganism(ctx context.Context, id int64) (*domain.Organism, error) {
	o, err := s.organisms.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "organism")
	}
	return o, nil
}

func (s *ReferenceService) ListOrganisms(ctx context.Context) ([]domain.Organism, error) {
	items, err := s.organisms.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

func (s *ReferenceService) ListOrganismsByGroup(ctx context.Context, groupID int64) ([]domain.Organism, error) {
	if _, err := s.organismGroups.GetByID(ctx, groupID); err != nil {
		return nil, mapCatalogLookup(err, "organism group")
	}
	items, err := s.organisms.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Reasons ---

func (s *ReferenceService) CreateReason(ctx context.Context, name string, priority *int) (*domain.Reason, error) {
	re := &domain.Reason{Name: strings.TrimSpace(name), Priority: domain.DefaultReasonPriority}
	if priority != nil {
		re.Priority = *priority
	}
	if err := s.reasons.Create(ctx, re); err != nil {
		return nil, util.MapError(err)
	}
	return re, nil
}

func (s *ReferenceService) UpdateReason(ctx context.Context, id int64, name string, priority *int) (*domain.Reason, error) {
	re, err := s.reasons.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "reason")
	}
	re.Name = strings.TrimSpace(name)
	if priority != nil {
		re.Priority = *priority
	}
	if err := s.reasons.Update(ctx, re); err != nil {
		return nil, mapCatalogLookup(err, "reason")
	}
	return re, nil
}

// DeleteReason keeps reasons referenced by tickets around so old tickets
// stay interpretable.
func (s *ReferenceService) DeleteReason(ctx context.Context, id int64) error {
	count, err := s.reasons.CountTickets(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("reason is referenced by tickets", map[string]any{"tickets": count})
	}
	if err := s.reasons.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "reason")
	}
	return nil
}

func (s *ReferenceService) GetReason(ctx context.Context, id int64) (*domain.Reason, error) {
	re, err := s.reasons.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "reason")
	}
	return re, nil
}

func (s *ReferenceService) ListReasons(ctx context.Context) ([]domain.Reason, error) {
	items, err := s.reasons.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

// --- Roles ---

func (s *ReferenceService) CreateRole(ctx context.Context, name string) (*domain.RoleRecord, error) {
	if !domain.Role(name).Valid() {
		return nil, util.NewValidationError("unknown role name", map[string]any{"name": name})
	}
	role := &domain.RoleRecord{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, util.MapError(err)
	}
	return role, nil
}

func (s *ReferenceService) UpdateRole(ctx context.Context, id int64, name string) (*domain.RoleRecord, error) {
	if !domain.Role(name).Valid() {
		return nil, util.NewValidationError("unknown role name", map[string]any{"name": name})
	}
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "role")
	}
	role.Name = name
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, mapCatalogLookup(err, "role")
	}
	return role, nil
}

func (s *ReferenceService) GetRole(ctx context.Context, id int64) (*domain.RoleRecord, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogLookup(err, "role")
	}
	return role, nil
}

func (s *ReferenceService) DeleteRole(ctx context.Context, id int64) error {
	count, err := s.roles.CountUsers(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("role still has users", map[string]any{"users": count})
	}
	if err := s.roles.SoftDelete(ctx, id); err != nil {
		return mapCatalogLookup(err, "role")
	}
	return nil
}

func (s *ReferenceService) ListRoles(ctx context.Context) ([]domain.RoleRecord, error) {
	items, err := s.roles.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return items, nil
}

func mapCatalogLookup(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound(resource, nil)
	}
	return util.MapError(err)
}
