package dto

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// NamedEntityRequest covers catalogs that only carry a name.
type NamedEntityRequest struct {
	Name string `json:"name" validate:"required"`
}

// ParishRequest payload.
type ParishRequest struct {
	Name           string `json:"name" validate:"required"`
	MunicipalityID int64  `json:"municipalityId" validate:"required,gt=0"`
}

// ParishUpdateRequest payload, reparenting optional.
type ParishUpdateRequest struct {
	Name           string `json:"name" validate:"required"`
	MunicipalityID *int64 `json:"municipalityId" validate:"omitempty,gt=0"`
}

// QuadrantRequest payload.
type QuadrantRequest struct {
	Name     string `json:"name" validate:"required"`
	ParishID int64  `json:"parishId" validate:"required,gt=0"`
}

// QuadrantUpdateRequest payload.
type QuadrantUpdateRequest struct {
	Name     string `json:"name" validate:"required"`
	ParishID *int64 `json:"parishId" validate:"omitempty,gt=0"`
}

// OrganismRequest payload.
type OrganismRequest struct {
	Name            string `json:"name" validate:"required"`
	OrganismGroupID int64  `json:"organismGroupId" validate:"required,gt=0"`
}

// OrganismUpdateRequest payload.
type OrganismUpdateRequest struct {
	Name            string `json:"name" validate:"required"`
	OrganismGroupID *int64 `json:"organismGroupId" validate:"omitempty,gt=0"`
}

// ReasonRequest payload. Priority falls back to the catalog default.
type ReasonRequest struct {
	Name     string `json:"name" validate:"required"`
	Priority *int   `json:"priority" validate:"omitempty,gt=0"`
}

// MunicipalityResponse view.
type MunicipalityResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Parishes  []ParishResponse `json:"parishes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ParishResponse view.
type ParishResponse struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	MunicipalityID int64              `json:"municipalityId"`
	Quadrants      []QuadrantResponse `json:"quadrants,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// QuadrantResponse view.
type QuadrantResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParishID  int64     `json:"parishId"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganismGroupResponse view.
type OrganismGroupResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Organisms []OrganismResponse `json:"organisms,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// OrganismResponse view.
type OrganismResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	OrganismGroupID int64     `json:"organismGroupId"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ReasonResponse view.
type ReasonResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleResponse view.
type RoleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMunicipalityResponse maps a municipality with any loaded parishes.
func NewMunicipalityResponse(m *domain.Municipality) MunicipalityResponse {
	resp := MunicipalityResponse{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Parishes {
		resp.Parishes = append(resp.Parishes, NewParishResponse(&m.Parishes[i]))
	}
	return resp
}

// NewParishResponse maps a parish with any loaded quadrants.
func NewParishResponse(p *domain.Parish) ParishResponse {
	resp := ParishResponse{
		ID:             p.ID,
		Name:           p.Name,
		MunicipalityID: p.MunicipalityID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for i := range p.Quadrants {
		resp.Quadrants = append(resp.Quadrants, NewQuadrantResponse(&p.Quadrants[i]))
	}
	return resp
}

// NewQuadrantResponse maps a quadrant.
func NewQuadrantResponse(q *domain.Quadrant) QuadrantResponse {
	return QuadrantResponse{
		ID:        q.ID,
		Name:      q.Name,
		ParishID:  q.ParishID,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// NewOrganismGroupResponse maps a group with any loaded organisms.
func NewOrganismGroupResponse(g *domain.OrganismGroup) OrganismGroupResponse {
	resp := OrganismGroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	for i := range g.Organisms {
		resp.Organisms = append(resp.Organisms, NewOrganismResponse(&g.Organisms[i]))
	}
	return resp
}

// NewOrganismResponse maps an organism.
func NewOrganismResponse(o *domain.Organism) OrganismResponse {
	return OrganismResponse{
		ID:              o.ID,
		Name:            o.Name,
		OrganismGroupID: o.OrganismGroupID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// NewReasonResponse maps a reason.
func NewReasonResponse(re *domain.Reason) ReasonResponse {
	return ReasonResponse{
		ID:        re.ID,
		Name:      re.Name,
		Priority:  re.Priority,
		CreatedAt: re.CreatedAt,
		UpdatedAt: re.UpdatedAt,
	}
}

// NewRoleResponse maps a role row.
func NewRoleResponse(r *domain.RoleRecord) RoleResponse {
	return RoleResponse{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
