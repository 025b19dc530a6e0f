package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// ReferenceHandler serves the administrative reference catalogs.
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: referenceService}
}

func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id parameter", map[string]any{"param": name})
	}
	return id, nil
}

// --- Municipalities ---

// CreateMunicipality POST /municipality.
func (h *ReferenceHandler) CreateMunicipality(c *fiber.Ctx) error {
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	m, err := h.service.CreateMunicipality(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMunicipalityResponse(m)})
}

// UpdateMunicipality PUT /municipality/:id.
func (h *ReferenceHandler) UpdateMunicipality(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	m, err := h.service.UpdateMunicipality(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMunicipalityResponse(m)})
}

// DeleteMunicipality DELETE /municipality/:id.
func (h *ReferenceHandler) DeleteMunicipality(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteMunicipality(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetMunicipality GET /municipality/:id.
func (h *ReferenceHandler) GetMunicipality(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	m, err := h.service.GetMunicipality(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMunicipalityResponse(m)})
}

// ListMunicipalities GET /municipality.
func (h *ReferenceHandler) ListMunicipalities(c *fiber.Ctx) error {
	items, err := h.service.ListMunicipalities(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	out := make([]dto.MunicipalityResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewMunicipalityResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// --- Parishes ---

// CreateParish POST /parish.
func (h *ReferenceHandler) CreateParish(c *fiber.Ctx) error {
	var req dto.ParishRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	p, err := h.service.CreateParish(c.UserContext(), req.Name, req.MunicipalityID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewParishResponse(p)})
}

// UpdateParish PUT /parish/:id.
func (h *ReferenceHandler) UpdateParish(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ParishUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	p, err := h.service.UpdateParish(c.UserContext(), id, req.Name, req.MunicipalityID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewParishResponse(p)})
}

// DeleteParish DELETE /parish/:id.
func (h *ReferenceHandler) DeleteParish(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteParish(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetParish GET /parish/:id.
func (h *ReferenceHandler) GetParish(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.GetParish(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewParishResponse(p)})
}

// ListParishes GET /parish.
func (h *ReferenceHandler) ListParishes(c *fiber.Ctx) error {
	items, err := h.service.ListParishes(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": parishList(items)})
}

// ListParishesByMunicipality GET /parish/municipality/:id.
func (h *ReferenceHandler) ListParishesByMunicipality(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.service.ListParishesByMunicipality(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": parishList(items)})
}

// --- Quadrants ---

// CreateQuadrant POST /quadrant.
func (h *ReferenceHandler) CreateQuadrant(c *fiber.Ctx) error {
	var req dto.QuadrantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	q, err := h.service.CreateQuadrant(c.UserContext(), req.Name, req.ParishID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewQuadrantResponse(q)})
}

// UpdateQuadrant PUT /quadrant/:id.
func (h *ReferenceHandler) UpdateQuadrant(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.QuadrantUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	q, err := h.service.UpdateQuadrant(c.UserContext(), id, req.Name, req.ParishID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewQuadrantResponse(q)})
}

// DeleteQuadrant DELETE /quadrant/:id.
func (h *ReferenceHandler) DeleteQuadrant(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteQuadrant(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetQuadrant GET /quadrant/:id.
func (h *ReferenceHandler) GetQuadrant(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	q, err := h.service.GetQuadrant(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewQuadrantResponse(q)})
}

// ListQuadrants GET /quadrant.
func (h *ReferenceHandler) ListQuadrants(c *fiber.Ctx) error {
	items, err := h.service.ListQuadrants(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quadrantList(items)})
}

// ListQuadrantsByParish GET /quadrant/parish/:id.
func (h *ReferenceHandler) ListQuadrantsByParish(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.service.ListQuadrantsByParish(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quadrantList(items)})
}

// --- Organism groups ---

// CreateOrganismGroup POST /organismGroup.
func (h *ReferenceHandler) CreateOrganismGroup(c *fiber.Ctx) error {
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	g, err := h.service.CreateOrganismGroup(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrganismGroupResponse(g)})
}

// UpdateOrganismGroup PUT /organismGroup/:id.
func (h *ReferenceHandler) UpdateOrganismGroup(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	g, err := h.service.UpdateOrganismGroup(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganismGroupResponse(g)})
}

// DeleteOrganismGroup DELETE /organismGroup/:id.
func (h *ReferenceHandler) DeleteOrganismGroup(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrganismGroup(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetOrganismGroup GET /organismGroup/:id.
func (h *ReferenceHandler) GetOrganismGroup(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	g, err := h.service.GetOrganismGroup(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganismGroupResponse(g)})
}

// ListOrganismGroups GET /organismGroup.
func (h *ReferenceHandler) ListOrganismGroups(c *fiber.Ctx) error {
	items, err := h.service.ListOrganismGroups(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.OrganismGroupResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewOrganismGroupResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// --- Organisms ---

// CreateOrganism POST /organism.
func (h *ReferenceHandler) CreateOrganism(c *fiber.Ctx) error {
	var req dto.OrganismRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	o, err := h.service.CreateOrganism(c.UserContext(), req.Name, req.OrganismGroupID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrganismResponse(o)})
}

// UpdateOrganism PUT /organism/:id.
func (h *ReferenceHandler) UpdateOrganism(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.OrganismUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	o, err := h.service.UpdateOrganism(c.UserContext(), id, req.Name, req.OrganismGroupID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganismResponse(o)})
}

// DeleteOrganism DELETE /organism/:id.
func (h *ReferenceHandler) DeleteOrganism(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrganism(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetOrganism GET /organism/:id.
func (h *ReferenceHandler) GetOrganism(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.GetOrganism(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganismResponse(o)})
}

// ListOrganisms GET /organism.
func (h *ReferenceHandler) ListOrganisms(c *fiber.Ctx) error {
	items, err := h.service.ListOrganisms(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": organismList(items)})
}

// ListOrganismsByGroup GET /organism/group/:id.
func (h *ReferenceHandler) ListOrganismsByGroup(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.service.ListOrganismsByGroup(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": organismList(items)})
}

// --- Reasons ---

// CreateReason POST /reason.
func (h *ReferenceHandler) CreateReason(c *fiber.Ctx) error {
	var req dto.ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	re, err := h.service.CreateReason(c.UserContext(), req.Name, req.Priority)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReasonResponse(re)})
}

// UpdateReason PUT /reason/:id.
func (h *ReferenceHandler) UpdateReason(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	re, err := h.service.UpdateReason(c.UserContext(), id, req.Name, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReasonResponse(re)})
}

// DeleteReason DELETE /reason/:id.
func (h *ReferenceHandler) DeleteReason(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteReason(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetReason GET /reason/:id.
func (h *ReferenceHandler) GetReason(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	re, err := h.service.GetReason(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReasonResponse(re)})
}

// ListReasons GET /reason.
func (h *ReferenceHandler) ListReasons(c *fiber.Ctx) error {
	items, err := h.service.ListReasons(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ReasonResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewReasonResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// --- Roles ---

// CreateRole POST /role.
func (h *ReferenceHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	role, err := h.service.CreateRole(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// UpdateRole PUT /role/:id.
func (h *ReferenceHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.NamedEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	role, err := h.service.UpdateRole(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// GetRole GET /role/:id.
func (h *ReferenceHandler) GetRole(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	role, err := h.service.GetRole(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// DeleteRole DELETE /role/:id.
func (h *ReferenceHandler) DeleteRole(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteRole(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListRoles GET /role.
func (h *ReferenceHandler) ListRoles(c *fiber.Ctx) error {
	items, err := h.service.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.RoleResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewRoleResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func parishList(items []domain.Parish) []dto.ParishResponse {
	out := make([]dto.ParishResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewParishResponse(&items[i]))
	}
	return out
}

func quadrantList(items []domain.Quadrant) []dto.QuadrantResponse {
	out := make([]dto.QuadrantResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewQuadrantResponse(&items[i]))
	}
	return out
}

func organismList(items []domain.Organism) []dto.OrganismResponse {
	out := make([]dto.OrganismResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewOrganismResponse(&items[i]))
	}
	return out
}
