package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
)

// OrganizationHandler organizaciones, miembros e invitaciones.
type OrganizationHandler struct {
	uc *usecase.OrganizationUseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *usecase.OrganizationUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear organización
// @Description  El usuario autenticado queda como owner. Sin slug se deriva del nombre.
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrganizationRequest  true  "name, slug, logo_url"
// @Success      201   {object}  dto.OrganizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/organizations [post]
func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      Mis organizaciones
// @Tags         organizations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrganizationResponse
// @Router       /api/organizations [get]
func (h *OrganizationHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener organización
// @Tags         organizations
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {object}  dto.OrganizationResponse
// @Router       /api/organizations/{orgID} [get]
func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar organización (owner/admin)
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.UpdateOrganizationRequest  true  "campos a modificar"
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID} [put]
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	out.Role = GetRole(c)
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar organización (solo owner, en cascada)
// @Tags         organizations
// @Security     Bearer
// @Param        orgID  path  string  true  "organización"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID} [delete]
func (h *OrganizationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetOrganizationID(c), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers godoc
// @Summary      Miembros de la organización
// @Tags         organizations
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {array}  dto.MemberResponse
// @Router       /api/organizations/{orgID}/members [get]
func (h *OrganizationHandler) ListMembers(c *fiber.Ctx) error {
	out, err := h.uc.ListMembers(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveMember godoc
// @Summary      Quitar miembro (owner/admin). El owner no se puede quitar.
// @Tags         organizations
// @Security     Bearer
// @Param        orgID   path  string  true  "organización"
// @Param        userID  path  string  true  "usuario"
// @Success      204
// @Router       /api/organizations/{orgID}/members/{userID} [delete]
func (h *OrganizationHandler) RemoveMember(c *fiber.Ctx) error {
	memberID, err := idParam(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.RemoveMember(c.UserContext(), GetOrganizationID(c), memberID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Invite godoc
// @Summary      Invitar por email (owner/admin)
// @Description  La respuesta incluye el token de la invitación para enviarlo al invitado.
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.InviteMemberRequest  true  "email, role"
// @Success      201  {object}  dto.InvitationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/invitations [post]
func (h *OrganizationHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteMemberRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Invite(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvitations invitaciones pendientes.
func (h *OrganizationHandler) ListInvitations(c *fiber.Ctx) error {
	out, err := h.uc.ListInvitations(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AcceptInvitation godoc
// @Summary      Aceptar invitación
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcceptInvitationRequest  true  "token"
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/invitations/accept [post]
func (h *OrganizationHandler) AcceptInvitation(c *fiber.Ctx) error {
	var in dto.AcceptInvitationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AcceptInvitation(c.UserContext(), GetUserID(c), in.Token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
