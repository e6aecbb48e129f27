package dto

import "time"

// CreateOrganizationRequest Slug opcional: si viene vacío se deriva del nombre.
type CreateOrganizationRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Slug    string `json:"slug" validate:"omitempty,min=2,max=48"`
	LogoURL string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateOrganizationRequest campos nil no se modifican.
type UpdateOrganizationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=120"`
	Slug    *string `json:"slug" validate:"omitempty,min=2,max=48"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

// OrganizationResponse salida de una organización. Role es el del usuario que consulta.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   string    `json:"logo_url"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberResponse miembro de la organización.
type MemberResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteMemberRequest invitación por email.
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member"`
}

// InvitationResponse invitación creada o pendiente.
type InvitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptInvitationRequest token recibido por email.
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}
