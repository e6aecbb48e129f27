package entity

import "time"

// Roles de un miembro dentro de una organización.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Organization representa un tenant del sistema. Todas las filas de negocio cuelgan de ella
// y se eliminan en cascada cuando el owner la borra.
type Organization struct {
	ID        string
	Name      string
	Slug      string // único global
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member vincula un usuario con una organización y su rol.
type Member struct {
	OrganizationID string
	UserID         string
	Role           string // owner, admin, member
	Email          string // solo lectura (join con users)
	Name           string // solo lectura (join con users)
	CreatedAt      time.Time
}

// CanManage informa si el rol permite modificar la organización y sus miembros.
func (m *Member) CanManage() bool {
	return m != nil && (m.Role == RoleOwner || m.Role == RoleAdmin)
}

// Invitation invitación pendiente a unirse a una organización.
type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Role           string
	Token          string
	InvitedBy      string
	AcceptedAt     *time.Time
	ExpiresAt      time.Time
	CreatedAt      time.Time
}
