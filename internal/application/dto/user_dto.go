package dto

import "time"

// RegisterRequest alta de cuenta.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token de acceso más el usuario y sus organizaciones (selector de organización).
type LoginResponse struct {
	Token         string                 `json:"token"`
	ExpiresIn     int                    `json:"expires_in"` // segundos
	User          UserResponse           `json:"user"`
	Organizations []OrganizationResponse `json:"organizations"`
}
