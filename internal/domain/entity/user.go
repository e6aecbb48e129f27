package entity

import "time"

// User cuenta de acceso. Puede pertenecer a varias organizaciones vía Member.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
