package entity

import "time"

// Category categoría de productos. ParentID vacío = raíz; el árbol no limita la profundidad.
type Category struct {
	ID             string
	OrganizationID string
	ParentID       string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
