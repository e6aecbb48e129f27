package dto

import "time"

// CreateCategoryRequest ParentID vacío = categoría raíz.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest ParentID puntero a "" mueve la categoría a la raíz.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	ParentID *string `json:"parent_id" validate:"omitempty"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
