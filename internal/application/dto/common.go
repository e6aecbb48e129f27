package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest ventana limit/offset de los listados (query string).
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// Normalize deja la ventana dentro de [1, MaxPageSize]; sin limit se usa DefaultPageSize.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Page construye los metadatos de respuesta. total < 0 indica que el listado no se contó:
// Total queda nulo y HasMore se deduce de una página llena.
func (p PageRequest) Page(returned, total int) PageResponse {
	out := PageResponse{Limit: p.Limit, Offset: p.Offset}
	if total < 0 {
		out.HasMore = returned == p.Limit
		return out
	}
	out.Total = &total
	out.HasMore = p.Offset+returned < total
	return out
}

type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   *int `json:"total,omitempty"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse cuerpo de todos los errores HTTP. Code es estable; Message va en francés.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
