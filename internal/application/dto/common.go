package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

// Normalize aplica valores por defecto y límites (1..100 por página).
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset devuelve el offset SQL equivalente.
func (p PageRequest) Offset() int { return (p.Page - 1) * p.PerPage }

// Pagination metadatos de página en respuestas de listado.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// NewPagination calcula los metadatos a partir del total.
func NewPagination(p PageRequest, total int) Pagination {
	pages := total / p.PerPage
	if total%p.PerPage != 0 {
		pages++
	}
	return Pagination{Page: p.Page, PerPage: p.PerPage, Total: total, Pages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
