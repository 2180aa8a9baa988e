package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int    `query:"limit"`
	Estado string `query:"estado"`
}

// DefaultPage aplica valores por defecto.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
}

// ErrorResponse cuerpo de error HTTP. Details lista los errores de validación acumulados.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
