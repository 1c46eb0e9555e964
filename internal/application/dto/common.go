package dto

// Tamaños de página para los listados.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest paginación por limit/offset.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalize lleva Limit a [1, MaxPageSize] y Offset a >= 0.
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

// ErrorResponse cuerpo de error HTTP. Code es estable y apto para máquinas.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
