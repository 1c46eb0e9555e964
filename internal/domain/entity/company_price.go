package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyPrice precio negociado de un producto para una compañía. Único por (compañía, producto).
type CompanyPrice struct {
	ID        string
	CompanyID string
	ProductID string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
