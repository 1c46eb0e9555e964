package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch es un lote de un producto con su propia existencia y vencimiento.
// Su cantidad se mueve junto con la del producto cuando una venta o compra lo referencia.
type Batch struct {
	ID            string
	ProductID     string
	BatchNumber   string // único por producto
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	ExpiryDate    *time.Time
	ReceivedDate  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired indica si el lote venció antes de at.
func (b *Batch) IsExpired(at time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(at)
}
