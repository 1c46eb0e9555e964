package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor. Los pagos se registran como SupplierPayment
// contra cada compra; Balance se conserva como dato informativo.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
