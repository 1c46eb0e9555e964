package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de campaña de descuento.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Estados de una campaña según su bandera y su vigencia.
const (
	DiscountStatusActive   = "active"
	DiscountStatusUpcoming = "upcoming"
	DiscountStatusExpired  = "expired"
	DiscountStatusInactive = "inactive"
)

// minDiscountedPrice es el piso de un descuento fijo.
var minDiscountedPrice = decimal.New(1, -2)

// Discount campaña que rebaja el precio de venta de productos elegidos o de categorías completas.
// StartDate y EndDate son días (hora 00:00 UTC) y ambos están incluidos en la vigencia.
type Discount struct {
	ID          string
	Name        string
	Type        string // percentage | fixed
	Amount      decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	ProductIDs  []string
	CategoryIDs []string
	IsActive    bool
	CreatedAt   time.Time
}

// Apply devuelve el precio rebajado. Un porcentaje se redondea a dos decimales;
// un monto fijo nunca deja el precio por debajo de 0.01.
func (d *Discount) Apply(price decimal.Decimal) decimal.Decimal {
	if d.Type == DiscountPercentage {
		factor := decimal.NewFromInt(1).Sub(d.Amount.Div(decimal.NewFromInt(100)))
		return price.Mul(factor).Round(2)
	}
	return decimal.Max(price.Sub(d.Amount), minDiscountedPrice)
}

// Status clasifica la campaña en el día de now.
func (d *Discount) Status(now time.Time) string {
	day := Day(now)
	switch {
	case day.After(d.EndDate):
		return DiscountStatusExpired
	case day.Before(d.StartDate):
		return DiscountStatusUpcoming
	case !d.IsActive:
		return DiscountStatusInactive
	default:
		return DiscountStatusActive
	}
}

// Day trunca t al inicio de su día en UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidDiscountType indica si t es un tipo de descuento conocido.
func ValidDiscountType(t string) bool {
	return t == DiscountPercentage || t == DiscountFixed
}
