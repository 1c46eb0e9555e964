package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente. Balance es el crédito pendiente:
// sube con ventas a crédito y baja con abonos.
type Customer struct {
	ID          string
	Name        string
	Phone       string
	Email       string
	Address     string
	Balance     decimal.Decimal
	CreditLimit decimal.Decimal // cero = sin límite
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
