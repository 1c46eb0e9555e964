package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del diario de existencias.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// StockJournal registro de un ajuste manual de existencias.
// Para adjustment, Quantity lleva signo; para in/out es positiva.
type StockJournal struct {
	ID           string
	ProductID    string
	BatchID      string
	MovementType string
	Quantity     decimal.Decimal
	Reference    string
	Notes        string
	UserID       string
	CreatedAt    time.Time
}
