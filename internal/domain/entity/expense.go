package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto.
const (
	ExpenseRent      = "rent"
	ExpenseSalaries  = "salaries"
	ExpenseUtilities = "utilities"
	ExpenseTransport = "transport"
	ExpenseOther     = "other"
)

// Expense gasto operativo de la tienda. Date es el día del gasto (00:00 UTC).
type Expense struct {
	ID          string
	Date        time.Time
	Category    string
	Description string
	Amount      decimal.Decimal
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidExpenseCategory indica si c es una categoría de gasto conocida.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseRent, ExpenseSalaries, ExpenseUtilities, ExpenseTransport, ExpenseOther:
		return true
	}
	return false
}
