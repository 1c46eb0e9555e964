package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerPayment abono de un cliente a una venta a crédito.
type CustomerPayment struct {
	ID            string
	SaleID        string
	CustomerID    string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	Notes         string
	UserID        string
	CreatedAt     time.Time
}

// SupplierPayment pago a un proveedor contra una compra.
type SupplierPayment struct {
	ID            string
	PurchaseID    string
	SupplierID    string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	Notes         string
	UserID        string
	CreatedAt     time.Time
}
