package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest body de abonos a ventas a crédito y pagos a proveedores.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash mpesa card cheque"`
	Reference     string          `json:"reference,omitempty" validate:"max=100"`
	Notes         string          `json:"notes,omitempty" validate:"max=1000"`
}

// CreditPaymentResponse estado de la venta y del cliente tras un abono.
type CreditPaymentResponse struct {
	PaymentID       string          `json:"payment_id"`
	SaleID          string          `json:"sale_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	SaleBalance     decimal.Decimal `json:"sale_balance"`
	IsPaid          bool            `json:"is_paid"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerBalance decimal.Decimal `json:"customer_balance"`
}

// CustomerPaymentResponse abono registrado.
type CustomerPaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SupplierPaymentResponse estado de la compra tras un pago.
type SupplierPaymentResponse struct {
	PaymentID  string          `json:"payment_id"`
	PurchaseID string          `json:"purchase_id"`
	Amount     decimal.Decimal `json:"amount"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
	IsPaid     bool            `json:"is_paid"`
}
