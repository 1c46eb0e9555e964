package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypeRetail    = "retail"
	SaleTypeWholesale = "wholesale"
)

// Medios de pago aceptados en ventas y compras.
const (
	PaymentCash   = "cash"
	PaymentMpesa  = "mpesa"
	PaymentCard   = "card"
	PaymentCheque = "cheque"
	PaymentCredit = "credit"
	PaymentMixed  = "mixed"
)

// ValidPaymentMethod indica si m es un medio de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentCard, PaymentCheque, PaymentCredit, PaymentMixed:
		return true
	}
	return false
}

// PaymentDetails desglose opcional del pago por medio.
type PaymentDetails struct {
	Cash         decimal.Decimal `json:"cash"`
	Mpesa        decimal.Decimal `json:"mpesa"`
	Card         decimal.Decimal `json:"card"`
	Cheque       decimal.Decimal `json:"cheque"`
	MpesaCode    string          `json:"mpesa_code,omitempty"`
	CardRef      string          `json:"card_reference,omitempty"`
	ChequeNumber string          `json:"cheque_number,omitempty"`
}

// Sum total de los montos del desglose.
func (d PaymentDetails) Sum() decimal.Decimal {
	return d.Cash.Add(d.Mpesa).Add(d.Card).Add(d.Cheque)
}

// IsZero indica si el desglose no trae montos ni referencias.
func (d PaymentDetails) IsZero() bool {
	return d.Sum().IsZero() && d.MpesaCode == "" && d.CardRef == "" && d.ChequeNumber == ""
}

// Sale cabecera de una venta registrada.
// Balance = max(Total - AmountPaid, 0) en todo momento.
type Sale struct {
	ID              string
	SaleNumber      string // SALE-YYYYMMDD-NNNN
	CustomerID      string // vacío = cliente de mostrador
	UserID          string
	SaleType        string
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   string
	AmountPaid      decimal.Decimal
	Balance         decimal.Decimal
	IsCredit        bool
	IsPaid          bool
	IsCompleted     bool
	PaymentDetails  PaymentDetails
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	BatchID         string // vacío si la línea no usa lote
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
}
