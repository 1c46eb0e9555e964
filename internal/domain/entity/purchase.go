package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución a proveedor.
const (
	ReturnPending  = "pending"
	ReturnApproved = "approved"
	ReturnRejected = "rejected"
)

// Purchase cabecera de una compra a proveedor (o de una devolución si IsReturn).
type Purchase struct {
	ID                 string
	InvoiceNumber      string // INV-YYYYMMDD-NNNN si no viene del proveedor
	SupplierID         string
	UserID             string
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	Total              decimal.Decimal
	ItemCount          int
	IsPaid             bool
	PaymentMethod      string
	Notes              string
	IsReturn           bool
	OriginalPurchaseID string
	ReturnReason       string
	ReturnStatus       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PurchaseItem línea de una compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	BatchID    string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Total      decimal.Decimal
}
