package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra. BatchNumber crea el lote o suma al existente del producto.
type PurchaseLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name,omitempty"` // solo lectura en borradores
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	BatchNumber string          `json:"batch_number,omitempty" validate:"max=100"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// PostPurchaseRequest body de POST /api/purchases, PUT /api/purchases/:id y de los borradores de compra.
type PostPurchaseRequest struct {
	SupplierID        string                `json:"supplier_id"`
	InvoiceNumber     string                `json:"invoice_number,omitempty" validate:"max=100"`
	PaymentMethod     string                `json:"payment_method,omitempty" validate:"omitempty,oneof=cash mpesa card cheque credit mixed"`
	IsPaid            bool                  `json:"is_paid"`
	DiscountAmount    decimal.Decimal       `json:"discount_amount"`
	Notes             string                `json:"notes,omitempty" validate:"max=1000"`
	PendingPurchaseID string                `json:"pending_purchase_id,omitempty"`
	Items             []PurchaseLineRequest `json:"items" validate:"required,min=1,dive"`
}

// PostPurchaseResponse resultado del registro de una compra.
type PostPurchaseResponse struct {
	PurchaseID    string          `json:"purchase_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	ItemIDs       []string        `json:"item_ids"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	BatchID     string          `json:"batch_id,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseResponse compra o devolución con líneas y saldo para GET /api/purchases/:id.
type PurchaseResponse struct {
	ID                 string                 `json:"id"`
	InvoiceNumber      string                 `json:"invoice_number"`
	SupplierID         string                 `json:"supplier_id"`
	UserID             string                 `json:"user_id,omitempty"`
	Subtotal           decimal.Decimal        `json:"subtotal"`
	DiscountAmount     decimal.Decimal        `json:"discount_amount"`
	Total              decimal.Decimal        `json:"total"`
	ItemCount          int                    `json:"item_count"`
	IsPaid             bool                   `json:"is_paid"`
	PaymentMethod      string                 `json:"payment_method,omitempty"`
	TotalPaid          decimal.Decimal        `json:"total_paid"`
	BalanceDue         decimal.Decimal        `json:"balance_due"`
	Notes              string                 `json:"notes,omitempty"`
	IsReturn           bool                   `json:"is_return"`
	OriginalPurchaseID string                 `json:"original_purchase_id,omitempty"`
	ReturnReason       string                 `json:"return_reason,omitempty"`
	ReturnStatus       string                 `json:"return_status,omitempty"`
	Items              []PurchaseItemResponse `json:"items"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ReturnLineRequest línea a devolver al proveedor.
type ReturnLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	BatchID   string          `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateReturnRequest body de POST /api/purchases/returns.
type CreateReturnRequest struct {
	OriginalPurchaseID string              `json:"original_purchase_id" validate:"required"`
	Reason             string              `json:"reason" validate:"required,max=500"`
	Items              []ReturnLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ProcessReturnRequest body de POST /api/purchases/returns/:id/process.
type ProcessReturnRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// PendingPurchaseResponse borrador de compra.
type PendingPurchaseResponse struct {
	ID                  string              `json:"id"`
	DraftNumber         string              `json:"draft_number"`
	UserID              string              `json:"user_id"`
	SupplierID          string              `json:"supplier_id,omitempty"`
	Status              string              `json:"status"`
	CompletedPurchaseID string              `json:"completed_purchase_id,omitempty"`
	ItemCount           int                 `json:"item_count"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	Draft               PostPurchaseRequest `json:"draft"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}
