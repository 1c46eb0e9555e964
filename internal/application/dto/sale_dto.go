package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PaymentDetailsDTO desglose del pago por medio (efectivo, M-Pesa, tarjeta, cheque).
type PaymentDetailsDTO struct {
	Cash         decimal.Decimal `json:"cash"`
	Mpesa        decimal.Decimal `json:"mpesa"`
	Card         decimal.Decimal `json:"card"`
	Cheque       decimal.Decimal `json:"cheque"`
	MpesaCode    string          `json:"mpesa_code,omitempty" validate:"max=50"`
	CardRef      string          `json:"card_reference,omitempty" validate:"max=100"`
	ChequeNumber string          `json:"cheque_number,omitempty" validate:"max=50"`
}

// SaleLineRequest línea de venta. Price en cero usa el precio de catálogo.
type SaleLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	BatchID         string          `json:"batch_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PostSaleRequest body de POST /api/sales, PUT /api/sales/:id y de los borradores de venta.
// Subtotal y Total son solo eco del cliente: el servidor recalcula todo desde las líneas.
type PostSaleRequest struct {
	CustomerID      string            `json:"customer_id,omitempty"`
	SaleType        string            `json:"sale_type" validate:"omitempty,oneof=retail wholesale"`
	PaymentMethod   string            `json:"payment_method" validate:"omitempty,oneof=cash mpesa card cheque credit mixed"`
	AmountPaid      decimal.Decimal   `json:"amount_paid"`
	IsCredit        bool              `json:"is_credit"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	PaymentDetails  PaymentDetailsDTO `json:"payment_details"`
	Notes           string            `json:"notes,omitempty" validate:"max=1000"`
	PendingSaleID   string            `json:"pending_sale_id,omitempty"`
	Subtotal        *decimal.Decimal  `json:"subtotal,omitempty"`
	Total           *decimal.Decimal  `json:"total,omitempty"`
	Items           []SaleLineRequest `json:"items" validate:"required,min=1,dive"`

	// IdempotencyKey viene del header Idempotency-Key, no del body.
	IdempotencyKey string `json:"-"`
}

// PostSaleResponse resultado del registro de una venta.
type PostSaleResponse struct {
	SaleID             string                `json:"sale_id"`
	SaleNumber         string                `json:"sale_number"`
	ItemIDs            []string              `json:"item_ids"`
	PendingSaleDeleted bool                  `json:"pending_sale_deleted"`
	Receipt            entity.ReceiptContent `json:"receipt"`
}

// SaleItemResponse línea de una venta en respuestas.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	BatchID         string          `json:"batch_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
}

// SaleResponse venta con líneas y abonos para GET /api/sales/:id.
type SaleResponse struct {
	ID              string                    `json:"id"`
	SaleNumber      string                    `json:"sale_number"`
	CustomerID      string                    `json:"customer_id,omitempty"`
	UserID          string                    `json:"user_id,omitempty"`
	SaleType        string                    `json:"sale_type"`
	Subtotal        decimal.Decimal           `json:"subtotal"`
	DiscountAmount  decimal.Decimal           `json:"discount_amount"`
	DiscountPercent decimal.Decimal           `json:"discount_percent"`
	Total           decimal.Decimal           `json:"total"`
	PaymentMethod   string                    `json:"payment_method"`
	AmountPaid      decimal.Decimal           `json:"amount_paid"`
	Balance         decimal.Decimal           `json:"balance"`
	IsCredit        bool                      `json:"is_credit"`
	IsPaid          bool                      `json:"is_paid"`
	PaymentDetails  PaymentDetailsDTO         `json:"payment_details"`
	Notes           string                    `json:"notes,omitempty"`
	Items           []SaleItemResponse        `json:"items"`
	Payments        []CustomerPaymentResponse `json:"payments"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// OutstandingSaleResponse venta a crédito con saldo pendiente.
type OutstandingSaleResponse struct {
	SaleID       string          `json:"sale_id"`
	SaleNumber   string          `json:"sale_number"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PendingSaleResponse borrador de venta; Draft tiene la misma forma que el body de registro.
type PendingSaleResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	Status          string          `json:"status"`
	CompletedSaleID string          `json:"completed_sale_id,omitempty"`
	ItemCount       int             `json:"item_count"`
	Subtotal        decimal.Decimal `json:"subtotal"` // estimado con los precios del borrador
	Draft           PostSaleRequest `json:"draft"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
