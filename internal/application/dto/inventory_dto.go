package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body de POST /api/batches.
type CreateBatchRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	BatchNumber   string          `json:"batch_number" validate:"required,max=100"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
}

// UpdateBatchRequest body de PUT /api/batches/:id. Quantity ajusta el producto por la diferencia.
type UpdateBatchRequest struct {
	BatchNumber   *string          `json:"batch_number" validate:"omitempty,min=1,max=100"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	BatchNumber   string          `json:"batch_number"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	IsExpired     bool            `json:"is_expired"`
	ReceivedDate  time.Time       `json:"received_date"`
}

// StockMovementRequest body de POST /api/inventory/movements.
// Para adjustment Quantity lleva signo; para in/out debe ser positiva.
type StockMovementRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	BatchID      string          `json:"batch_id,omitempty"`
	MovementType string          `json:"movement_type" validate:"required,oneof=in out adjustment"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference,omitempty" validate:"max=100"`
	Notes        string          `json:"notes,omitempty" validate:"max=1000"`
}

// StockMovementResponse movimiento registrado con la existencia resultante.
type StockMovementResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	BatchID         string          `json:"batch_id,omitempty"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ProductQuantity decimal.Decimal `json:"product_quantity"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReorderSuggestionResponse producto bajo su nivel de reorden con la cantidad sugerida a pedir.
type ReorderSuggestionResponse struct {
	ProductID          string          `json:"product_id"`
	Barcode            string          `json:"barcode"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"`
}
