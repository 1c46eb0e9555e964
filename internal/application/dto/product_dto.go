package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Barcode vacío genera PRD########.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Barcode         string          `json:"barcode" validate:"omitempty,max=100"`
	CategoryID      string          `json:"category_id,omitempty"`
	Description     string          `json:"description"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	WholesalePrice  decimal.Decimal `json:"wholesale_price"`
	WholesaleMinQty decimal.Decimal `json:"wholesale_min_qty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
}

// UpdateProductRequest entrada para actualizar un producto (sin existencias: esas solo cambian al registrar).
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode         *string          `json:"barcode" validate:"omitempty,min=1,max=100"`
	CategoryID      *string          `json:"category_id"`
	Description     *string          `json:"description"`
	SellingPrice    *decimal.Decimal `json:"selling_price"`
	WholesalePrice  *decimal.Decimal `json:"wholesale_price"`
	WholesaleMinQty *decimal.Decimal `json:"wholesale_min_qty"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level"`
	IsActive        *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Barcode         string          `json:"barcode"`
	CategoryID      string          `json:"category_id,omitempty"`
	Description     string          `json:"description"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	WholesalePrice  decimal.Decimal `json:"wholesale_price"`
	WholesaleMinQty decimal.Decimal `json:"wholesale_min_qty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	NeedsReorder    bool            `json:"needs_reorder"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductDetailsResponse producto con el precio aplicable y sus lotes disponibles (punto de venta).
type ProductDetailsResponse struct {
	ProductResponse
	SaleType string          `json:"sale_type"`
	Price    decimal.Decimal `json:"price"`
	Batches  []BatchResponse `json:"batches"`
}

// CategoryRequest entrada para crear una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
