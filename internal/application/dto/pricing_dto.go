package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountRequest entrada para crear una campaña. Las fechas se truncan al día.
type DiscountRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Type        string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	EndDate     time.Time       `json:"end_date" validate:"required"`
	ProductIDs  []string        `json:"product_ids"`
	CategoryIDs []string        `json:"category_ids"`
}

// DiscountResponse salida de una campaña. Repriced solo se informa al crearla.
type DiscountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"discount_type"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	ProductIDs  []string        `json:"product_ids"`
	CategoryIDs []string        `json:"category_ids"`
	IsActive    bool            `json:"is_active"`
	Status      string          `json:"status"`
	Repriced    int             `json:"repriced,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CompanyPriceRequest entrada para fijar el precio negociado de un producto.
type CompanyPriceRequest struct {
	CompanyID string          `json:"company_id" validate:"required"`
	ProductID string          `json:"product_id" validate:"required"`
	Price     decimal.Decimal `json:"price"`
}

// CompanyPriceResponse salida de un precio negociado.
type CompanyPriceResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductPricingResponse precios de un producto y el precio final para la compañía consultada.
type ProductPricingResponse struct {
	ProductID       string          `json:"product_id"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	WholesalePrice  decimal.Decimal `json:"wholesale_price"`
	WholesaleMinQty decimal.Decimal `json:"wholesale_min_qty"`
	CompanyPrice    bool            `json:"company_price"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// ExpenseRequest entrada para crear o editar un gasto.
type ExpenseRequest struct {
	Date        time.Time       `json:"date" validate:"required"`
	Category    string          `json:"category" validate:"required,oneof=rent salaries utilities transport other"`
	Description string          `json:"description" validate:"max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExpenseFilterRequest filtros del listado de gastos (fechas YYYY-MM-DD, inclusivas).
type ExpenseFilterRequest struct {
	From     string `query:"from"`
	To       string `query:"to"`
	Category string `query:"category"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseListResponse gastos del filtro con su total y el desglose por categoría.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse          `json:"expenses"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}
