package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo de la tienda.
// Quantity es la existencia total; nunca se persiste negativa.
type Product struct {
	ID              string
	Name            string
	Barcode         string // único; PRD######## si se crea sin código
	CategoryID      string // vacío si no tiene categoría
	Description     string
	PurchasePrice   decimal.Decimal // último precio de compra
	SellingPrice    decimal.Decimal
	WholesalePrice  decimal.Decimal
	WholesaleMinQty decimal.Decimal // cantidad mínima para aplicar precio mayorista
	Quantity        decimal.Decimal
	ReorderLevel    decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PriceFor devuelve el precio de catálogo para el tipo de venta y cantidad dados.
// Un precio negociado para la compañía (negotiated no nil y del mismo producto) tiene prioridad.
// Si no, el precio mayorista aplica solo si está definido y la cantidad alcanza el mínimo.
func (p *Product) PriceFor(saleType string, qty decimal.Decimal, negotiated *CompanyPrice) decimal.Decimal {
	if negotiated != nil && negotiated.ProductID == p.ID {
		return negotiated.Price
	}
	if saleType == SaleTypeWholesale && p.WholesalePrice.IsPositive() && qty.GreaterThanOrEqual(p.WholesaleMinQty) {
		return p.WholesalePrice
	}
	return p.SellingPrice
}

// NeedsReorder indica si la existencia está en o bajo el nivel de reorden.
func (p *Product) NeedsReorder() bool {
	return p.Quantity.LessThanOrEqual(p.ReorderLevel)
}
