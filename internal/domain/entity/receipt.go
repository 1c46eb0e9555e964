package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptCompany datos de la tienda congelados en el recibo.
type ReceiptCompany struct {
	Name      string `json:"name"`
	TaxNumber string `json:"tax_number,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Footer    string `json:"footer,omitempty"`
}

// ReceiptLine línea del recibo con nombre y lote resueltos.
type ReceiptLine struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// ReceiptContent contenido de un recibo de venta. Se usa como respuesta del registro
// y como instantánea inmutable en Receipt.
type ReceiptContent struct {
	Company        ReceiptCompany  `json:"company"`
	SaleID         string          `json:"sale_id"`
	SaleNumber     string          `json:"sale_number"`
	Date           time.Time       `json:"date"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	SaleType       string          `json:"sale_type"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails PaymentDetails  `json:"payment_details"`
	Lines          []ReceiptLine   `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Change         decimal.Decimal `json:"change"`
	Balance        decimal.Decimal `json:"balance"`
	IsCredit       bool            `json:"is_credit"`
}

// Receipt recibo numerado de una venta (RCP-YYYYMMDD-NNNN). Content no cambia tras crearse.
type Receipt struct {
	ID            string
	ReceiptNumber string
	SaleID        string
	UserID        string
	Content       ReceiptContent
	IsPrinted     bool
	CreatedAt     time.Time
}
