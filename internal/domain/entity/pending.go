package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un borrador pendiente.
const (
	PendingStatusPending   = "pending"
	PendingStatusCompleted = "completed"
	PendingStatusCanceled  = "canceled"
)

// DraftVersion versión actual del formato de borradores. Subirla obliga a migrar o rechazar
// los borradores guardados con otra versión.
const DraftVersion = 1

// SaleDraftLine línea de un borrador de venta.
type SaleDraftLine struct {
	ProductID       string          `json:"product_id"`
	BatchID         string          `json:"batch_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// SaleDraft contenido tipado de una venta pendiente.
type SaleDraft struct {
	Version         int             `json:"version"`
	CustomerID      string          `json:"customer_id,omitempty"`
	SaleType        string          `json:"sale_type"`
	PaymentMethod   string          `json:"payment_method"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	IsCredit        bool            `json:"is_credit"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	PaymentDetails  PaymentDetails  `json:"payment_details"`
	Notes           string          `json:"notes,omitempty"`
	Lines           []SaleDraftLine `json:"lines"`
}

// PurchaseDraftLine línea de un borrador de compra.
type PurchaseDraftLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseDraft contenido tipado de una compra pendiente.
type PurchaseDraft struct {
	Version        int                 `json:"version"`
	SupplierID     string              `json:"supplier_id"`
	InvoiceNumber  string              `json:"invoice_number,omitempty"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	IsPaid         bool                `json:"is_paid"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	Notes          string              `json:"notes,omitempty"`
	Lines          []PurchaseDraftLine `json:"lines"`
}

// PendingSale venta guardada para completarse después.
type PendingSale struct {
	ID              string
	UserID          string
	CustomerID      string
	Draft           SaleDraft
	Status          string
	CompletedSaleID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PendingPurchase compra guardada para completarse después.
type PendingPurchase struct {
	ID                  string
	DraftNumber         string // PEND-YYYYMMDD-NNNN
	UserID              string
	SupplierID          string
	Draft               PurchaseDraft
	Subtotal            decimal.Decimal
	Status              string
	CompletedPurchaseID string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsPending indica si el borrador todavía puede editarse, completarse o borrarse.
func (p *PendingSale) IsPending() bool { return p.Status == PendingStatusPending }

// IsPending indica si el borrador todavía puede completarse, cancelarse o borrarse.
func (p *PendingPurchase) IsPending() bool { return p.Status == PendingStatusPending }

// EncodeDraft serializa un borrador para persistirlo.
func EncodeDraft(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeSaleDraft deserializa un borrador de venta. Versión 0 se trata como la actual
// (borradores escritos antes de versionar); versiones desconocidas se rechazan.
func DecodeSaleDraft(data []byte) (SaleDraft, error) {
	var d SaleDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return SaleDraft{}, fmt.Errorf("borrador de venta ilegible: %w", err)
	}
	if err := checkDraftVersion(&d.Version); err != nil {
		return SaleDraft{}, err
	}
	if d.SaleType == "" {
		d.SaleType = SaleTypeRetail
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = PaymentCash
	}
	return d, nil
}

// DecodePurchaseDraft deserializa un borrador de compra con las mismas reglas de versión.
func DecodePurchaseDraft(data []byte) (PurchaseDraft, error) {
	var d PurchaseDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return PurchaseDraft{}, fmt.Errorf("borrador de compra ilegible: %w", err)
	}
	if err := checkDraftVersion(&d.Version); err != nil {
		return PurchaseDraft{}, err
	}
	return d, nil
}

func checkDraftVersion(v *int) error {
	if *v == 0 {
		*v = DraftVersion
	}
	if *v != DraftVersion {
		return fmt.Errorf("versión de borrador no soportada: %d", *v)
	}
	return nil
}
