package dto

import (
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ReceiptResponse recibo numerado con su contenido congelado.
type ReceiptResponse struct {
	ID            string                `json:"id"`
	ReceiptNumber string                `json:"receipt_number"`
	SaleID        string                `json:"sale_id"`
	IsPrinted     bool                  `json:"is_printed"`
	Content       entity.ReceiptContent `json:"content"`
	CreatedAt     time.Time             `json:"created_at"`
}
