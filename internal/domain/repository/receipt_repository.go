package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para recibos.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Receipt, error)
	MarkPrinted(ctx context.Context, id string) error
}
