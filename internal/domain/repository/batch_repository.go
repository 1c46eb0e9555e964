package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// GetByNumberForUpdate busca el lote de un producto por número y lo bloquea.
	GetByNumberForUpdate(ctx context.Context, productID, batchNumber string) (*entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
	UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	// ListByProduct lista los lotes de un producto; onlyAvailable filtra cantidad > 0.
	ListByProduct(ctx context.Context, productID string, onlyAvailable bool) ([]*entity.Batch, error)
}
