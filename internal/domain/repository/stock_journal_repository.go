package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// StockJournalRepository define el puerto de persistencia para el diario de existencias.
type StockJournalRepository interface {
	Create(ctx context.Context, j *entity.StockJournal) error
	// ListByProduct movimientos de un producto (productID vacío = todos), más recientes primero.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockJournal, error)
}
