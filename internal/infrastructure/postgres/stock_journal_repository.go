package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.StockJournalRepository = (*StockJournalRepo)(nil)

const journalColumns = `id, product_id, batch_id, movement_type, quantity, reference, notes, user_id, created_at`

// StockJournalRepo diario de ajustes de existencias.
type StockJournalRepo struct {
	q Querier
}

// NewStockJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockJournalRepository(q Querier) *StockJournalRepo {
	return &StockJournalRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockJournalRepo) Create(ctx context.Context, j *entity.StockJournal) error {
	query := `INSERT INTO stock_journal (` + journalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, j.ID, j.ProductID, nullable(j.BatchID), j.MovementType, j.Quantity, j.Reference,
		j.Notes, nullable(j.UserID), j.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o lote inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert stock journal: %w", err)
	}
	return nil
}

// ListByProduct movimientos más recientes primero.
func (r *StockJournalRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockJournal, error) {
	query := `SELECT ` + journalColumns + ` FROM stock_journal
		WHERE ($1::uuid IS NULL OR product_id = $1::uuid)
		ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, nullable(productID), limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("list stock journal: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockJournal
	for rows.Next() {
		var j entity.StockJournal
		var batchID, userID *string
		if err := rows.Scan(&j.ID, &j.ProductID, &batchID, &j.MovementType, &j.Quantity, &j.Reference, &j.Notes,
			&userID, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock journal: %w", err)
		}
		j.BatchID = fromNullable(batchID)
		j.UserID = fromNullable(userID)
		out = append(out, &j)
	}
	return out, rows.Err()
}
