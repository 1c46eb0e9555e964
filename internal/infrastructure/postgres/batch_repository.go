package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, batch_number, quantity, purchase_price, expiry_date, received_date, created_at, updated_at`

// BatchRepo implementación de BatchRepository (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.BatchNumber, b.Quantity, b.PurchasePrice, b.ExpiryDate, b.ReceivedDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate obtiene el lote y bloquea la fila.
func (r *BatchRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// GetByNumberForUpdate obtiene el lote (producto, número) y bloquea la fila.
func (r *BatchRepo) GetByNumberForUpdate(ctx context.Context, productID, batchNumber string) (*entity.Batch, error) {
	return r.getOne(ctx, "product_id = $1 AND batch_number = $2 FOR UPDATE", productID, batchNumber)
}

// Update actualiza número, cantidad, precio y vencimiento.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches SET batch_number = $2, quantity = $3, purchase_price = $4, expiry_date = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.BatchNumber, b.Quantity, b.PurchasePrice, b.ExpiryDate)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija la cantidad del lote.
func (r *BatchRepo) UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE batches SET quantity = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote; las líneas que lo referencian quedan sin lote.
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

// ListByProduct lotes del producto, primero los que vencen antes.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string, onlyAvailable bool) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1 AND (NOT $2 OR quantity > 0)
		ORDER BY expiry_date ASC NULLS LAST, batch_number`
	rows, err := r.q.Query(ctx, query, productID, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var expiry *time.Time
	if err := row.Scan(&b.ID, &b.ProductID, &b.BatchNumber, &b.Quantity, &b.PurchasePrice, &expiry,
		&b.ReceivedDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ExpiryDate = expiry
	return &b, nil
}
