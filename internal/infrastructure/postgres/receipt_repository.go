package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

const receiptColumns = `id, receipt_number, sale_id, user_id, content, is_printed, created_at`

// ReceiptRepo recibos con su contenido en JSONB.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste un recibo.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	query := `INSERT INTO receipts (` + receiptColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, rc.ID, rc.ReceiptNumber, rc.SaleID, nullable(rc.UserID), rc.Content, rc.IsPrinted, rc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: venta inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetByID obtiene un recibo por ID.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	rc, err := scanReceipt(r.q.QueryRow(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return rc, nil
}

// ListBySale recibos emitidos para una venta, más recientes primero.
func (r *ReceiptRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE sale_id = $1 ORDER BY created_at DESC, receipt_number DESC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var out []*entity.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// MarkPrinted marca el recibo como impreso.
func (r *ReceiptRepo) MarkPrinted(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE receipts SET is_printed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark receipt printed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var rc entity.Receipt
	var userID *string
	if err := row.Scan(&rc.ID, &rc.ReceiptNumber, &rc.SaleID, &userID, &rc.Content, &rc.IsPrinted, &rc.CreatedAt); err != nil {
		return nil, err
	}
	rc.UserID = fromNullable(userID)
	return &rc, nil
}
