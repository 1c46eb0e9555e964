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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, invoice_number, supplier_id, user_id, subtotal, discount_amount, total, item_count,
	is_paid, payment_method, notes, is_return, original_purchase_id, return_reason, return_status, created_at, updated_at`

const purchaseItemColumns = `id, purchase_id, product_id, batch_id, quantity, price, total`

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra o devolución.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.InvoiceNumber, p.SupplierID, nullable(p.UserID), p.Subtotal, p.DiscountAmount, p.Total, p.ItemCount,
		p.IsPaid, p.PaymentMethod, p.Notes, p.IsReturn, nullable(p.OriginalPurchaseID), p.ReturnReason, p.ReturnStatus,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor o compra original inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// Update reescribe la cabecera.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases SET invoice_number = $2, supplier_id = $3, subtotal = $4, discount_amount = $5, total = $6,
			item_count = $7, is_paid = $8, payment_method = $9, notes = $10, return_reason = $11, return_status = $12,
			updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.InvoiceNumber, p.SupplierID, p.Subtotal, p.DiscountAmount, p.Total, p.ItemCount, p.IsPaid,
		p.PaymentMethod, p.Notes, p.ReturnReason, p.ReturnStatus, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var userID, originalID *string
	err := row.Scan(
		&p.ID, &p.InvoiceNumber, &p.SupplierID, &userID, &p.Subtotal, &p.DiscountAmount, &p.Total, &p.ItemCount,
		&p.IsPaid, &p.PaymentMethod, &p.Notes, &p.IsReturn, &originalID, &p.ReturnReason, &p.ReturnStatus,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.UserID = fromNullable(userID)
	p.OriginalPurchaseID = fromNullable(originalID)
	return &p, nil
}

func (r *PurchaseRepo) getOne(ctx context.Context, where string, arg any) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate obtiene la compra y bloquea la fila.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// CreateItem persiste una línea de la compra.
func (r *PurchaseRepo) CreateItem(ctx context.Context, it *entity.PurchaseItem) error {
	query := `INSERT INTO purchase_items (` + purchaseItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, it.ID, it.PurchaseID, it.ProductID, nullable(it.BatchID), it.Quantity, it.Price, it.Total)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o lote inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// ListItems líneas de la compra en orden de registro.
func (r *PurchaseRepo) ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseItemColumns+` FROM purchase_items WHERE purchase_id = $1 ORDER BY position`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		var batchID *string
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &batchID, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		it.BatchID = fromNullable(batchID)
		out = append(out, &it)
	}
	return out, rows.Err()
}

// DeleteItems borra todas las líneas de la compra.
func (r *PurchaseRepo) DeleteItems(ctx context.Context, purchaseID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return nil
}

// ListReturns devoluciones de una compra, de la más antigua a la más reciente.
func (r *PurchaseRepo) ListReturns(ctx context.Context, originalPurchaseID string) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases
		WHERE is_return AND original_purchase_id = $1 ORDER BY created_at, id`, originalPurchaseID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
