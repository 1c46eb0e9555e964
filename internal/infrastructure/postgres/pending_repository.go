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

var (
	_ repository.PendingSaleRepository     = (*PendingSaleRepo)(nil)
	_ repository.PendingPurchaseRepository = (*PendingPurchaseRepo)(nil)
)

const pendingSaleColumns = `id, user_id, customer_id, draft, status, completed_sale_id, created_at, updated_at`

// PendingSaleRepo borradores de venta; el borrador se guarda como JSONB versionado.
type PendingSaleRepo struct {
	q Querier
}

// NewPendingSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPendingSaleRepository(q Querier) *PendingSaleRepo {
	return &PendingSaleRepo{q: q}
}

// Create persiste un borrador de venta.
func (r *PendingSaleRepo) Create(ctx context.Context, p *entity.PendingSale) error {
	draft, err := entity.EncodeDraft(p.Draft)
	if err != nil {
		return fmt.Errorf("encode sale draft: %w", err)
	}
	query := `INSERT INTO pending_sales (` + pendingSaleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, p.ID, p.UserID, nullable(p.CustomerID), draft, p.Status,
		nullable(p.CompletedSaleID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert pending sale: %w", err)
	}
	return nil
}

func (r *PendingSaleRepo) getOne(ctx context.Context, where string, arg any) (*entity.PendingSale, error) {
	p, err := scanPendingSale(r.q.QueryRow(ctx, `SELECT `+pendingSaleColumns+` FROM pending_sales WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending sale: %w", err)
	}
	return p, nil
}

// GetByID obtiene un borrador por ID.
func (r *PendingSaleRepo) GetByID(ctx context.Context, id string) (*entity.PendingSale, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate obtiene el borrador y bloquea la fila.
func (r *PendingSaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingSale, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// Update reescribe borrador y estado.
func (r *PendingSaleRepo) Update(ctx context.Context, p *entity.PendingSale) error {
	draft, err := entity.EncodeDraft(p.Draft)
	if err != nil {
		return fmt.Errorf("encode sale draft: %w", err)
	}
	query := `
		UPDATE pending_sales SET customer_id = $2, draft = $3, status = $4, completed_sale_id = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, nullable(p.CustomerID), draft, p.Status, nullable(p.CompletedSaleID), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pending sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el borrador.
func (r *PendingSaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_sales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pending sale: %w", err)
	}
	return nil
}

// ListByUser borradores del usuario, más recientes primero.
func (r *PendingSaleRepo) ListByUser(ctx context.Context, userID, status string) ([]*entity.PendingSale, error) {
	query := `SELECT ` + pendingSaleColumns + ` FROM pending_sales
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list pending sales: %w", err)
	}
	defer rows.Close()
	var out []*entity.PendingSale
	for rows.Next() {
		p, err := scanPendingSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending sale: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPendingSale(row pgx.Row) (*entity.PendingSale, error) {
	var p entity.PendingSale
	var customerID, completedID *string
	var raw []byte
	if err := row.Scan(&p.ID, &p.UserID, &customerID, &raw, &p.Status, &completedID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	draft, err := entity.DecodeSaleDraft(raw)
	if err != nil {
		return nil, err
	}
	p.Draft = draft
	p.CustomerID = fromNullable(customerID)
	p.CompletedSaleID = fromNullable(completedID)
	return &p, nil
}

const pendingPurchaseColumns = `id, draft_number, user_id, supplier_id, draft, subtotal, status, completed_purchase_id,
	created_at, updated_at`

// PendingPurchaseRepo borradores de compra.
type PendingPurchaseRepo struct {
	q Querier
}

// NewPendingPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPendingPurchaseRepository(q Querier) *PendingPurchaseRepo {
	return &PendingPurchaseRepo{q: q}
}

// Create persiste un borrador de compra.
func (r *PendingPurchaseRepo) Create(ctx context.Context, p *entity.PendingPurchase) error {
	draft, err := entity.EncodeDraft(p.Draft)
	if err != nil {
		return fmt.Errorf("encode purchase draft: %w", err)
	}
	query := `INSERT INTO pending_purchases (` + pendingPurchaseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query, p.ID, p.DraftNumber, p.UserID, nullable(p.SupplierID), draft, p.Subtotal, p.Status,
		nullable(p.CompletedPurchaseID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert pending purchase: %w", err)
	}
	return nil
}

func (r *PendingPurchaseRepo) getOne(ctx context.Context, where string, arg any) (*entity.PendingPurchase, error) {
	p, err := scanPendingPurchase(r.q.QueryRow(ctx, `SELECT `+pendingPurchaseColumns+` FROM pending_purchases WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending purchase: %w", err)
	}
	return p, nil
}

// GetByID obtiene un borrador por ID.
func (r *PendingPurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PendingPurchase, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate obtiene el borrador y bloquea la fila.
func (r *PendingPurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingPurchase, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// Update reescribe borrador, subtotal y estado.
func (r *PendingPurchaseRepo) Update(ctx context.Context, p *entity.PendingPurchase) error {
	draft, err := entity.EncodeDraft(p.Draft)
	if err != nil {
		return fmt.Errorf("encode purchase draft: %w", err)
	}
	query := `
		UPDATE pending_purchases SET supplier_id = $2, draft = $3, subtotal = $4, status = $5,
			completed_purchase_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, nullable(p.SupplierID), draft, p.Subtotal, p.Status,
		nullable(p.CompletedPurchaseID), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pending purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el borrador.
func (r *PendingPurchaseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pending purchase: %w", err)
	}
	return nil
}

// ListByUser borradores del usuario, más recientes primero.
func (r *PendingPurchaseRepo) ListByUser(ctx context.Context, userID, status string) ([]*entity.PendingPurchase, error) {
	query := `SELECT ` + pendingPurchaseColumns + ` FROM pending_purchases
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list pending purchases: %w", err)
	}
	defer rows.Close()
	var out []*entity.PendingPurchase
	for rows.Next() {
		p, err := scanPendingPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPendingPurchase(row pgx.Row) (*entity.PendingPurchase, error) {
	var p entity.PendingPurchase
	var supplierID, completedID *string
	var raw []byte
	if err := row.Scan(&p.ID, &p.DraftNumber, &p.UserID, &supplierID, &raw, &p.Subtotal, &p.Status, &completedID,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	draft, err := entity.DecodePurchaseDraft(raw)
	if err != nil {
		return nil, err
	}
	p.Draft = draft
	p.SupplierID = fromNullable(supplierID)
	p.CompletedPurchaseID = fromNullable(completedID)
	return &p, nil
}
