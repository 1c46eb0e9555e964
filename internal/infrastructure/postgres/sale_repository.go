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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sale_number, customer_id, user_id, sale_type, subtotal, discount_amount, discount_percent,
	total, payment_method, amount_paid, balance, is_credit, is_paid, is_completed, payment_details, notes,
	created_at, updated_at`

const saleItemColumns = `id, sale_id, product_id, batch_id, quantity, price, discount_amount, discount_percent, total`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SaleNumber, nullable(s.CustomerID), nullable(s.UserID), s.SaleType, s.Subtotal, s.DiscountAmount,
		s.DiscountPercent, s.Total, s.PaymentMethod, s.AmountPaid, s.Balance, s.IsCredit, s.IsPaid, s.IsCompleted,
		s.PaymentDetails, s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update reescribe la cabecera (totales, pago, cliente). El número no cambia.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $2, sale_type = $3, subtotal = $4, discount_amount = $5, discount_percent = $6,
			total = $7, payment_method = $8, amount_paid = $9, balance = $10, is_credit = $11, is_paid = $12,
			is_completed = $13, payment_details = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, nullable(s.CustomerID), s.SaleType, s.Subtotal, s.DiscountAmount, s.DiscountPercent, s.Total,
		s.PaymentMethod, s.AmountPaid, s.Balance, s.IsCredit, s.IsPaid, s.IsCompleted, s.PaymentDetails, s.Notes,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, where string, arg any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate obtiene la venta y bloquea la fila (edición, abonos).
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `INSERT INTO sale_items (` + saleItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.SaleID, it.ProductID, nullable(it.BatchID), it.Quantity, it.Price,
		it.DiscountAmount, it.DiscountPercent, it.Total)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o lote inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// ListItems líneas de la venta en orden de registro.
func (r *SaleRepo) ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var batchID *string
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &batchID, &it.Quantity, &it.Price,
			&it.DiscountAmount, &it.DiscountPercent, &it.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.BatchID = fromNullable(batchID)
		out = append(out, &it)
	}
	return out, rows.Err()
}

// DeleteItems borra todas las líneas de la venta.
func (r *SaleRepo) DeleteItems(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// ListOutstanding ventas a crédito con saldo pendiente.
func (r *SaleRepo) ListOutstanding(ctx context.Context, customerID string) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
		WHERE is_credit AND balance > 0 AND ($1::uuid IS NULL OR customer_id = $1::uuid)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, nullable(customerID))
	if err != nil {
		return nil, fmt.Errorf("list outstanding sales: %w", err)
	}
	defer rows.Close()
	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, userID *string
	err := row.Scan(
		&s.ID, &s.SaleNumber, &customerID, &userID, &s.SaleType, &s.Subtotal, &s.DiscountAmount, &s.DiscountPercent,
		&s.Total, &s.PaymentMethod, &s.AmountPaid, &s.Balance, &s.IsCredit, &s.IsPaid, &s.IsCompleted,
		&s.PaymentDetails, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CustomerID = fromNullable(customerID)
	s.UserID = fromNullable(userID)
	return &s, nil
}
