package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo abonos de clientes y pagos a proveedores.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// CreateCustomerPayment persiste un abono a una venta.
func (r *PaymentRepo) CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error {
	query := `
		INSERT INTO customer_payments (id, sale_id, customer_id, amount, payment_method, reference, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, p.ID, p.SaleID, nullable(p.CustomerID), p.Amount, p.PaymentMethod, p.Reference,
		p.Notes, nullable(p.UserID), p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: venta inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert customer payment: %w", err)
	}
	return nil
}

// ListCustomerPayments abonos de una venta en orden cronológico.
func (r *PaymentRepo) ListCustomerPayments(ctx context.Context, saleID string) ([]*entity.CustomerPayment, error) {
	query := `
		SELECT id, sale_id, customer_id, amount, payment_method, reference, notes, user_id, created_at
		FROM customer_payments WHERE sale_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list customer payments: %w", err)
	}
	defer rows.Close()
	var out []*entity.CustomerPayment
	for rows.Next() {
		var p entity.CustomerPayment
		var customerID, userID *string
		if err := rows.Scan(&p.ID, &p.SaleID, &customerID, &p.Amount, &p.PaymentMethod, &p.Reference, &p.Notes,
			&userID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer payment: %w", err)
		}
		p.CustomerID = fromNullable(customerID)
		p.UserID = fromNullable(userID)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreateSupplierPayment persiste un pago a proveedor.
func (r *PaymentRepo) CreateSupplierPayment(ctx context.Context, p *entity.SupplierPayment) error {
	query := `
		INSERT INTO supplier_payments (id, purchase_id, supplier_id, amount, payment_method, reference, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, p.ID, p.PurchaseID, nullable(p.SupplierID), p.Amount, p.PaymentMethod, p.Reference,
		p.Notes, nullable(p.UserID), p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: compra inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert supplier payment: %w", err)
	}
	return nil
}

// ListSupplierPayments pagos de una compra en orden cronológico.
func (r *PaymentRepo) ListSupplierPayments(ctx context.Context, purchaseID string) ([]*entity.SupplierPayment, error) {
	query := `
		SELECT id, purchase_id, supplier_id, amount, payment_method, reference, notes, user_id, created_at
		FROM supplier_payments WHERE purchase_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list supplier payments: %w", err)
	}
	defer rows.Close()
	var out []*entity.SupplierPayment
	for rows.Next() {
		var p entity.SupplierPayment
		var supplierID, userID *string
		if err := rows.Scan(&p.ID, &p.PurchaseID, &supplierID, &p.Amount, &p.PaymentMethod, &p.Reference, &p.Notes,
			&userID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier payment: %w", err)
		}
		p.SupplierID = fromNullable(supplierID)
		p.UserID = fromNullable(userID)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SumSupplierPayments total pagado a una compra.
func (r *PaymentRepo) SumSupplierPayments(ctx context.Context, purchaseID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM supplier_payments WHERE purchase_id = $1`, purchaseID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum supplier payments: %w", err)
	}
	return sum, nil
}
