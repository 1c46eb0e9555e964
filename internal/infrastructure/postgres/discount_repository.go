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

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

const discountColumns = `d.id, d.name, d.discount_type, d.amount, d.start_date, d.end_date, d.is_active, d.created_at,
	array(SELECT product_id::text FROM discount_products WHERE discount_id = d.id ORDER BY product_id),
	array(SELECT category_id::text FROM discount_categories WHERE discount_id = d.id ORDER BY category_id)`

// DiscountRepo implementación de DiscountRepository. Create escribe tres tablas: usar dentro de una tx.
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

// Create persiste la campaña y sus vínculos con productos y categorías.
func (r *DiscountRepo) Create(ctx context.Context, d *entity.Discount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO discounts (id, name, discount_type, amount, start_date, end_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Name, d.Type, d.Amount, d.StartDate, d.EndDate, d.IsActive, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert discount: %w", err)
	}
	links := []struct {
		sql string
		ids []string
	}{
		{`INSERT INTO discount_products (discount_id, product_id) SELECT $1, unnest($2::text[])::uuid`, d.ProductIDs},
		{`INSERT INTO discount_categories (discount_id, category_id) SELECT $1, unnest($2::text[])::uuid`, d.CategoryIDs},
	}
	for _, l := range links {
		if len(l.ids) == 0 {
			continue
		}
		if _, err := r.q.Exec(ctx, l.sql, d.ID, l.ids); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto o categoría inexistente", domain.ErrNotFound)
			}
			return fmt.Errorf("insert discount links: %w", err)
		}
	}
	return nil
}

func (r *DiscountRepo) getOne(ctx context.Context, where string, arg any) (*entity.Discount, error) {
	d, err := scanDiscount(r.q.QueryRow(ctx, `SELECT `+discountColumns+` FROM discounts d WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

// GetByID obtiene una campaña por ID.
func (r *DiscountRepo) GetByID(ctx context.Context, id string) (*entity.Discount, error) {
	return r.getOne(ctx, "d.id = $1", id)
}

// GetByIDForUpdate obtiene la campaña y bloquea su fila.
func (r *DiscountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Discount, error) {
	return r.getOne(ctx, "d.id = $1 FOR UPDATE OF d", id)
}

// SetActive fija la bandera de la campaña.
func (r *DiscountRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE discounts SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las campañas por fecha de inicio descendente.
func (r *DiscountRepo) List(ctx context.Context) ([]*entity.Discount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+discountColumns+` FROM discounts d ORDER BY d.start_date DESC, d.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()
	var out []*entity.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDiscount(row pgx.Row) (*entity.Discount, error) {
	var d entity.Discount
	err := row.Scan(&d.ID, &d.Name, &d.Type, &d.Amount, &d.StartDate, &d.EndDate, &d.IsActive, &d.CreatedAt,
		&d.ProductIDs, &d.CategoryIDs)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
