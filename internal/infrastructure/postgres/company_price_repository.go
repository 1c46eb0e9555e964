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

var _ repository.CompanyPriceRepository = (*CompanyPriceRepo)(nil)

const companyPriceColumns = `cp.id, cp.company_id, cp.product_id, cp.price, cp.created_at, cp.updated_at`

// CompanyPriceRepo implementación de CompanyPriceRepository.
type CompanyPriceRepo struct {
	q Querier
}

// NewCompanyPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyPriceRepository(q Querier) *CompanyPriceRepo {
	return &CompanyPriceRepo{q: q}
}

// Upsert crea o reemplaza el precio del par (compañía, producto).
func (r *CompanyPriceRepo) Upsert(ctx context.Context, cp *entity.CompanyPrice) error {
	query := `
		INSERT INTO company_prices AS cp (id, company_id, product_id, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, product_id) DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at
		RETURNING ` + companyPriceColumns
	saved, err := scanCompanyPrice(r.q.QueryRow(ctx, query,
		cp.ID, cp.CompanyID, cp.ProductID, cp.Price, cp.CreatedAt, cp.UpdatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: compañía o producto inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert company price: %w", err)
	}
	*cp = *saved
	return nil
}

// Get obtiene el precio negociado del par (compañía, producto).
func (r *CompanyPriceRepo) Get(ctx context.Context, companyID, productID string) (*entity.CompanyPrice, error) {
	cp, err := scanCompanyPrice(r.q.QueryRow(ctx,
		`SELECT `+companyPriceColumns+` FROM company_prices cp WHERE cp.company_id = $1 AND cp.product_id = $2`,
		companyID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company price: %w", err)
	}
	return cp, nil
}

// List precios por compañía y nombre de producto.
func (r *CompanyPriceRepo) List(ctx context.Context, companyID string) ([]*entity.CompanyPrice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+companyPriceColumns+`
		FROM company_prices cp JOIN products p ON p.id = cp.product_id
		WHERE $1 = '' OR cp.company_id::text = $1
		ORDER BY cp.company_id, p.name, cp.id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company prices: %w", err)
	}
	defer rows.Close()
	var out []*entity.CompanyPrice
	for rows.Next() {
		cp, err := scanCompanyPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company price: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

// Delete elimina un precio negociado.
func (r *CompanyPriceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM company_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCompanyPrice(row pgx.Row) (*entity.CompanyPrice, error) {
	var cp entity.CompanyPrice
	if err := row.Scan(&cp.ID, &cp.CompanyID, &cp.ProductID, &cp.Price, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
		return nil, err
	}
	return &cp, nil
}
