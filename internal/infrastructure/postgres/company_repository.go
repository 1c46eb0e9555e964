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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository (una sola fila: la tienda).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste los datos de la tienda.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, tax_number, address, phone, email, currency, receipt_footer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxNumber, c.Address, c.Phone, c.Email, c.Currency,
		c.ReceiptFooter, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetDefault devuelve la primera tienda creada.
func (r *CompanyRepo) GetDefault(ctx context.Context) (*entity.Company, error) {
	return r.getOne(ctx, `ORDER BY created_at LIMIT 1`)
}

// GetByID obtiene una compañía por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *CompanyRepo) getOne(ctx context.Context, tail string, args ...any) (*entity.Company, error) {
	query := `
		SELECT id, name, tax_number, address, phone, email, currency, receipt_footer, created_at, updated_at
		FROM companies ` + tail
	var c entity.Company
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.TaxNumber, &c.Address, &c.Phone, &c.Email,
		&c.Currency, &c.ReceiptFooter, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos de la tienda.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, tax_number = $3, address = $4, phone = $5, email = $6,
			currency = $7, receipt_footer = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxNumber, c.Address, c.Phone, c.Email, c.Currency, c.ReceiptFooter)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
