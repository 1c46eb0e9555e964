package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	Search(ctx context.Context, query string, limit int) ([]*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
