package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para los datos de la tienda.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	// GetDefault devuelve la única tienda configurada, o (nil, nil) si aún no existe.
	GetDefault(ctx context.Context) (*entity.Company, error)
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}
