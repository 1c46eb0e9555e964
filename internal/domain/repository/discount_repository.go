package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// DiscountRepository persiste campañas de descuento con sus productos y categorías.
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id string) (*entity.Discount, error)
	// GetByIDForUpdate bloquea la campaña hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Discount, error)
	SetActive(ctx context.Context, id string, active bool) error
	// List devuelve todas las campañas, la de inicio más reciente primero.
	List(ctx context.Context) ([]*entity.Discount, error)
}

// CompanyPriceRepository persiste precios negociados por compañía.
type CompanyPriceRepository interface {
	// Upsert crea o reemplaza el precio del par (compañía, producto) y deja en cp el registro guardado.
	Upsert(ctx context.Context, cp *entity.CompanyPrice) error
	Get(ctx context.Context, companyID, productID string) (*entity.CompanyPrice, error)
	// List precios de una compañía (todas si companyID es vacío).
	List(ctx context.Context, companyID string) ([]*entity.CompanyPrice, error)
	Delete(ctx context.Context, id string) error
}
