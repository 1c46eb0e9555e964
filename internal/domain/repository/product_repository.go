package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error
	UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) error
	// Search busca productos activos por nombre o código de barras (sin distinguir mayúsculas).
	Search(ctx context.Context, query string, limit int) ([]*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListByCategory todos los productos de la categoría, ordenados por id.
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error)
	// ListBelowReorder productos activos con existencia en o bajo su nivel de reorden.
	ListBelowReorder(ctx context.Context) ([]*entity.Product, error)
}
