package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras, devoluciones y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	Update(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	DeleteItems(ctx context.Context, purchaseID string) error
	// ListReturns devoluciones registradas contra una compra, en orden de creación.
	ListReturns(ctx context.Context, originalPurchaseID string) ([]*entity.Purchase, error)
}
