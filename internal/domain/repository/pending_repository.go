package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PendingSaleRepository define el puerto de persistencia para borradores de venta.
type PendingSaleRepository interface {
	Create(ctx context.Context, p *entity.PendingSale) error
	GetByID(ctx context.Context, id string) (*entity.PendingSale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingSale, error)
	Update(ctx context.Context, p *entity.PendingSale) error
	Delete(ctx context.Context, id string) error
	// ListByUser borradores de un usuario en el estado dado (vacío = todos), más recientes primero.
	ListByUser(ctx context.Context, userID, status string) ([]*entity.PendingSale, error)
}

// PendingPurchaseRepository define el puerto de persistencia para borradores de compra.
type PendingPurchaseRepository interface {
	Create(ctx context.Context, p *entity.PendingPurchase) error
	GetByID(ctx context.Context, id string) (*entity.PendingPurchase, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingPurchase, error)
	Update(ctx context.Context, p *entity.PendingPurchase) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID, status string) ([]*entity.PendingPurchase, error)
}
