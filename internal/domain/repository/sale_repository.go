package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	DeleteItems(ctx context.Context, saleID string) error
	// ListOutstanding ventas a crédito con saldo > 0; customerID vacío = todos los clientes.
	ListOutstanding(ctx context.Context, customerID string) ([]*entity.Sale, error)
}
