package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para abonos de clientes y pagos a proveedores.
type PaymentRepository interface {
	CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error
	ListCustomerPayments(ctx context.Context, saleID string) ([]*entity.CustomerPayment, error)
	CreateSupplierPayment(ctx context.Context, p *entity.SupplierPayment) error
	ListSupplierPayments(ctx context.Context, purchaseID string) ([]*entity.SupplierPayment, error)
	// SumSupplierPayments total pagado a la compra (cero si no hay pagos).
	SumSupplierPayments(ctx context.Context, purchaseID string) (decimal.Decimal, error)
}
