package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// SupplierPaymentUseCase registra pagos a proveedores contra una compra.
// El saldo del proveedor no se toca: lo pendiente se calcula desde los pagos de cada compra.
type SupplierPaymentUseCase struct {
	tx  repository.TxRunner
	log *logger.Logger
	now func() time.Time
}

func NewSupplierPaymentUseCase(tx repository.TxRunner, log *logger.Logger) *SupplierPaymentUseCase {
	return &SupplierPaymentUseCase{tx: tx, log: log, now: time.Now}
}

// Record registra el pago. Falla si el monto no es positivo o supera lo pendiente de la compra.
func (uc *SupplierPaymentUseCase) Record(ctx context.Context, userID, purchaseID string, in dto.PaymentRequest) (*dto.SupplierPaymentResponse, error) {
	amount := posting.Money(in.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el pago debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var out *dto.SupplierPaymentResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		purchase, err := s.Purchases().GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
		}
		if purchase.IsReturn {
			return fmt.Errorf("%w: una devolución no admite pagos", domain.ErrInvalidState)
		}
		paid, err := s.Payments().SumSupplierPayments(ctx, purchase.ID)
		if err != nil {
			return err
		}
		due := posting.Balance(purchase.Total, paid)
		if amount.GreaterThan(due) {
			return fmt.Errorf("%w: pago %s, pendiente %s", domain.ErrPaymentExceedsBalance, amount, due)
		}

		now := uc.now()
		payment := &entity.SupplierPayment{
			ID:            uuid.New().String(),
			PurchaseID:    purchase.ID,
			SupplierID:    purchase.SupplierID,
			Amount:        amount,
			PaymentMethod: in.PaymentMethod,
			Reference:     in.Reference,
			Notes:         in.Notes,
			UserID:        userID,
			CreatedAt:     now,
		}
		if err := s.Payments().CreateSupplierPayment(ctx, payment); err != nil {
			return err
		}
		paid = paid.Add(amount)
		purchase.IsPaid = paid.GreaterThanOrEqual(purchase.Total)
		purchase.UpdatedAt = now
		if err := s.Purchases().Update(ctx, purchase); err != nil {
			return err
		}
		out = &dto.SupplierPaymentResponse{
			PaymentID:  payment.ID,
			PurchaseID: purchase.ID,
			Amount:     amount,
			TotalPaid:  paid,
			BalanceDue: posting.Balance(purchase.Total, paid),
			IsPaid:     purchase.IsPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_id", purchaseID).Str("amount", amount.String()).Str("balance_due", out.BalanceDue.String()).
		Msg("pago a proveedor registrado")
	return out, nil
}
