package sales

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

// CreditPaymentUseCase aplica abonos a ventas a crédito.
type CreditPaymentUseCase struct {
	tx    repository.TxRunner
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewCreditPaymentUseCase(tx repository.TxRunner, store repository.Store, log *logger.Logger) *CreditPaymentUseCase {
	return &CreditPaymentUseCase{tx: tx, store: store, log: log, now: time.Now}
}

// Apply registra un abono: sube amount_paid, baja el saldo de la venta y el del cliente.
// El abono no puede superar el saldo pendiente.
func (uc *CreditPaymentUseCase) Apply(ctx context.Context, userID, saleID string, in dto.PaymentRequest) (*dto.CreditPaymentResponse, error) {
	amount := posting.Money(in.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el abono debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var out *dto.CreditPaymentResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		sale, err := s.Sales().GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if !sale.IsCredit {
			return fmt.Errorf("%w: la venta %s no es a crédito", domain.ErrInvalidState, sale.SaleNumber)
		}
		if amount.GreaterThan(sale.Balance) {
			return fmt.Errorf("%w: abono %s, saldo %s", domain.ErrPaymentExceedsBalance, amount, sale.Balance)
		}
		customer, err := lockCustomer(ctx, s, sale.CustomerID)
		if err != nil {
			return err
		}

		now := uc.now()
		payment := &entity.CustomerPayment{
			ID:            uuid.New().String(),
			SaleID:        sale.ID,
			CustomerID:    sale.CustomerID,
			Amount:        amount,
			PaymentMethod: in.PaymentMethod,
			Reference:     in.Reference,
			Notes:         in.Notes,
			UserID:        userID,
			CreatedAt:     now,
		}
		if err := s.Payments().CreateCustomerPayment(ctx, payment); err != nil {
			return err
		}

		sale.AmountPaid = sale.AmountPaid.Add(amount)
		sale.Balance = posting.Balance(sale.Total, sale.AmountPaid)
		sale.IsPaid = sale.Balance.IsZero()
		sale.UpdatedAt = now
		if err := s.Sales().Update(ctx, sale); err != nil {
			return err
		}

		out = &dto.CreditPaymentResponse{
			PaymentID:   payment.ID,
			SaleID:      sale.ID,
			Amount:      amount,
			AmountPaid:  sale.AmountPaid,
			SaleBalance: sale.Balance,
			IsPaid:      sale.IsPaid,
		}
		if customer != nil {
			next, _ := posting.Decrement(customer.Balance, amount)
			if err := s.Customers().UpdateBalance(ctx, customer.ID, next); err != nil {
				return err
			}
			out.CustomerID = customer.ID
			out.CustomerBalance = next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", saleID).Str("amount", amount.String()).Str("balance", out.SaleBalance.String()).
		Msg("abono aplicado")
	return out, nil
}

// ListOutstanding ventas a crédito con saldo pendiente, opcionalmente de un solo cliente.
func (uc *CreditPaymentUseCase) ListOutstanding(ctx context.Context, customerID string) ([]dto.OutstandingSaleResponse, error) {
	list, err := uc.store.Sales().ListOutstanding(ctx, customerID)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	out := make([]dto.OutstandingSaleResponse, 0, len(list))
	for _, s := range list {
		name := WalkInCustomer
		if s.CustomerID != "" {
			n, ok := names[s.CustomerID]
			if !ok {
				c, err := uc.store.Customers().GetByID(ctx, s.CustomerID)
				if err != nil {
					return nil, err
				}
				if c != nil {
					n = c.Name
				}
				names[s.CustomerID] = n
			}
			if n != "" {
				name = n
			}
		}
		out = append(out, dto.OutstandingSaleResponse{
			SaleID:       s.ID,
			SaleNumber:   s.SaleNumber,
			CustomerID:   s.CustomerID,
			CustomerName: name,
			Total:        s.Total,
			AmountPaid:   s.AmountPaid,
			Balance:      s.Balance,
			CreatedAt:    s.CreatedAt,
		})
	}
	return out, nil
}
