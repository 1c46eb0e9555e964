package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// PostPurchaseUseCase registra y edita compras a proveedores.
type PostPurchaseUseCase struct {
	tx     repository.TxRunner
	store  repository.Store
	poster *poster
	log    *logger.Logger
}

func NewPostPurchaseUseCase(tx repository.TxRunner, store repository.Store, log *logger.Logger) *PostPurchaseUseCase {
	return &PostPurchaseUseCase{
		tx:     tx,
		store:  store,
		poster: &poster{log: log, now: time.Now},
		log:    log,
	}
}

// PostPurchase registra la compra: existencias, lotes y último precio de compra en una transacción.
func (uc *PostPurchaseUseCase) PostPurchase(ctx context.Context, userID string, in dto.PostPurchaseRequest) (*dto.PostPurchaseResponse, error) {
	if err := validatePurchase(&in); err != nil {
		return nil, err
	}
	var out *dto.PostPurchaseResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		out, err = uc.poster.post(ctx, s, userID, nil, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_number", out.InvoiceNumber).Str("total", out.Total.String()).
		Int("lines", out.ItemCount).Msg("compra registrada")
	return out, nil
}

// EditPurchase revierte la compra y la vuelve a aplicar con el nuevo contenido.
// Las devoluciones no se editan.
func (uc *PostPurchaseUseCase) EditPurchase(ctx context.Context, userID, purchaseID string, in dto.PostPurchaseRequest) (*dto.PostPurchaseResponse, error) {
	if err := validatePurchase(&in); err != nil {
		return nil, err
	}
	in.PendingPurchaseID = ""

	var out *dto.PostPurchaseResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		purchase, err := s.Purchases().GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
		}
		if purchase.IsReturn {
			return fmt.Errorf("%w: una devolución no se edita", domain.ErrInvalidState)
		}
		old, err := s.Purchases().ListItems(ctx, purchaseID)
		if err != nil {
			return err
		}
		ids := productIDs(in.Items)
		for _, it := range old {
			ids = append(ids, it.ProductID)
		}
		if _, err := lockProducts(ctx, s, ids); err != nil {
			return err
		}
		if err := uc.poster.reverse(ctx, s, purchase); err != nil {
			return err
		}
		out, err = uc.poster.post(ctx, s, userID, purchase, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_number", out.InvoiceNumber).Str("total", out.Total.String()).Msg("compra editada")
	return out, nil
}

// Get devuelve la compra (o devolución) con líneas, total pagado y saldo.
func (uc *PostPurchaseUseCase) Get(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	return loadPurchase(ctx, uc.store, purchaseID)
}

func loadPurchase(ctx context.Context, s repository.Store, purchaseID string) (*dto.PurchaseResponse, error) {
	p, err := s.Purchases().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
	}
	items, err := s.Purchases().ListItems(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	numbers := map[string]string{}
	for _, it := range items {
		if it.BatchID == "" {
			continue
		}
		if _, ok := numbers[it.BatchID]; ok {
			continue
		}
		b, err := s.Batches().GetByID(ctx, it.BatchID)
		if err != nil {
			return nil, err
		}
		if b != nil {
			numbers[it.BatchID] = b.BatchNumber
		}
	}
	paid, err := s.Payments().SumSupplierPayments(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p, items, numbers, paid)
	if p.IsReturn {
		out.BalanceDue = decimal.Zero // una devolución no se paga
	}
	return out, nil
}
