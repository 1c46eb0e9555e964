package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// PostSaleUseCase registra y edita ventas: cabecera, líneas, existencias y saldo del cliente
// en una sola transacción (todo o nada).
type PostSaleUseCase struct {
	tx     repository.TxRunner
	store  repository.Store
	guard  IdempotencyGuard
	poster *poster
	log    *logger.Logger
}

// NewPostSaleUseCase construye el caso de uso. guard puede ser NoopGuard.
func NewPostSaleUseCase(tx repository.TxRunner, store repository.Store, guard IdempotencyGuard, opts Options, log *logger.Logger) *PostSaleUseCase {
	if guard == nil {
		guard = NoopGuard{}
	}
	return &PostSaleUseCase{
		tx:     tx,
		store:  store,
		guard:  guard,
		poster: &poster{opts: opts, log: log, now: time.Now},
		log:    log,
	}
}

// PostSale registra una venta nueva para la tienda shop. Los totales se recalculan desde las líneas.
// Registrar dos veces el mismo input crea dos ventas, salvo que se envíe el mismo IdempotencyKey.
func (uc *PostSaleUseCase) PostSale(ctx context.Context, shop entity.Company, userID string, in dto.PostSaleRequest) (out *dto.PostSaleResponse, err error) {
	if err := validateSale(&in); err != nil {
		return nil, err
	}
	if key := in.IdempotencyKey; key != "" {
		ok, gerr := uc.guard.Acquire(ctx, key)
		switch {
		case gerr != nil:
			uc.log.Warn().Err(gerr).Msg("guardia de idempotencia no disponible; se registra sin ella")
		case !ok:
			return nil, fmt.Errorf("%w: ya se registró una venta con esa clave de idempotencia", domain.ErrDuplicate)
		default:
			defer func() {
				if err != nil {
					if rerr := uc.guard.Release(context.WithoutCancel(ctx), key); rerr != nil {
						uc.log.Warn().Err(rerr).Msg("no se pudo liberar la clave de idempotencia")
					}
				}
			}()
		}
	}

	err = uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		out, err = uc.poster.post(ctx, s, shop, userID, nil, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_number", out.SaleNumber).Str("total", out.Receipt.Total.String()).
		Int("lines", len(out.ItemIDs)).Msg("venta registrada")
	return out, nil
}

// EditSale revierte la venta saleID (existencias, saldo del cliente, líneas) y la vuelve a aplicar
// con el nuevo contenido, en la misma transacción. Conserva número y fecha.
func (uc *PostSaleUseCase) EditSale(ctx context.Context, shop entity.Company, userID, saleID string, in dto.PostSaleRequest) (*dto.PostSaleResponse, error) {
	if err := validateSale(&in); err != nil {
		return nil, err
	}
	in.PendingSaleID = ""

	var out *dto.PostSaleResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		sale, err := s.Sales().GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		old, err := s.Sales().ListItems(ctx, saleID)
		if err != nil {
			return err
		}

		// Bloqueos en el mismo orden que un registro: clientes, productos y lotes de ambas versiones.
		for _, id := range uniqueSorted([]string{sale.CustomerID, in.CustomerID}) {
			if _, err := lockCustomer(ctx, s, id); err != nil {
				return err
			}
		}
		productIDs, batchIDs := lineIDs(in)
		var oldBatchIDs []string
		for _, it := range old {
			productIDs = append(productIDs, it.ProductID)
			oldBatchIDs = append(oldBatchIDs, it.BatchID)
		}
		if _, err := lockProducts(ctx, s, productIDs); err != nil {
			return err
		}
		if err := lockEditBatches(ctx, s, batchIDs, oldBatchIDs); err != nil {
			return err
		}

		if err := uc.poster.reverse(ctx, s, sale); err != nil {
			return err
		}
		out, err = uc.poster.post(ctx, s, shop, userID, sale, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_number", out.SaleNumber).Str("total", out.Receipt.Total.String()).Msg("venta editada")
	return out, nil
}

// lockEditBatches bloquea en un solo recorrido ascendente los lotes nuevos y los de la versión
// anterior. Un lote anterior ya borrado se ignora; uno nuevo inexistente es error.
func lockEditBatches(ctx context.Context, s repository.Store, next, prev []string) error {
	wanted := make(map[string]bool, len(next))
	for _, id := range next {
		wanted[id] = true
	}
	for _, id := range uniqueSorted(append(append([]string(nil), next...), prev...)) {
		b, err := s.Batches().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil && wanted[id] {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

// GetSale devuelve la venta con sus líneas y abonos.
func (uc *PostSaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.store.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.store.Sales().ListItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.store.Payments().ListCustomerPayments(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, payments), nil
}
