package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// ReturnUseCase devoluciones a proveedor. Una devolución es una compra con IsReturn ligada a la
// original; nace pendiente y solo al aprobarla se descuentan las existencias.
type ReturnUseCase struct {
	tx    repository.TxRunner
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewReturnUseCase(tx repository.TxRunner, store repository.Store, log *logger.Logger) *ReturnUseCase {
	return &ReturnUseCase{tx: tx, store: store, log: log, now: time.Now}
}

// Create registra la devolución pendiente. Cada producto devuelto debe estar en la compra original,
// el lote indicado debe ser del producto y la suma con devoluciones previas no supera lo comprado.
func (uc *ReturnUseCase) Create(ctx context.Context, userID string, in dto.CreateReturnRequest) (*dto.PurchaseResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la devolución no tiene líneas", domain.ErrInvalidInput)
	}
	for i, l := range in.Items {
		if !l.Quantity.IsPositive() || l.Price.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con cantidad o precio inválido", domain.ErrInvalidInput, i+1)
		}
	}

	var id string
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		orig, err := s.Purchases().GetByIDForUpdate(ctx, in.OriginalPurchaseID)
		if err != nil {
			return err
		}
		if orig == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, in.OriginalPurchaseID)
		}
		if orig.IsReturn {
			return fmt.Errorf("%w: no se devuelve una devolución", domain.ErrInvalidState)
		}
		origItems, err := s.Purchases().ListItems(ctx, orig.ID)
		if err != nil {
			return err
		}
		bought := map[string]decimal.Decimal{}
		lastPrice := map[string]decimal.Decimal{}
		for _, it := range origItems {
			bought[it.ProductID] = bought[it.ProductID].Add(it.Quantity)
			lastPrice[it.ProductID] = it.Price
		}
		// Lo ya devuelto en devoluciones no rechazadas consume el límite.
		returned, err := alreadyReturned(ctx, s, orig.ID)
		if err != nil {
			return err
		}
		for i, l := range in.Items {
			limit, ok := bought[l.ProductID]
			if !ok {
				return fmt.Errorf("%w: línea %d: el producto no está en la compra original", domain.ErrInvalidInput, i+1)
			}
			returned[l.ProductID] = returned[l.ProductID].Add(l.Quantity)
			if returned[l.ProductID].GreaterThan(limit) {
				return fmt.Errorf("%w: línea %d: se devuelve más de lo comprado (%s)", domain.ErrInvalidInput, i+1, limit)
			}
			if l.BatchID == "" {
				continue
			}
			b, err := s.Batches().GetByID(ctx, l.BatchID)
			if err != nil {
				return err
			}
			if b == nil || b.ProductID != l.ProductID {
				return fmt.Errorf("%w: línea %d: el lote %s no pertenece al producto %s", domain.ErrInvalidInput, i+1, l.BatchID, l.ProductID)
			}
		}

		now := uc.now()
		seq, err := s.Sequences().Next(ctx, posting.SeqReturn, now)
		if err != nil {
			return err
		}
		ret := &entity.Purchase{
			ID:                 uuid.New().String(),
			InvoiceNumber:      posting.DailyNumber(posting.PrefixReturn, now, seq),
			SupplierID:         orig.SupplierID,
			UserID:             userID,
			ItemCount:          len(in.Items),
			IsPaid:             true,
			PaymentMethod:      orig.PaymentMethod,
			IsReturn:           true,
			OriginalPurchaseID: orig.ID,
			ReturnReason:       in.Reason,
			ReturnStatus:       entity.ReturnPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		items := make([]*entity.PurchaseItem, len(in.Items))
		total := decimal.Zero
		for i, l := range in.Items {
			price := l.Price
			if price.IsZero() {
				price = lastPrice[l.ProductID]
			}
			price = posting.Money(price)
			items[i] = &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: ret.ID,
				ProductID:  l.ProductID,
				BatchID:    l.BatchID,
				Quantity:   l.Quantity,
				Price:      price,
				Total:      posting.Money(l.Quantity.Mul(price)),
			}
			total = total.Add(items[i].Total)
		}
		ret.Subtotal = total
		ret.Total = total
		if err := s.Purchases().Create(ctx, ret); err != nil {
			return err
		}
		for _, it := range items {
			if err := s.Purchases().CreateItem(ctx, it); err != nil {
				return err
			}
		}
		id = ret.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", id).Str("original_purchase_id", in.OriginalPurchaseID).Msg("devolución registrada")
	return loadPurchase(ctx, uc.store, id)
}

// Process aprueba o rechaza una devolución pendiente. Aprobar descuenta las cantidades de
// productos y lotes, recortando en cero; rechazar no mueve existencias.
func (uc *ReturnUseCase) Process(ctx context.Context, returnID string, in dto.ProcessReturnRequest) (*dto.PurchaseResponse, error) {
	if in.Status != entity.ReturnApproved && in.Status != entity.ReturnRejected {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		ret, err := s.Purchases().GetByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil || !ret.IsReturn {
			return fmt.Errorf("%w: devolución %s", domain.ErrNotFound, returnID)
		}
		if ret.ReturnStatus != entity.ReturnPending {
			return fmt.Errorf("%w: la devolución ya está %s", domain.ErrInvalidState, ret.ReturnStatus)
		}

		if in.Status == entity.ReturnApproved {
			if err := uc.applyReturn(ctx, s, ret); err != nil {
				return err
			}
		}
		ret.ReturnStatus = in.Status
		ret.UpdatedAt = uc.now()
		return s.Purchases().Update(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", returnID).Str("status", in.Status).Msg("devolución procesada")
	return loadPurchase(ctx, uc.store, returnID)
}

func alreadyReturned(ctx context.Context, s repository.Store, purchaseID string) (map[string]decimal.Decimal, error) {
	prev, err := s.Purchases().ListReturns(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	out := map[string]decimal.Decimal{}
	for _, r := range prev {
		if r.ReturnStatus == entity.ReturnRejected {
			continue
		}
		items, err := s.Purchases().ListItems(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			out[it.ProductID] = out[it.ProductID].Add(it.Quantity)
		}
	}
	return out, nil
}

func (uc *ReturnUseCase) applyReturn(ctx context.Context, s repository.Store, ret *entity.Purchase) error {
	items, err := s.Purchases().ListItems(ctx, ret.ID)
	if err != nil {
		return err
	}
	var pids, bids []string
	for _, it := range items {
		pids = append(pids, it.ProductID)
		bids = append(bids, it.BatchID)
	}
	products, err := lockProducts(ctx, s, pids)
	if err != nil {
		return err
	}
	batches := map[string]*entity.Batch{}
	for _, id := range uniqueSorted(bids) {
		b, err := s.Batches().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b != nil {
			batches[id] = b
		}
	}
	for _, it := range items {
		pr := products[it.ProductID]
		var short decimal.Decimal
		pr.Quantity, short = posting.Decrement(pr.Quantity, it.Quantity)
		if short.IsPositive() {
			uc.log.Warn().Str("product", pr.Name).Str("shortfall", short.String()).
				Msg("la devolución supera la existencia; se recorta a cero")
		}
		if b, ok := batches[it.BatchID]; ok && b.ProductID == it.ProductID {
			b.Quantity, _ = posting.Decrement(b.Quantity, it.Quantity)
		}
	}
	for _, id := range uniqueSorted(pids) {
		if err := s.Products().UpdateQuantity(ctx, id, products[id].Quantity); err != nil {
			return err
		}
	}
	for _, id := range uniqueSorted(bids) {
		if b, ok := batches[id]; ok {
			if err := s.Batches().UpdateQuantity(ctx, id, b.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}
