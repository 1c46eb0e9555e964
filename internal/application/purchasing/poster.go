// Package purchasing registra compras a proveedores, sus borradores, pagos y devoluciones.
package purchasing

import (
	"context"
	"fmt"
	"sort"
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

// poster aplica y revierte compras dentro de una transacción ya abierta.
type poster struct {
	log *logger.Logger
	now func() time.Time
}

func validatePurchase(in *dto.PostPurchaseRequest) error {
	if in.SupplierID == "" {
		return fmt.Errorf("%w: la compra requiere proveedor", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la compra no tiene líneas", domain.ErrInvalidInput)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.DiscountAmount.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	for i, l := range in.Items {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if l.Price.IsNegative() {
			return fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func lockProducts(ctx context.Context, s repository.Store, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range uniqueSorted(ids) {
		p, err := s.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out[id] = p
	}
	return out, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func productIDs(items []dto.PurchaseLineRequest) []string {
	ids := make([]string, len(items))
	for i, l := range items {
		ids[i] = l.ProductID
	}
	return ids
}

type batchKey struct{ productID, number string }

// post aplica la compra: suma existencias, crea o rellena lotes y fija el último precio de compra.
// purchase nil crea una nueva; si no, reescribe esa compra (ya revertida).
func (p *poster) post(ctx context.Context, s repository.Store, userID string, purchase *entity.Purchase, in dto.PostPurchaseRequest) (*dto.PostPurchaseResponse, error) {
	supplier, err := s.Suppliers().GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}
	products, err := lockProducts(ctx, s, productIDs(in.Items))
	if err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, len(in.Items))
	lineTotals := make([]decimal.Decimal, len(in.Items))
	subtotal := decimal.Zero
	for i, l := range in.Items {
		price := l.Price
		if price.IsZero() {
			price = products[l.ProductID].PurchasePrice
		}
		prices[i] = posting.Money(price)
		lineTotals[i] = posting.Money(l.Quantity.Mul(prices[i]))
		subtotal = subtotal.Add(lineTotals[i])
	}
	discount := posting.HeaderDiscount(subtotal, in.DiscountAmount, decimal.Zero)
	total := posting.Money(subtotal.Sub(discount))

	// Lotes por (producto, número) en orden fijo; los que no existen se crean al aplicar.
	var keys []batchKey
	seen := map[batchKey]bool{}
	for _, l := range in.Items {
		k := batchKey{l.ProductID, l.BatchNumber}
		if l.BatchNumber != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID < keys[j].productID
		}
		return keys[i].number < keys[j].number
	})
	batches := make(map[batchKey]*entity.Batch, len(keys))
	for _, k := range keys {
		b, err := s.Batches().GetByNumberForUpdate(ctx, k.productID, k.number)
		if err != nil {
			return nil, err
		}
		if b != nil {
			batches[k] = b
		}
	}

	now := p.now()
	isNew := purchase == nil
	if isNew {
		purchase = &entity.Purchase{ID: uuid.New().String(), UserID: userID, CreatedAt: now}
		purchase.IsPaid = in.IsPaid
	} else {
		paid, err := s.Payments().SumSupplierPayments(ctx, purchase.ID)
		if err != nil {
			return nil, err
		}
		purchase.IsPaid = in.IsPaid || paid.GreaterThanOrEqual(total)
	}
	switch {
	case in.InvoiceNumber != "":
		purchase.InvoiceNumber = in.InvoiceNumber
	case purchase.InvoiceNumber == "":
		seq, err := s.Sequences().Next(ctx, posting.SeqPurchase, now)
		if err != nil {
			return nil, err
		}
		purchase.InvoiceNumber = posting.DailyNumber(posting.PrefixPurchase, now, seq)
	}
	purchase.SupplierID = in.SupplierID
	purchase.Subtotal = posting.Money(subtotal)
	purchase.DiscountAmount = discount
	purchase.Total = total
	purchase.ItemCount = len(in.Items)
	purchase.PaymentMethod = in.PaymentMethod
	purchase.Notes = in.Notes
	purchase.UpdatedAt = now
	if isNew {
		err = s.Purchases().Create(ctx, purchase)
	} else {
		err = s.Purchases().Update(ctx, purchase)
	}
	if err != nil {
		return nil, err
	}

	itemIDs := make([]string, len(in.Items))
	for i, l := range in.Items {
		pr := products[l.ProductID]
		pr.Quantity, _ = posting.Apply(pr.Quantity, l.Quantity)
		pr.PurchasePrice = prices[i]

		batchID := ""
		if l.BatchNumber != "" {
			k := batchKey{l.ProductID, l.BatchNumber}
			b, ok := batches[k]
			if !ok {
				b = &entity.Batch{
					ID:            uuid.New().String(),
					ProductID:     l.ProductID,
					BatchNumber:   l.BatchNumber,
					Quantity:      l.Quantity,
					PurchasePrice: prices[i],
					ExpiryDate:    l.ExpiryDate,
					ReceivedDate:  now,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := s.Batches().Create(ctx, b); err != nil {
					return nil, err
				}
				batches[k] = b
			} else {
				b.Quantity, _ = posting.Apply(b.Quantity, l.Quantity)
				b.PurchasePrice = prices[i]
				if l.ExpiryDate != nil {
					b.ExpiryDate = l.ExpiryDate
				}
				if err := s.Batches().Update(ctx, b); err != nil {
					return nil, err
				}
			}
			batchID = b.ID
		}

		item := &entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  l.ProductID,
			BatchID:    batchID,
			Quantity:   l.Quantity,
			Price:      prices[i],
			Total:      lineTotals[i],
		}
		if err := s.Purchases().CreateItem(ctx, item); err != nil {
			return nil, err
		}
		itemIDs[i] = item.ID
	}
	for _, id := range uniqueSorted(productIDs(in.Items)) {
		pr := products[id]
		if err := s.Products().UpdateQuantity(ctx, id, pr.Quantity); err != nil {
			return nil, err
		}
		if err := s.Products().UpdatePurchasePrice(ctx, id, pr.PurchasePrice); err != nil {
			return nil, err
		}
	}

	if in.PendingPurchaseID != "" {
		pp, err := s.PendingPurchases().GetByIDForUpdate(ctx, in.PendingPurchaseID)
		if err != nil {
			return nil, err
		}
		if pp != nil && pp.UserID == userID && pp.IsPending() {
			pp.Status = entity.PendingStatusCompleted
			pp.CompletedPurchaseID = purchase.ID
			pp.UpdatedAt = now
			if err := s.PendingPurchases().Update(ctx, pp); err != nil {
				return nil, err
			}
		}
	}

	return &dto.PostPurchaseResponse{
		PurchaseID:    purchase.ID,
		InvoiceNumber: purchase.InvoiceNumber,
		Subtotal:      purchase.Subtotal,
		Discount:      purchase.DiscountAmount,
		Total:         purchase.Total,
		ItemCount:     purchase.ItemCount,
		ItemIDs:       itemIDs,
	}, nil
}

// reverse quita las cantidades recibidas de productos y lotes (recortando en cero), borra los
// lotes que quedan vacíos y elimina las líneas. El precio de compra no se restaura.
func (p *poster) reverse(ctx context.Context, s repository.Store, purchase *entity.Purchase) error {
	items, err := s.Purchases().ListItems(ctx, purchase.ID)
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
	batches := make(map[string]*entity.Batch)
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
		pr.Quantity, _ = posting.Decrement(pr.Quantity, it.Quantity)
		if b, ok := batches[it.BatchID]; ok {
			b.Quantity = b.Quantity.Sub(it.Quantity)
		}
	}
	for _, id := range uniqueSorted(pids) {
		if err := s.Products().UpdateQuantity(ctx, id, products[id].Quantity); err != nil {
			return err
		}
	}
	for _, id := range uniqueSorted(bids) {
		b, ok := batches[id]
		if !ok {
			continue
		}
		if !b.Quantity.IsPositive() {
			if err := s.Batches().Delete(ctx, id); err != nil {
				return err
			}
			continue
		}
		if err := s.Batches().UpdateQuantity(ctx, id, b.Quantity); err != nil {
			return err
		}
	}
	return s.Purchases().DeleteItems(ctx, purchase.ID)
}
