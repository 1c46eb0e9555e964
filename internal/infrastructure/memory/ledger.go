package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

type saleRepo struct{ s *store }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	st, done := r.s.begin()
	defer done()
	for _, other := range st.sales {
		if other.ID == sale.ID || other.SaleNumber == sale.SaleNumber {
			return domain.ErrDuplicate
		}
	}
	st.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) Update(_ context.Context, sale *entity.Sale) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	st.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st, done := r.s.begin()
	defer done()
	sale, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (r saleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.sales[item.SaleID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := st.products[item.ProductID]; !ok {
		return domain.ErrNotFound
	}
	st.saleItems[item.SaleID] = append(st.saleItems[item.SaleID], *item)
	return nil
}

func (r saleRepo) ListItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	st, done := r.s.begin()
	defer done()
	items := st.saleItems[saleID]
	out := make([]*entity.SaleItem, len(items))
	for i := range items {
		it := items[i]
		out[i] = &it
	}
	return out, nil
}

func (r saleRepo) DeleteItems(_ context.Context, saleID string) error {
	st, done := r.s.begin()
	defer done()
	delete(st.saleItems, saleID)
	return nil
}

func (r saleRepo) ListOutstanding(_ context.Context, customerID string) ([]*entity.Sale, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Sale
	for _, sale := range st.sales {
		if !sale.IsCredit || !sale.Balance.IsPositive() {
			continue
		}
		if customerID != "" && sale.CustomerID != customerID {
			continue
		}
		sale := sale
		out = append(out, &sale)
	}
	newestFirst(out, func(s *entity.Sale) time.Time { return s.CreatedAt }, func(s *entity.Sale) string { return s.ID })
	return out, nil
}

type purchaseRepo struct{ s *store }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.suppliers[p.SupplierID]; !ok {
		return domain.ErrNotFound
	}
	st.purchases[p.ID] = *p
	return nil
}

func (r purchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	st.purchases[p.ID] = *p
	return nil
}

func (r purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	st, done := r.s.begin()
	defer done()
	p, ok := st.purchases[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r purchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseRepo) CreateItem(_ context.Context, item *entity.PurchaseItem) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.purchases[item.PurchaseID]; !ok {
		return domain.ErrNotFound
	}
	st.purchaseItems[item.PurchaseID] = append(st.purchaseItems[item.PurchaseID], *item)
	return nil
}

func (r purchaseRepo) ListItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	st, done := r.s.begin()
	defer done()
	items := st.purchaseItems[purchaseID]
	out := make([]*entity.PurchaseItem, len(items))
	for i := range items {
		it := items[i]
		out[i] = &it
	}
	return out, nil
}

func (r purchaseRepo) DeleteItems(_ context.Context, purchaseID string) error {
	st, done := r.s.begin()
	defer done()
	delete(st.purchaseItems, purchaseID)
	return nil
}

func (r purchaseRepo) ListReturns(_ context.Context, originalPurchaseID string) ([]*entity.Purchase, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Purchase
	for _, p := range st.purchases {
		if !p.IsReturn || p.OriginalPurchaseID != originalPurchaseID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type pendingSaleRepo struct{ s *store }

func copySaleDraft(p entity.PendingSale) entity.PendingSale {
	p.Draft.Lines = append([]entity.SaleDraftLine(nil), p.Draft.Lines...)
	return p
}

func (r pendingSaleRepo) Create(_ context.Context, p *entity.PendingSale) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.pendingSales[p.ID]; ok {
		return domain.ErrDuplicate
	}
	st.pendingSales[p.ID] = copySaleDraft(*p)
	return nil
}

func (r pendingSaleRepo) GetByID(_ context.Context, id string) (*entity.PendingSale, error) {
	st, done := r.s.begin()
	defer done()
	p, ok := st.pendingSales[id]
	if !ok {
		return nil, nil
	}
	p = copySaleDraft(p)
	return &p, nil
}

func (r pendingSaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingSale, error) {
	return r.GetByID(ctx, id)
}

func (r pendingSaleRepo) Update(_ context.Context, p *entity.PendingSale) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.pendingSales[p.ID]; !ok {
		return domain.ErrNotFound
	}
	st.pendingSales[p.ID] = copySaleDraft(*p)
	return nil
}

func (r pendingSaleRepo) Delete(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	delete(st.pendingSales, id)
	return nil
}

func (r pendingSaleRepo) ListByUser(_ context.Context, userID, status string) ([]*entity.PendingSale, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.PendingSale
	for _, p := range st.pendingSales {
		if p.UserID != userID || (status != "" && p.Status != status) {
			continue
		}
		p := copySaleDraft(p)
		out = append(out, &p)
	}
	newestFirst(out, func(p *entity.PendingSale) time.Time { return p.CreatedAt }, func(p *entity.PendingSale) string { return p.ID })
	return out, nil
}

type pendingPurchaseRepo struct{ s *store }

func copyPurchaseDraft(p entity.PendingPurchase) entity.PendingPurchase {
	p.Draft.Lines = append([]entity.PurchaseDraftLine(nil), p.Draft.Lines...)
	return p
}

func (r pendingPurchaseRepo) Create(_ context.Context, p *entity.PendingPurchase) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.pendingPurchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	st.pendingPurchases[p.ID] = copyPurchaseDraft(*p)
	return nil
}

func (r pendingPurchaseRepo) GetByID(_ context.Context, id string) (*entity.PendingPurchase, error) {
	st, done := r.s.begin()
	defer done()
	p, ok := st.pendingPurchases[id]
	if !ok {
		return nil, nil
	}
	p = copyPurchaseDraft(p)
	return &p, nil
}

func (r pendingPurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PendingPurchase, error) {
	return r.GetByID(ctx, id)
}

func (r pendingPurchaseRepo) Update(_ context.Context, p *entity.PendingPurchase) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.pendingPurchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	st.pendingPurchases[p.ID] = copyPurchaseDraft(*p)
	return nil
}

func (r pendingPurchaseRepo) Delete(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	delete(st.pendingPurchases, id)
	return nil
}

func (r pendingPurchaseRepo) ListByUser(_ context.Context, userID, status string) ([]*entity.PendingPurchase, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.PendingPurchase
	for _, p := range st.pendingPurchases {
		if p.UserID != userID || (status != "" && p.Status != status) {
			continue
		}
		p := copyPurchaseDraft(p)
		out = append(out, &p)
	}
	newestFirst(out, func(p *entity.PendingPurchase) time.Time { return p.CreatedAt }, func(p *entity.PendingPurchase) string { return p.ID })
	return out, nil
}

type paymentRepo struct{ s *store }

func (r paymentRepo) CreateCustomerPayment(_ context.Context, p *entity.CustomerPayment) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.sales[p.SaleID]; !ok {
		return domain.ErrNotFound
	}
	st.customerPayments[p.SaleID] = append(st.customerPayments[p.SaleID], *p)
	return nil
}

func (r paymentRepo) ListCustomerPayments(_ context.Context, saleID string) ([]*entity.CustomerPayment, error) {
	st, done := r.s.begin()
	defer done()
	ps := st.customerPayments[saleID]
	out := make([]*entity.CustomerPayment, len(ps))
	for i := range ps {
		p := ps[i]
		out[i] = &p
	}
	return out, nil
}

func (r paymentRepo) CreateSupplierPayment(_ context.Context, p *entity.SupplierPayment) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.purchases[p.PurchaseID]; !ok {
		return domain.ErrNotFound
	}
	st.supplierPayments[p.PurchaseID] = append(st.supplierPayments[p.PurchaseID], *p)
	return nil
}

func (r paymentRepo) ListSupplierPayments(_ context.Context, purchaseID string) ([]*entity.SupplierPayment, error) {
	st, done := r.s.begin()
	defer done()
	ps := st.supplierPayments[purchaseID]
	out := make([]*entity.SupplierPayment, len(ps))
	for i := range ps {
		p := ps[i]
		out[i] = &p
	}
	return out, nil
}

func (r paymentRepo) SumSupplierPayments(_ context.Context, purchaseID string) (decimal.Decimal, error) {
	st, done := r.s.begin()
	defer done()
	sum := decimal.Zero
	for _, p := range st.supplierPayments[purchaseID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

type receiptRepo struct{ s *store }

func copyReceipt(r entity.Receipt) entity.Receipt {
	r.Content.Lines = append([]entity.ReceiptLine(nil), r.Content.Lines...)
	return r
}

func (r receiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	st, done := r.s.begin()
	defer done()
	for _, other := range st.receipts {
		if other.ID == rc.ID || other.ReceiptNumber == rc.ReceiptNumber {
			return domain.ErrDuplicate
		}
	}
	st.receipts[rc.ID] = copyReceipt(*rc)
	return nil
}

func (r receiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	st, done := r.s.begin()
	defer done()
	rc, ok := st.receipts[id]
	if !ok {
		return nil, nil
	}
	rc = copyReceipt(rc)
	return &rc, nil
}

func (r receiptRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Receipt, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Receipt
	for _, rc := range st.receipts {
		if rc.SaleID == saleID {
			rc := copyReceipt(rc)
			out = append(out, &rc)
		}
	}
	newestFirst(out, func(r *entity.Receipt) time.Time { return r.CreatedAt }, func(r *entity.Receipt) string { return r.ReceiptNumber })
	return out, nil
}

func (r receiptRepo) MarkPrinted(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	rc, ok := st.receipts[id]
	if !ok {
		return domain.ErrNotFound
	}
	rc.IsPrinted = true
	st.receipts[id] = rc
	return nil
}

type journalRepo struct{ s *store }

func (r journalRepo) Create(_ context.Context, j *entity.StockJournal) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.products[j.ProductID]; !ok {
		return domain.ErrNotFound
	}
	st.journal[j.ID] = *j
	return nil
}

func (r journalRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockJournal, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.StockJournal
	for _, j := range st.journal {
		if productID != "" && j.ProductID != productID {
			continue
		}
		j := j
		out = append(out, &j)
	}
	newestFirst(out, func(j *entity.StockJournal) time.Time { return j.CreatedAt }, func(j *entity.StockJournal) string { return j.ID })
	return page(out, limit, 0), nil
}

type sequenceRepo struct{ s *store }

func (r sequenceRepo) Next(_ context.Context, kind string, day time.Time) (int64, error) {
	st, done := r.s.begin()
	defer done()
	key := kind
	if !day.IsZero() {
		key += ":" + day.Format("2006-01-02")
	}
	st.sequences[key]++
	return st.sequences[key], nil
}
