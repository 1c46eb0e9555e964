package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

type productRepo struct{ s *store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.products {
		if p.Barcode != "" && other.Barcode == p.Barcode {
			return domain.ErrDuplicate
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	for _, p := range st.products {
		if p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range st.products {
		if id != p.ID && p.Barcode != "" && other.Barcode == p.Barcode {
			return domain.ErrDuplicate
		}
	}
	p.UpdatedAt = time.Now()
	st.products[p.ID] = *p
	return nil
}

func (r productRepo) UpdateQuantity(_ context.Context, id string, qty decimal.Decimal) error {
	st, done := r.s.begin()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = qty
	p.UpdatedAt = time.Now()
	st.products[id] = p
	return nil
}

func (r productRepo) UpdatePurchasePrice(_ context.Context, id string, price decimal.Decimal) error {
	st, done := r.s.begin()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PurchasePrice = price
	p.UpdatedAt = time.Now()
	st.products[id] = p
	return nil
}

func (r productRepo) Search(_ context.Context, query string, limit int) ([]*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Product
	for _, p := range st.products {
		if p.IsActive && matches(query, p.Name, p.Barcode) {
			p := p
			out = append(out, &p)
		}
	}
	sortProducts(out)
	return page(out, limit, 0), nil
}

func (r productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	out := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		p := p
		out = append(out, &p)
	}
	sortProducts(out)
	return page(out, limit, offset), nil
}

func (r productRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Product
	for _, p := range st.products {
		if p.CategoryID == categoryID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r productRepo) ListBelowReorder(_ context.Context) ([]*entity.Product, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Product
	for _, p := range st.products {
		if p.IsActive && p.NeedsReorder() {
			p := p
			out = append(out, &p)
		}
	}
	sortProducts(out)
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].ReorderLevel.Sub(out[i].Quantity)
		dj := out[j].ReorderLevel.Sub(out[j].Quantity)
		return di.GreaterThan(dj)
	})
	return out, nil
}

func sortProducts(ps []*entity.Product) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].ID < ps[j].ID
	})
}

type batchRepo struct{ s *store }

func (r batchRepo) Create(_ context.Context, b *entity.Batch) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.products[b.ProductID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range st.batches {
		if other.ProductID == b.ProductID && other.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicate
		}
	}
	st.batches[b.ID] = *b
	return nil
}

func (r batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	st, done := r.s.begin()
	defer done()
	b, ok := st.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r batchRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r batchRepo) GetByNumberForUpdate(_ context.Context, productID, batchNumber string) (*entity.Batch, error) {
	st, done := r.s.begin()
	defer done()
	for _, b := range st.batches {
		if b.ProductID == productID && b.BatchNumber == batchNumber {
			return &b, nil
		}
	}
	return nil, nil
}

func (r batchRepo) Update(_ context.Context, b *entity.Batch) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range st.batches {
		if id != b.ID && other.ProductID == b.ProductID && other.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicate
		}
	}
	b.UpdatedAt = time.Now()
	st.batches[b.ID] = *b
	return nil
}

func (r batchRepo) UpdateQuantity(_ context.Context, id string, qty decimal.Decimal) error {
	st, done := r.s.begin()
	defer done()
	b, ok := st.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = qty
	b.UpdatedAt = time.Now()
	st.batches[id] = b
	return nil
}

func (r batchRepo) Delete(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	delete(st.batches, id)
	// Igual que ON DELETE SET NULL en las líneas que lo referencian.
	for saleID, items := range st.saleItems {
		for i := range items {
			if items[i].BatchID == id {
				items[i].BatchID = ""
			}
		}
		st.saleItems[saleID] = items
	}
	for purchaseID, items := range st.purchaseItems {
		for i := range items {
			if items[i].BatchID == id {
				items[i].BatchID = ""
			}
		}
		st.purchaseItems[purchaseID] = items
	}
	return nil
}

func (r batchRepo) ListByProduct(_ context.Context, productID string, onlyAvailable bool) ([]*entity.Batch, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Batch
	for _, b := range st.batches {
		if b.ProductID != productID {
			continue
		}
		if onlyAvailable && !b.Quantity.IsPositive() {
			continue
		}
		b := b
		out = append(out, &b)
	}
	// Primero los que vencen antes; sin vencimiento al final.
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case ei == nil && ej == nil:
			return out[i].BatchNumber < out[j].BatchNumber
		case ei == nil:
			return false
		case ej == nil:
			return true
		default:
			return ei.Before(*ej)
		}
	})
	return out, nil
}

type categoryRepo struct{ s *store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	st, done := r.s.begin()
	defer done()
	for _, other := range st.categories {
		if other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	st.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	st, done := r.s.begin()
	defer done()
	c, ok := st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	st, done := r.s.begin()
	defer done()
	out := make([]*entity.Category, 0, len(st.categories))
	for _, c := range st.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
