package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

type discountRepo struct{ s *store }

func copyDiscount(d entity.Discount) entity.Discount {
	d.ProductIDs = append([]string(nil), d.ProductIDs...)
	d.CategoryIDs = append([]string(nil), d.CategoryIDs...)
	return d
}

func (r discountRepo) Create(_ context.Context, d *entity.Discount) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.discounts[d.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, id := range d.ProductIDs {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, id := range d.CategoryIDs {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
	}
	st.discounts[d.ID] = copyDiscount(*d)
	return nil
}

func (r discountRepo) GetByID(_ context.Context, id string) (*entity.Discount, error) {
	st, done := r.s.begin()
	defer done()
	d, ok := st.discounts[id]
	if !ok {
		return nil, nil
	}
	d = copyDiscount(d)
	return &d, nil
}

func (r discountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Discount, error) {
	return r.GetByID(ctx, id)
}

func (r discountRepo) SetActive(_ context.Context, id string, active bool) error {
	st, done := r.s.begin()
	defer done()
	d, ok := st.discounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.IsActive = active
	st.discounts[id] = d
	return nil
}

func (r discountRepo) List(_ context.Context) ([]*entity.Discount, error) {
	st, done := r.s.begin()
	defer done()
	out := make([]*entity.Discount, 0, len(st.discounts))
	for _, d := range st.discounts {
		d := copyDiscount(d)
		out = append(out, &d)
	}
	newestFirst(out, func(d *entity.Discount) time.Time { return d.StartDate }, func(d *entity.Discount) string { return d.ID })
	return out, nil
}

type companyPriceRepo struct{ s *store }

func (r companyPriceRepo) Upsert(_ context.Context, cp *entity.CompanyPrice) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.companies[cp.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := st.products[cp.ProductID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range st.companyPrices {
		if other.CompanyID == cp.CompanyID && other.ProductID == cp.ProductID {
			cp.ID = id
			cp.CreatedAt = other.CreatedAt
			break
		}
	}
	st.companyPrices[cp.ID] = *cp
	return nil
}

func (r companyPriceRepo) Get(_ context.Context, companyID, productID string) (*entity.CompanyPrice, error) {
	st, done := r.s.begin()
	defer done()
	for _, cp := range st.companyPrices {
		if cp.CompanyID == companyID && cp.ProductID == productID {
			return &cp, nil
		}
	}
	return nil, nil
}

func (r companyPriceRepo) List(_ context.Context, companyID string) ([]*entity.CompanyPrice, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.CompanyPrice
	for _, cp := range st.companyPrices {
		if companyID == "" || cp.CompanyID == companyID {
			cp := cp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompanyID != out[j].CompanyID {
			return out[i].CompanyID < out[j].CompanyID
		}
		return st.products[out[i].ProductID].Name < st.products[out[j].ProductID].Name
	})
	return out, nil
}

func (r companyPriceRepo) Delete(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.companyPrices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.companyPrices, id)
	return nil
}

type expenseRepo struct{ s *store }

func (r expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.expenses[e.ID]; ok {
		return domain.ErrDuplicate
	}
	st.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	st, done := r.s.begin()
	defer done()
	e, ok := st.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r expenseRepo) Update(_ context.Context, e *entity.Expense) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.expenses[e.ID]; !ok {
		return domain.ErrNotFound
	}
	st.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) Delete(_ context.Context, id string) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.expenses, id)
	return nil
}

func (r expenseRepo) List(_ context.Context, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Expense
	for _, e := range st.expenses {
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		e := e
		out = append(out, &e)
	}
	newestFirst(out, func(e *entity.Expense) time.Time { return e.Date }, func(e *entity.Expense) string { return e.ID })
	return out, nil
}
