package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

type customerRepo struct{ s *store }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	st, done := r.s.begin()
	defer done()
	c, ok := st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	st, done := r.s.begin()
	defer done()
	c, ok := st.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	st.customers[id] = c
	return nil
}

func (r customerRepo) Search(_ context.Context, query string, limit int) ([]*entity.Customer, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Customer
	for _, c := range st.customers {
		if matches(query, c.Name, c.Phone, c.Email) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, 0), nil
}

func (r customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	st, done := r.s.begin()
	defer done()
	out := make([]*entity.Customer, 0, len(st.customers))
	for _, c := range st.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type supplierRepo struct{ s *store }

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	st.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	st, done := r.s.begin()
	defer done()
	s, ok := st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	st.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) Search(_ context.Context, query string, limit int) ([]*entity.Supplier, error) {
	st, done := r.s.begin()
	defer done()
	var out []*entity.Supplier
	for _, s := range st.suppliers {
		if matches(query, s.Name, s.ContactPerson, s.Phone) {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, 0), nil
}

func (r supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	st, done := r.s.begin()
	defer done()
	out := make([]*entity.Supplier, 0, len(st.suppliers))
	for _, s := range st.suppliers {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type companyRepo struct{ s *store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	st, done := r.s.begin()
	defer done()
	if len(st.companies) > 0 {
		return domain.ErrDuplicate
	}
	st.companies[c.ID] = *c
	return nil
}

func (r companyRepo) GetDefault(_ context.Context) (*entity.Company, error) {
	st, done := r.s.begin()
	defer done()
	for _, c := range st.companies {
		return &c, nil
	}
	return nil, nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	st, done := r.s.begin()
	defer done()
	c, ok := st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	st.companies[c.ID] = *c
	return nil
}

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	st, done := r.s.begin()
	defer done()
	for _, other := range st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	st, done := r.s.begin()
	defer done()
	u, ok := st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	st, done := r.s.begin()
	defer done()
	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	st, done := r.s.begin()
	defer done()
	if _, ok := st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	st.users[u.ID] = *u
	return nil
}

func (r userRepo) Count(_ context.Context) (int, error) {
	st, done := r.s.begin()
	defer done()
	return len(st.users), nil
}
