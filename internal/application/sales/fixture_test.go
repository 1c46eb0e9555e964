package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	db    *memory.DB
	store repository.Store
	shop  entity.Company
	user  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	return &fixture{
		t:     t,
		db:    db,
		store: db.Store(),
		shop:  entity.Company{ID: "shop-1", Name: "Tienda Central", Currency: "KES"},
		user:  "user-1",
	}
}

func (f *fixture) postUseCase(opts Options) *PostSaleUseCase {
	uc := NewPostSaleUseCase(f.db, f.store, nil, opts, logger.Nop())
	uc.poster.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) product(name, price, qty string) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Barcode:      "B-" + name,
		SellingPrice: d(price),
		Quantity:     d(qty),
		IsActive:     true,
	}
	require.NoError(f.t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) batch(productID, number, qty string) *entity.Batch {
	f.t.Helper()
	b := &entity.Batch{
		ID:          uuid.New().String(),
		ProductID:   productID,
		BatchNumber: number,
		Quantity:    d(qty),
	}
	require.NoError(f.t, f.store.Batches().Create(context.Background(), b))
	return b
}

func (f *fixture) customer(name, balance string) *entity.Customer {
	f.t.Helper()
	c := &entity.Customer{ID: uuid.New().String(), Name: name, Balance: d(balance)}
	require.NoError(f.t, f.store.Customers().Create(context.Background(), c))
	return c
}

func (f *fixture) qty(productID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p.Quantity
}

func (f *fixture) batchQty(batchID string) decimal.Decimal {
	f.t.Helper()
	b, err := f.store.Batches().GetByID(context.Background(), batchID)
	require.NoError(f.t, err)
	require.NotNil(f.t, b)
	return b.Quantity
}

func (f *fixture) customerBalance(id string) decimal.Decimal {
	f.t.Helper()
	c, err := f.store.Customers().GetByID(context.Background(), id)
	require.NoError(f.t, err)
	require.NotNil(f.t, c)
	return c.Balance
}

func (f *fixture) sale(id string) *entity.Sale {
	f.t.Helper()
	s, err := f.store.Sales().GetByID(context.Background(), id)
	require.NoError(f.t, err)
	require.NotNil(f.t, s)
	return s
}

type stubRenderer struct{ calls int }

func (r *stubRenderer) Render(rc *entity.Receipt) ([]byte, error) {
	r.calls++
	return []byte("%PDF-" + rc.ReceiptNumber), nil
}
