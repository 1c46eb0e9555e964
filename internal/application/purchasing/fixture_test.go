package purchasing

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

var fixedNow = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	db    *memory.DB
	store repository.Store
	user  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	return &fixture{t: t, db: db, store: db.Store(), user: "user-1"}
}

func (f *fixture) postUseCase() *PostPurchaseUseCase {
	uc := NewPostPurchaseUseCase(f.db, f.store, logger.Nop())
	uc.poster.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) product(name, purchasePrice, qty string) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Barcode:       "B-" + name,
		PurchasePrice: d(purchasePrice),
		SellingPrice:  d(purchasePrice).Mul(d("2")),
		Quantity:      d(qty),
		IsActive:      true,
	}
	require.NoError(f.t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) supplier(name string) *entity.Supplier {
	f.t.Helper()
	s := &entity.Supplier{ID: uuid.New().String(), Name: name}
	require.NoError(f.t, f.store.Suppliers().Create(context.Background(), s))
	return s
}

func (f *fixture) getProduct(id string) *entity.Product {
	f.t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p
}

func (f *fixture) batchByNumber(productID, number string) *entity.Batch {
	f.t.Helper()
	list, err := f.store.Batches().ListByProduct(context.Background(), productID, false)
	require.NoError(f.t, err)
	for _, b := range list {
		if b.BatchNumber == number {
			return b
		}
	}
	return nil
}
