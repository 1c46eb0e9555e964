package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, db *memory.DB, id, barcode string, qty int64) {
	t.Helper()
	err := db.Store().Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Barcode: barcode, Quantity: decimal.NewFromInt(qty), IsActive: true,
	})
	require.NoError(t, err)
}

func TestRun_CommitsOnSuccess(t *testing.T) {
	db := memory.New()
	seedProduct(t, db, "p1", "B1", 5)

	err := db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return s.Products().UpdateQuantity(ctx, "p1", decimal.NewFromInt(3))
	})
	require.NoError(t, err)

	p, err := db.Store().Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(p.Quantity))
}

func TestRun_RollsBackOnError(t *testing.T) {
	db := memory.New()
	seedProduct(t, db, "p1", "B1", 5)
	boom := errors.New("boom")

	err := db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		require.NoError(t, s.Products().UpdateQuantity(ctx, "p1", decimal.Zero))
		require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c1", Name: "Ana"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := db.Store().Products().GetByID(context.Background(), "p1")
	assert.True(t, decimal.NewFromInt(5).Equal(p.Quantity))
	c, _ := db.Store().Customers().GetByID(context.Background(), "c1")
	assert.Nil(t, c)
}

func TestRun_CanceledContext(t *testing.T) {
	db := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := db.Run(ctx, func(context.Context, repository.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProducts_UniqueBarcodeAndSearch(t *testing.T) {
	db := memory.New()
	seedProduct(t, db, "p1", "PRD00000001", 1)
	ctx := context.Background()

	err := db.Store().Products().Create(ctx, &entity.Product{ID: "p2", Name: "Otro", Barcode: "PRD00000001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, db.Store().Products().Create(ctx, &entity.Product{ID: "p3", Name: "AZÚCAR Morena", Barcode: "X", IsActive: true}))
	found, err := db.Store().Products().Search(ctx, "azúcar", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p3", found[0].ID)
}

func TestSequences_DailyAndGlobal(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	seq := db.Store().Sequences()
	day := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	n1, _ := seq.Next(ctx, "sale", day)
	n2, _ := seq.Next(ctx, "sale", day)
	n3, _ := seq.Next(ctx, "sale", day.AddDate(0, 0, 1))
	g1, _ := seq.Next(ctx, "product_barcode", time.Time{})

	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(2), n2)
	assert.Equal(t, int64(1), n3)
	assert.Equal(t, int64(1), g1)
}

func TestBatches_DeleteClearsItemReferences(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	seedProduct(t, db, "p1", "B1", 5)
	s := db.Store()
	require.NoError(t, s.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Proveedor"}))
	require.NoError(t, s.Batches().Create(ctx, &entity.Batch{ID: "b1", ProductID: "p1", BatchNumber: "L1"}))
	require.NoError(t, s.Purchases().Create(ctx, &entity.Purchase{ID: "pu1", SupplierID: "s1"}))
	require.NoError(t, s.Purchases().CreateItem(ctx, &entity.PurchaseItem{ID: "i1", PurchaseID: "pu1", ProductID: "p1", BatchID: "b1"}))

	require.NoError(t, s.Batches().Delete(ctx, "b1"))

	items, err := s.Purchases().ListItems(ctx, "pu1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].BatchID)
}
