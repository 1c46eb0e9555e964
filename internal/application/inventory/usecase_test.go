package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T, qty string) (*StockUseCase, *memory.DB, *entity.Product) {
	t.Helper()
	db := memory.New()
	p := &entity.Product{ID: uuid.New().String(), Name: "Ibuprofeno", Barcode: "IBU", Quantity: d(qty), IsActive: true}
	require.NoError(t, db.Store().Products().Create(context.Background(), p))
	uc := NewStockUseCase(db, db.Store(), logger.Nop())
	uc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return uc, db, p
}

func quantity(t *testing.T, db *memory.DB, productID string) decimal.Decimal {
	t.Helper()
	p, err := db.Store().Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func TestAddBatch_IncrementsProduct(t *testing.T) {
	uc, db, p := setup(t, "5")
	expired := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	b, err := uc.AddBatch(context.Background(), dto.CreateBatchRequest{
		ProductID: p.ID, BatchNumber: "L1", Quantity: d("12"), PurchasePrice: d("3"), ExpiryDate: &expired,
	})
	require.NoError(t, err)
	assert.True(t, b.IsExpired)
	assert.True(t, d("17").Equal(quantity(t, db, p.ID)))

	_, err = uc.AddBatch(context.Background(), dto.CreateBatchRequest{ProductID: p.ID, BatchNumber: "L1", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.AddBatch(context.Background(), dto.CreateBatchRequest{ProductID: "nada", BatchNumber: "L2", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, d("17").Equal(quantity(t, db, p.ID)))
}

func TestEditBatch_AdjustsProductByDifference(t *testing.T) {
	uc, db, p := setup(t, "0")
	b, err := uc.AddBatch(context.Background(), dto.CreateBatchRequest{ProductID: p.ID, BatchNumber: "L1", Quantity: d("10")})
	require.NoError(t, err)

	newQty := d("4")
	number := "L1-A"
	got, err := uc.EditBatch(context.Background(), b.ID, dto.UpdateBatchRequest{Quantity: &newQty, BatchNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, "L1-A", got.BatchNumber)
	assert.True(t, d("4").Equal(quantity(t, db, p.ID)))

	// El producto bajó por fuera del lote: el ajuste se recorta en cero.
	require.NoError(t, db.Store().Products().UpdateQuantity(context.Background(), p.ID, d("1")))
	zero := d("0")
	_, err = uc.EditBatch(context.Background(), b.ID, dto.UpdateBatchRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.True(t, quantity(t, db, p.ID).IsZero())

	_, err = uc.EditBatch(context.Background(), "nada", dto.UpdateBatchRequest{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		qty      string
		wantProd string
	}{
		{"entrada", entity.MovementIn, "5", "15"},
		{"salida", entity.MovementOut, "4", "6"},
		{"salida mayor a la existencia", entity.MovementOut, "40", "0"},
		{"ajuste positivo", entity.MovementAdjustment, "2.5", "12.5"},
		{"ajuste negativo", entity.MovementAdjustment, "-3", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, db, p := setup(t, "10")
			out, err := uc.RecordMovement(context.Background(), "user-1", dto.StockMovementRequest{
				ProductID: p.ID, MovementType: tt.typ, Quantity: d(tt.qty), Reference: "conteo",
			})
			require.NoError(t, err)
			assert.True(t, d(tt.wantProd).Equal(out.ProductQuantity), "existencia %s", out.ProductQuantity)
			assert.True(t, d(tt.wantProd).Equal(quantity(t, db, p.ID)))

			list, err := uc.ListMovements(context.Background(), p.ID, 10)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, tt.typ, list[0].MovementType)
		})
	}
}

func TestRecordMovement_BatchInLockstep(t *testing.T) {
	uc, db, p := setup(t, "0")
	b, err := uc.AddBatch(context.Background(), dto.CreateBatchRequest{ProductID: p.ID, BatchNumber: "L1", Quantity: d("3")})
	require.NoError(t, err)

	_, err = uc.RecordMovement(context.Background(), "user-1", dto.StockMovementRequest{
		ProductID: p.ID, BatchID: b.ID, MovementType: entity.MovementOut, Quantity: d("5"),
	})
	require.NoError(t, err)
	assert.True(t, quantity(t, db, p.ID).IsZero())

	batches, err := uc.ListBatches(context.Background(), p.ID, false)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Quantity.IsZero())

	available, err := uc.ListBatches(context.Background(), p.ID, true)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestRecordMovement_Validation(t *testing.T) {
	uc, _, p := setup(t, "1")
	cases := []dto.StockMovementRequest{
		{ProductID: p.ID, MovementType: entity.MovementIn, Quantity: d("-1")},
		{ProductID: p.ID, MovementType: entity.MovementOut, Quantity: d("0")},
		{ProductID: p.ID, MovementType: entity.MovementAdjustment, Quantity: d("0")},
		{ProductID: p.ID, MovementType: "transfer", Quantity: d("1")},
	}
	for _, in := range cases {
		_, err := uc.RecordMovement(context.Background(), "user-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err := uc.RecordMovement(context.Background(), "user-1", dto.StockMovementRequest{
		ProductID: p.ID, BatchID: "ajeno", MovementType: entity.MovementIn, Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishmentList(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	for _, p := range []*entity.Product{
		{ID: "a", Name: "A", Barcode: "A", Quantity: d("8"), ReorderLevel: d("10"), PurchasePrice: d("2"), IsActive: true},
		{ID: "b", Name: "B", Barcode: "B", Quantity: d("0"), ReorderLevel: d("20"), PurchasePrice: d("1"), IsActive: true},
		{ID: "c", Name: "C", Barcode: "C", Quantity: d("50"), ReorderLevel: d("10"), IsActive: true},
		{ID: "x", Name: "X", Barcode: "X", Quantity: d("0"), ReorderLevel: d("5"), IsActive: false},
	} {
		require.NoError(t, db.Store().Products().Create(ctx, p))
	}

	list, err := NewReplenishmentUseCase(db.Store().Products()).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, d("30").Equal(list[0].SuggestedOrderQty))
	assert.True(t, d("30").Equal(list[0].EstimatedOrderCost))
	assert.Equal(t, "a", list[1].ProductID)
	assert.True(t, d("7").Equal(list[1].SuggestedOrderQty))
}
