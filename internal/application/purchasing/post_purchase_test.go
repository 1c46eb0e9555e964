package purchasing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestPostPurchase_WithBatch(t *testing.T) {
	f := newFixture(t)
	p := f.product("Paracetamol", "15", "5")
	s := f.supplier("Distribuidora Norte")

	out, err := f.postUseCase().PostPurchase(context.Background(), f.user, dto.PostPurchaseRequest{
		SupplierID: s.ID,
		Items:      []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("10"), Price: d("20"), BatchNumber: "B1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20260502-0001", out.InvoiceNumber)
	assert.True(t, d("200").Equal(out.Total))
	assert.Len(t, out.ItemIDs, 1)

	got := f.getProduct(p.ID)
	assert.True(t, d("15").Equal(got.Quantity), "existencia %s", got.Quantity)
	assert.True(t, d("20").Equal(got.PurchasePrice))

	b := f.batchByNumber(p.ID, "B1")
	require.NotNil(t, b)
	assert.True(t, d("10").Equal(b.Quantity))
	assert.True(t, d("20").Equal(b.PurchasePrice))
}

func TestPostPurchase_RefillsExistingBatchAndLastPriceWins(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "0")
	s := f.supplier("S")
	uc := f.postUseCase()

	_, err := uc.PostPurchase(context.Background(), f.user, dto.PostPurchaseRequest{
		SupplierID: s.ID,
		Items:      []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("4"), Price: d("10"), BatchNumber: "L1"}},
	})
	require.NoError(t, err)
	out, err := uc.PostPurchase(context.Background(), f.user, dto.PostPurchaseRequest{
		SupplierID:    s.ID,
		InvoiceNumber: "FAC-889",
		Items: []dto.PurchaseLineRequest{
			{ProductID: p.ID, Quantity: d("1"), Price: d("12"), BatchNumber: "L1"},
			{ProductID: p.ID, Quantity: d("2"), Price: d("11"), BatchNumber: "L1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "FAC-889", out.InvoiceNumber)

	got := f.getProduct(p.ID)
	assert.True(t, d("7").Equal(got.Quantity))
	assert.True(t, d("11").Equal(got.PurchasePrice))
	assert.True(t, d("7").Equal(f.batchByNumber(p.ID, "L1").Quantity))
}

func TestPostPurchase_PriceFallbackAndDiscount(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "8.50", "0")
	s := f.supplier("S")

	out, err := f.postUseCase().PostPurchase(context.Background(), f.user, dto.PostPurchaseRequest{
		SupplierID:     s.ID,
		DiscountAmount: d("5"),
		Items:          []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("10")}},
	})
	require.NoError(t, err)
	assert.True(t, d("85").Equal(out.Subtotal))
	assert.True(t, d("5").Equal(out.Discount))
	assert.True(t, d("80").Equal(out.Total))
}

func TestPostPurchase_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "1", "0")
	s := f.supplier("S")
	uc := f.postUseCase()

	tests := []struct {
		name string
		in   dto.PostPurchaseRequest
		want error
	}{
		{"sin proveedor", dto.PostPurchaseRequest{Items: []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"sin líneas", dto.PostPurchaseRequest{SupplierID: s.ID}, domain.ErrInvalidInput},
		{"cantidad cero", dto.PostPurchaseRequest{SupplierID: s.ID, Items: []dto.PurchaseLineRequest{{ProductID: p.ID}}}, domain.ErrInvalidInput},
		{"proveedor inexistente", dto.PostPurchaseRequest{SupplierID: "nada", Items: []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("1")}}}, domain.ErrNotFound},
		{"producto inexistente", dto.PostPurchaseRequest{SupplierID: s.ID, Items: []dto.PurchaseLineRequest{{ProductID: "nada", Quantity: d("1")}}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PostPurchase(context.Background(), f.user, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.True(t, f.getProduct(p.ID).Quantity.IsZero())
}

func TestEditPurchase_EqualsFreshPost(t *testing.T) {
	edited := newFixture(t)
	ep := edited.product("A", "10", "3")
	eq := edited.product("B", "5", "0")
	es := edited.supplier("S")
	uc := edited.postUseCase()

	orig, err := uc.PostPurchase(context.Background(), edited.user, dto.PostPurchaseRequest{
		SupplierID: es.ID,
		Items:      []dto.PurchaseLineRequest{{ProductID: ep.ID, Quantity: d("6"), Price: d("10"), BatchNumber: "OLD"}},
	})
	require.NoError(t, err)

	change := func(supplierID, a, b string) dto.PostPurchaseRequest {
		return dto.PostPurchaseRequest{
			SupplierID: supplierID,
			Items: []dto.PurchaseLineRequest{
				{ProductID: a, Quantity: d("2"), Price: d("10")},
				{ProductID: b, Quantity: d("4"), Price: d("5"), BatchNumber: "NEW"},
			},
		}
	}
	out, err := uc.EditPurchase(context.Background(), edited.user, orig.PurchaseID, change(es.ID, ep.ID, eq.ID))
	require.NoError(t, err)
	assert.Equal(t, orig.InvoiceNumber, out.InvoiceNumber)

	fresh := newFixture(t)
	fp := fresh.product("A", "10", "3")
	fq := fresh.product("B", "5", "0")
	fs := fresh.supplier("S")
	want, err := fresh.postUseCase().PostPurchase(context.Background(), fresh.user, change(fs.ID, fp.ID, fq.ID))
	require.NoError(t, err)

	assert.True(t, fresh.getProduct(fp.ID).Quantity.Equal(edited.getProduct(ep.ID).Quantity))
	assert.True(t, fresh.getProduct(fq.ID).Quantity.Equal(edited.getProduct(eq.ID).Quantity))
	assert.True(t, want.Total.Equal(out.Total))
	assert.Nil(t, edited.batchByNumber(ep.ID, "OLD"), "el lote vaciado por la reversión se borra")
	require.NotNil(t, edited.batchByNumber(eq.ID, "NEW"))
	assert.True(t, d("4").Equal(edited.batchByNumber(eq.ID, "NEW").Quantity))

	got, err := uc.Get(context.Background(), orig.PurchaseID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "NEW", got.Items[1].BatchNumber)
}

func TestEditPurchase_KeepsPaidStatusFromPayments(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "0")
	s := f.supplier("S")
	uc := f.postUseCase()

	orig, err := uc.PostPurchase(context.Background(), f.user, dto.PostPurchaseRequest{
		SupplierID: s.ID,
		Items:      []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("10"), Price: d("10")}},
	})
	require.NoError(t, err)
	_, err = NewSupplierPaymentUseCase(f.db, logger.Nop()).Record(context.Background(), f.user, orig.PurchaseID,
		dto.PaymentRequest{Amount: d("100"), PaymentMethod: "cash"})
	require.NoError(t, err)

	_, err = uc.EditPurchase(context.Background(), f.user, orig.PurchaseID, dto.PostPurchaseRequest{
		SupplierID: s.ID,
		Items:      []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("8"), Price: d("10")}},
	})
	require.NoError(t, err)
	got, err := uc.Get(context.Background(), orig.PurchaseID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.True(t, got.BalanceDue.IsZero())
	assert.True(t, d("8").Equal(f.getProduct(p.ID).Quantity))
}

func TestEditPurchase_Errors(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "0")
	s := f.supplier("S")
	in := dto.PostPurchaseRequest{SupplierID: s.ID, Items: []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d("1")}}}

	_, err := f.postUseCase().EditPurchase(context.Background(), f.user, "nada", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	orig, err := f.postUseCase().PostPurchase(context.Background(), f.user, in)
	require.NoError(t, err)
	ret, err := NewReturnUseCase(f.db, f.store, logger.Nop()).Create(context.Background(), f.user, dto.CreateReturnRequest{
		OriginalPurchaseID: orig.PurchaseID,
		Reason:             "dañado",
		Items:              []dto.ReturnLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	_, err = f.postUseCase().EditPurchase(context.Background(), f.user, ret.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
