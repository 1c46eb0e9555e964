package sales

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestPostSale_CashSaleWithChange(t *testing.T) {
	f := newFixture(t)
	p := f.product("Arroz", "100.00", "10")
	uc := f.postUseCase(Options{})

	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		AmountPaid: d("150.00"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2"), Price: d("100.00")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "SALE-20260314-0001", out.SaleNumber)
	assert.Len(t, out.ItemIDs, 1)
	assert.True(t, d("200").Equal(out.Receipt.Total))
	assert.True(t, d("0").Equal(out.Receipt.Balance))
	assert.True(t, d("50").Equal(out.Receipt.Change))
	assert.Equal(t, WalkInCustomer, out.Receipt.CustomerName)
	assert.Equal(t, "Arroz", out.Receipt.Lines[0].Name)

	sale := f.sale(out.SaleID)
	assert.True(t, sale.IsPaid)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
	assert.True(t, d("8").Equal(f.qty(p.ID)), "existencia %s", f.qty(p.ID))
}

func TestPostSale_CreditSaleRaisesCustomerBalance(t *testing.T) {
	f := newFixture(t)
	p := f.product("Aceite", "250.00", "5")
	c := f.customer("Ana", "0")
	uc := f.postUseCase(Options{})

	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		CustomerID: c.ID,
		IsCredit:   true,
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)

	sale := f.sale(out.SaleID)
	assert.True(t, d("500").Equal(sale.Total))
	assert.True(t, d("500").Equal(sale.Balance))
	assert.False(t, sale.IsPaid)
	assert.Equal(t, entity.PaymentCredit, sale.PaymentMethod)
	assert.True(t, d("500").Equal(f.customerBalance(c.ID)))
	assert.Equal(t, "Ana", out.Receipt.CustomerName)
}

func TestPostSale_BalanceLaw(t *testing.T) {
	tests := []struct {
		name        string
		paid        string
		wantBalance string
		wantChange  string
	}{
		{"pago exacto", "300", "0", "0"},
		{"pago parcial", "120.50", "179.50", "0"},
		{"sobrepago", "310", "0", "10"},
		{"sin pago", "0", "300", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.product("Harina", "100", "10")
			uc := f.postUseCase(Options{})

			out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
				AmountPaid: d(tt.paid),
				Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("3")}},
			})
			require.NoError(t, err)

			sale := f.sale(out.SaleID)
			assert.True(t, d(tt.wantBalance).Equal(sale.Balance), "saldo %s", sale.Balance)
			assert.True(t, d(tt.wantChange).Equal(out.Receipt.Change), "vuelto %s", out.Receipt.Change)
			assert.Equal(t, sale.Balance.IsZero(), sale.IsPaid)
		})
	}
}

func TestPostSale_ServerRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	p := f.product("Leche", "60", "10")
	q := f.product("Pan", "40", "10")
	uc := f.postUseCase(Options{})

	fake := d("1")
	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		AmountPaid:      d("1000"),
		DiscountPercent: d("10"),
		Subtotal:        &fake,
		Total:           &fake,
		Items: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: d("2"), Price: d("60")},
			{ProductID: q.ID, Quantity: d("1"), Price: d("40"), DiscountAmount: d("5")},
		},
	})
	require.NoError(t, err)

	sale := f.sale(out.SaleID)
	assert.True(t, d("155").Equal(sale.Subtotal), "subtotal %s", sale.Subtotal)
	assert.True(t, d("15.5").Equal(sale.DiscountAmount))
	assert.True(t, d("139.5").Equal(sale.Total))
}

func TestPostSale_WholesaleCatalogPrice(t *testing.T) {
	f := newFixture(t)
	p := f.product("Azúcar", "100", "50")
	p.WholesalePrice = d("80")
	p.WholesaleMinQty = d("10")
	require.NoError(t, f.store.Products().Update(context.Background(), p))
	uc := f.postUseCase(Options{})

	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		SaleType:   entity.SaleTypeWholesale,
		AmountPaid: d("800"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("10")}},
	})
	require.NoError(t, err)
	assert.True(t, d("800").Equal(out.Receipt.Total))
	assert.True(t, d("80").Equal(out.Receipt.Lines[0].Price))
}

func TestPostSale_NLinesAndNotIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.product("Jabón", "30", "20")
	q := f.product("Sal", "10", "20")
	uc := f.postUseCase(Options{})

	in := dto.PostSaleRequest{
		AmountPaid: d("100"),
		Items: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: d("1")},
			{ProductID: q.ID, Quantity: d("2")},
			{ProductID: p.ID, Quantity: d("3")},
		},
	}
	first, err := uc.PostSale(context.Background(), f.shop, f.user, in)
	require.NoError(t, err)
	second, err := uc.PostSale(context.Background(), f.shop, f.user, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.SaleID, second.SaleID)
	assert.Equal(t, "SALE-20260314-0002", second.SaleNumber)
	assert.Len(t, first.ItemIDs, 3)
	items, err := f.store.Sales().ListItems(context.Background(), first.SaleID)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	assert.True(t, d("12").Equal(f.qty(p.ID)), "jabón %s", f.qty(p.ID))
	assert.True(t, d("16").Equal(f.qty(q.ID)), "sal %s", f.qty(q.ID))
}

func TestPostSale_BatchMovesWithProduct(t *testing.T) {
	f := newFixture(t)
	p := f.product("Vacuna", "500", "10")
	b := f.batch(p.ID, "L-01", "4")
	uc := f.postUseCase(Options{})

	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		AmountPaid: d("1500"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, BatchID: b.ID, Quantity: d("3")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "L-01", out.Receipt.Lines[0].BatchNumber)
	assert.True(t, d("7").Equal(f.qty(p.ID)))
	assert.True(t, d("1").Equal(f.batchQty(b.ID)))
}

func TestPostSale_BatchOfOtherProductRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "1", "10")
	q := f.product("B", "1", "10")
	b := f.batch(q.ID, "L-9", "5")
	uc := f.postUseCase(Options{})

	_, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, BatchID: b.ID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, d("10").Equal(f.qty(p.ID)))
}

func TestPostSale_FailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "5")
	uc := f.postUseCase(Options{})

	_, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: d("2")},
			{ProductID: "no-existe", Quantity: d("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, d("5").Equal(f.qty(p.ID)))
	outstanding, err := f.store.Sales().ListOutstanding(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, outstanding)
}

func TestPostSale_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "5")
	uc := f.postUseCase(Options{})

	tests := []struct {
		name string
		in   dto.PostSaleRequest
	}{
		{"sin líneas", dto.PostSaleRequest{}},
		{"cantidad cero", dto.PostSaleRequest{Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("0")}}}},
		{"precio negativo", dto.PostSaleRequest{Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1"), Price: d("-1")}}}},
		{"pago negativo", dto.PostSaleRequest{AmountPaid: d("-5"), Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}}}},
		{"porcentaje mayor a 100", dto.PostSaleRequest{DiscountPercent: d("101"), Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}}}},
		{"tipo desconocido", dto.PostSaleRequest{SaleType: "vip", Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PostSale(context.Background(), f.shop, f.user, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPostSale_OversellClampsAtZero(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "2")
	b := f.batch(p.ID, "L1", "1")
	uc := f.postUseCase(Options{})

	_, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		AmountPaid: d("50"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, BatchID: b.ID, Quantity: d("5")}},
	})
	require.NoError(t, err)
	assert.True(t, f.qty(p.ID).IsZero())
	assert.True(t, f.batchQty(b.ID).IsZero())
}

func TestPostSale_OversellRejectedWhenStrict(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "2")
	uc := f.postUseCase(Options{RejectOversell: true})

	_, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}, {ProductID: p.ID, Quantity: d("2")}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("2").Equal(f.qty(p.ID)))
}

func TestPostSale_ConcurrentLastUnit(t *testing.T) {
	const buyers = 8
	t.Run("estricto: una sola venta", func(t *testing.T) {
		f := newFixture(t)
		p := f.product("Último", "10", "1")
		uc := f.postUseCase(Options{RejectOversell: true})

		var ok, rejected atomic.Int32
		var g errgroup.Group
		for i := 0; i < buyers; i++ {
			g.Go(func() error {
				_, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
					AmountPaid: d("10"),
					Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
				})
				switch {
				case err == nil:
					ok.Add(1)
				case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
					rejected.Add(1)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(buyers-1), rejected.Load())
		assert.True(t, f.qty(p.ID).IsZero())
	})

	t.Run("recorte: nunca negativo", func(t *testing.T) {
		f := newFixture(t)
		p := f.product("Último", "10", "1")
		uc := f.postUseCase(Options{})

		g, ctx := errgroup.WithContext(context.Background())
		for i := 0; i < buyers; i++ {
			g.Go(func() error {
				_, err := uc.PostSale(ctx, f.shop, f.user, dto.PostSaleRequest{
					AmountPaid: d("10"),
					Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
				})
				return err
			})
		}
		require.NoError(t, g.Wait())
		assert.True(t, f.qty(p.ID).IsZero())
	})
}

func TestEditSale_EqualsFreshPost(t *testing.T) {
	edited := newFixture(t)
	ep := edited.product("A", "10", "20")
	eq := edited.product("B", "25", "20")
	ec := edited.customer("Luis", "100")
	uc := edited.postUseCase(Options{})

	orig, err := uc.PostSale(context.Background(), edited.shop, edited.user, dto.PostSaleRequest{
		CustomerID: ec.ID,
		IsCredit:   true,
		AmountPaid: d("10"),
		Items:      []dto.SaleLineRequest{{ProductID: ep.ID, Quantity: d("5")}},
	})
	require.NoError(t, err)
	assert.True(t, d("140").Equal(edited.customerBalance(ec.ID)))

	change := func(customerID, a, b string) dto.PostSaleRequest {
		return dto.PostSaleRequest{
			CustomerID: customerID,
			IsCredit:   true,
			AmountPaid: d("20"),
			Items: []dto.SaleLineRequest{
				{ProductID: a, Quantity: d("2")},
				{ProductID: b, Quantity: d("3")},
			},
		}
	}
	out, err := uc.EditSale(context.Background(), edited.shop, edited.user, orig.SaleID, change(ec.ID, ep.ID, eq.ID))
	require.NoError(t, err)
	assert.Equal(t, orig.SaleID, out.SaleID)
	assert.Equal(t, orig.SaleNumber, out.SaleNumber)

	fresh := newFixture(t)
	fp := fresh.product("A", "10", "20")
	fq := fresh.product("B", "25", "20")
	fc := fresh.customer("Luis", "100")
	want, err := fresh.postUseCase(Options{}).PostSale(context.Background(), fresh.shop, fresh.user, change(fc.ID, fp.ID, fq.ID))
	require.NoError(t, err)

	assert.True(t, fresh.qty(fp.ID).Equal(edited.qty(ep.ID)))
	assert.True(t, fresh.qty(fq.ID).Equal(edited.qty(eq.ID)))
	assert.True(t, fresh.customerBalance(fc.ID).Equal(edited.customerBalance(ec.ID)))

	got, gotFresh := edited.sale(out.SaleID), fresh.sale(want.SaleID)
	assert.True(t, gotFresh.Total.Equal(got.Total))
	assert.True(t, gotFresh.Balance.Equal(got.Balance))
	assert.Equal(t, gotFresh.IsPaid, got.IsPaid)
	items, err := edited.store.Sales().ListItems(context.Background(), out.SaleID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestEditSale_MovesCreditBetweenCustomers(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "100", "10")
	a := f.customer("A", "0")
	b := f.customer("B", "0")
	uc := f.postUseCase(Options{})

	orig, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		CustomerID: a.ID, IsCredit: true,
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	_, err = uc.EditSale(context.Background(), f.shop, f.user, orig.SaleID, dto.PostSaleRequest{
		CustomerID: b.ID, IsCredit: true,
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.True(t, f.customerBalance(a.ID).IsZero())
	assert.True(t, d("200").Equal(f.customerBalance(b.ID)))
	assert.True(t, d("8").Equal(f.qty(p.ID)))
}

func TestEditSale_NotFound(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "1", "1")
	_, err := f.postUseCase(Options{}).EditSale(context.Background(), f.shop, f.user, "nada", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type memGuard struct{ keys map[string]bool }

func (g *memGuard) Acquire(_ context.Context, key string) (bool, error) {
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, key string) error {
	delete(g.keys, key)
	return nil
}

func TestPostSale_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "10")
	guard := &memGuard{keys: map[string]bool{}}
	uc := NewPostSaleUseCase(f.db, f.store, guard, Options{}, logger.Nop())

	in := dto.PostSaleRequest{
		IdempotencyKey: "abc",
		AmountPaid:     d("10"),
		Items:          []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	}
	_, err := uc.PostSale(context.Background(), f.shop, f.user, in)
	require.NoError(t, err)
	_, err = uc.PostSale(context.Background(), f.shop, f.user, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, d("9").Equal(f.qty(p.ID)))

	failing := in
	failing.IdempotencyKey = "xyz"
	failing.Items = []dto.SaleLineRequest{{ProductID: "no-existe", Quantity: d("1")}}
	_, err = uc.PostSale(context.Background(), f.shop, f.user, failing)
	require.Error(t, err)
	assert.False(t, guard.keys["xyz"], "la clave se libera cuando el registro falla")
}

func TestGetSale_IncludesItemsAndPayments(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "100", "10")
	c := f.customer("C", "0")
	uc := f.postUseCase(Options{})
	out, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		CustomerID: c.ID, IsCredit: true,
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	_, err = NewCreditPaymentUseCase(f.db, f.store, logger.Nop()).Apply(context.Background(), f.user, out.SaleID,
		dto.PaymentRequest{Amount: d("40"), PaymentMethod: entity.PaymentMpesa})
	require.NoError(t, err)

	got, err := uc.GetSale(context.Background(), out.SaleID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	require.Len(t, got.Payments, 1)
	assert.True(t, d("40").Equal(got.Payments[0].Amount))
	assert.True(t, d("60").Equal(got.Balance))

	_, err = uc.GetSale(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditSale_KeepsRecordedPayments(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "250", "10")
	c := f.customer("Ana", "0")
	saleID := f.creditSale(c.ID, p.ID, "2")

	_, err := NewCreditPaymentUseCase(f.db, f.store, logger.Nop()).Apply(context.Background(), f.user, saleID, dto.PaymentRequest{
		Amount: d("200"), PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	_, err = f.postUseCase(Options{}).EditSale(context.Background(), f.shop, f.user, saleID, dto.PostSaleRequest{
		CustomerID: c.ID, IsCredit: true,
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)

	sale := f.sale(saleID)
	assert.True(t, d("200").Equal(sale.AmountPaid))
	assert.True(t, d("300").Equal(sale.Balance))
	assert.False(t, sale.IsPaid)
	assert.True(t, d("300").Equal(f.customerBalance(c.ID)))
	payments, err := f.store.Payments().ListCustomerPayments(context.Background(), saleID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestEditSale_OldBatchRestoredAndLocked(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "10", "20")
	oldBatch := f.batch(p.ID, "L-1", "5")
	newBatch := f.batch(p.ID, "L-2", "5")
	uc := f.postUseCase(Options{})

	orig, err := uc.PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		AmountPaid: d("20"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, BatchID: oldBatch.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.True(t, d("3").Equal(f.batchQty(oldBatch.ID)))

	_, err = uc.EditSale(context.Background(), f.shop, f.user, orig.SaleID, dto.PostSaleRequest{
		AmountPaid: d("10"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, BatchID: newBatch.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.True(t, d("5").Equal(f.batchQty(oldBatch.ID)))
	assert.True(t, d("4").Equal(f.batchQty(newBatch.ID)))
	assert.True(t, d("19").Equal(f.qty(p.ID)))
}

func TestPostSale_CatalogPriceUsesCompanyPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Companies().Create(ctx, &f.shop))
	p := f.product("A", "100", "10")
	require.NoError(t, f.store.CompanyPrices().Upsert(ctx, &entity.CompanyPrice{
		ID: "cp-1", CompanyID: f.shop.ID, ProductID: p.ID, Price: d("80"),
	}))

	out, err := f.postUseCase(Options{}).PostSale(ctx, f.shop, f.user, dto.PostSaleRequest{
		AmountPaid: d("300"),
		Items: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: d("2")},
			{ProductID: p.ID, Quantity: d("1"), Price: d("95")},
		},
	})
	require.NoError(t, err)
	assert.True(t, d("255").Equal(out.Receipt.Total))
	assert.True(t, d("45").Equal(out.Receipt.Change))
}
