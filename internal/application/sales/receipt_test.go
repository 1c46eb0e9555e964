package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestReceipt_GenerateNumbersAndRender(t *testing.T) {
	f := newFixture(t)
	p := f.product("Arroz", "100", "10")
	b := f.batch(p.ID, "L-7", "5")
	c := f.customer("Ana", "0")
	out, err := f.postUseCase(Options{}).PostSale(context.Background(), f.shop, f.user, dto.PostSaleRequest{
		CustomerID: c.ID,
		AmountPaid: d("150"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, BatchID: b.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	renderer := &stubRenderer{}
	uc := NewReceiptUseCase(f.db, f.store, renderer, logger.Nop())
	uc.now = func() time.Time { return fixedNow }

	first, err := uc.Generate(context.Background(), f.shop, f.user, out.SaleID)
	require.NoError(t, err)
	second, err := uc.Generate(context.Background(), f.shop, f.user, out.SaleID)
	require.NoError(t, err)

	assert.Equal(t, "RCP-20260314-0001", first.ReceiptNumber)
	assert.Equal(t, "RCP-20260314-0002", second.ReceiptNumber)
	assert.Equal(t, "Tienda Central", first.Content.Company.Name)
	assert.Equal(t, "Ana", first.Content.CustomerName)
	require.Len(t, first.Content.Lines, 1)
	assert.Equal(t, "L-7", first.Content.Lines[0].BatchNumber)
	assert.True(t, d("50").Equal(first.Content.Change))
	assert.False(t, first.IsPrinted)

	pdf, number, err := uc.RenderPDF(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReceiptNumber, number)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, renderer.calls)

	got, err := uc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrinted)
}

func TestReceipt_UnknownSale(t *testing.T) {
	f := newFixture(t)
	uc := NewReceiptUseCase(f.db, f.store, &stubRenderer{}, logger.Nop())

	_, err := uc.Generate(context.Background(), f.shop, f.user, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.RenderPDF(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
