package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func (f *fixture) pendingUseCase() *PendingSaleUseCase {
	uc := NewPendingSaleUseCase(f.db, f.store, Options{}, logger.Nop())
	uc.now = func() time.Time { return fixedNow }
	uc.poster.now = uc.now
	return uc
}

func TestPendingSale_SaveListComplete(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "50", "10")
	uc := f.pendingUseCase()
	ctx := context.Background()

	saved, err := uc.Save(ctx, f.user, "", dto.PostSaleRequest{
		AmountPaid: d("100"),
		Items:      []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2"), Price: d("50")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PendingStatusPending, saved.Status)
	assert.Equal(t, 1, saved.ItemCount)
	assert.True(t, d("100").Equal(saved.Subtotal))
	assert.True(t, d("10").Equal(f.qty(p.ID)), "guardar no mueve existencias")

	list, err := uc.List(ctx, f.user, entity.PendingStatusPending)
	require.NoError(t, err)
	require.Len(t, list, 1)

	out, err := uc.Complete(ctx, f.shop, f.user, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "SALE-20260314-0001", out.SaleNumber)
	assert.True(t, d("8").Equal(f.qty(p.ID)))

	got, err := uc.Get(ctx, f.user, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PendingStatusCompleted, got.Status)
	assert.Equal(t, out.SaleID, got.CompletedSaleID)

	_, err = uc.Complete(ctx, f.shop, f.user, saved.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPendingSale_FailedCompletionStaysPending(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "50", "10")
	uc := f.pendingUseCase()
	ctx := context.Background()

	saved, err := uc.Save(ctx, f.user, "", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: d("1")},
			{ProductID: "borrado", Quantity: d("1")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Complete(ctx, f.shop, f.user, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.Get(ctx, f.user, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PendingStatusPending, got.Status)
	assert.True(t, d("10").Equal(f.qty(p.ID)))
}

func TestPendingSale_OwnershipAndDelete(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "50", "10")
	uc := f.pendingUseCase()
	ctx := context.Background()

	saved, err := uc.Save(ctx, f.user, "", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	_, err = uc.Get(ctx, "otro", saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "otro", saved.ID), domain.ErrNotFound)

	updated, err := uc.Save(ctx, f.user, saved.ID, dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("3"), Price: d("50")}},
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, d("150").Equal(updated.Subtotal))

	require.NoError(t, uc.Delete(ctx, f.user, saved.ID))
	_, err = uc.Get(ctx, f.user, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Save(ctx, f.user, "", dto.PostSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostSale_DeletesReferencedDraft(t *testing.T) {
	f := newFixture(t)
	p := f.product("A", "50", "10")
	pending := f.pendingUseCase()
	ctx := context.Background()

	saved, err := pending.Save(ctx, f.user, "", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	out, err := f.postUseCase(Options{}).PostSale(ctx, f.shop, f.user, dto.PostSaleRequest{
		PendingSaleID: saved.ID,
		AmountPaid:    d("50"),
		Items:         []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.True(t, out.PendingSaleDeleted)

	_, err = pending.Get(ctx, f.user, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
