package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func TestProductCreate_AssignsSequentialBarcode(t *testing.T) {
	db := memory.New()
	uc := NewProductUseCase(db, db.Store())
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Arroz", SellingPrice: d("3.50")})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Frijol", SellingPrice: d("4")})
	require.NoError(t, err)
	c, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Sal", Barcode: "7701234"})
	require.NoError(t, err)

	assert.Equal(t, "PRD00000001", a.Barcode)
	assert.Equal(t, "PRD00000002", b.Barcode)
	assert.Equal(t, "7701234", c.Barcode)
	assert.True(t, a.IsActive)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Otra sal", Barcode: "7701234"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByBarcode(ctx, "PRD00000002")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	_, err = uc.GetByBarcode(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCreate_Validation(t *testing.T) {
	db := memory.New()
	uc := NewProductUseCase(db, db.Store())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", SellingPrice: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_KeepsStock(t *testing.T) {
	db := memory.New()
	uc := NewProductUseCase(db, db.Store())
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Leche", Quantity: d("12"), PurchasePrice: d("2"), SellingPrice: d("3")})
	require.NoError(t, err)

	got, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name:         ptr("Leche entera"),
		SellingPrice: ptr(d("3.20")),
		ReorderLevel: ptr(d("20")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Leche entera", got.Name)
	assert.True(t, d("3.20").Equal(got.SellingPrice))
	assert.True(t, d("12").Equal(got.Quantity))
	assert.True(t, got.NeedsReorder)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{WholesalePrice: ptr(d("-5"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDetails_PriceForSaleType(t *testing.T) {
	db := memory.New()
	uc := NewProductUseCase(db, db.Store())
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Name: "Aceite", SellingPrice: d("10"), WholesalePrice: d("8"), WholesaleMinQty: d("6"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Store().Batches().Create(ctx, &entity.Batch{ID: "b1", ProductID: p.ID, BatchNumber: "L1", Quantity: d("4")}))
	require.NoError(t, db.Store().Batches().Create(ctx, &entity.Batch{ID: "b2", ProductID: p.ID, BatchNumber: "L2", Quantity: d("0")}))

	retail, err := uc.Details(ctx, p.ID, "", "", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleTypeRetail, retail.SaleType)
	assert.True(t, d("10").Equal(retail.Price))
	require.Len(t, retail.Batches, 1)
	assert.Equal(t, "L1", retail.Batches[0].BatchNumber)

	few, err := uc.Details(ctx, p.ID, "", entity.SaleTypeWholesale, d("2"))
	require.NoError(t, err)
	assert.True(t, d("10").Equal(few.Price))

	many, err := uc.Details(ctx, p.ID, "", entity.SaleTypeWholesale, d("6"))
	require.NoError(t, err)
	assert.True(t, d("8").Equal(many.Price))

	_, err = uc.Details(ctx, p.ID, "", "mayoreo", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductSearch_ActiveOnly(t *testing.T) {
	db := memory.New()
	uc := NewProductUseCase(db, db.Store())
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Azúcar morena"})
	require.NoError(t, err)
	off, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Azúcar blanca"})
	require.NoError(t, err)
	_, err = uc.Update(ctx, off.ID, dto.UpdateProductRequest{IsActive: ptr(false)})
	require.NoError(t, err)

	found, err := uc.Search(ctx, "AZÚCAR", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Azúcar morena", found[0].Name)

	all, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategory_CreateAndList(t *testing.T) {
	db := memory.New()
	uc := NewCategoryUseCase(db.Store().Categories())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bebidas", list[0].Name)
}

func TestCustomerAndSupplier(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	customers := NewCustomerUseCase(db.Store().Customers())
	suppliers := NewSupplierUseCase(db.Store().Suppliers())

	c, err := customers.Create(ctx, dto.CustomerRequest{Name: "Ana Wanjiru", Phone: "0712", CreditLimit: d("1000")})
	require.NoError(t, err)
	assert.True(t, c.Balance.IsZero())
	_, err = customers.Create(ctx, dto.CustomerRequest{Name: "Ana", CreditLimit: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Wanjiru", got.Name)
	found, err := customers.Search(ctx, "wanj", 5)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	_, err = customers.GetByID(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := suppliers.Create(ctx, dto.SupplierRequest{Name: "Distribuidora Norte", ContactPerson: "Luis"})
	require.NoError(t, err)
	list, err := suppliers.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.ID, list[0].ID)
	_, err = suppliers.Create(ctx, dto.SupplierRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = suppliers.GetByID(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompany_CurrentCreatesDefaultOnce(t *testing.T) {
	db := memory.New()
	uc := NewCompanyUseCase(db.Store().Companies())
	ctx := context.Background()

	first, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCompany().Name, first.Name)
	second, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	updated, err := uc.Update(ctx, dto.UpdateCompanyRequest{Name: ptr("Duka La Mama"), Currency: ptr("usd")})
	require.NoError(t, err)
	assert.Equal(t, "Duka La Mama", updated.Name)
	assert.Equal(t, "USD", updated.Currency)
	assert.Equal(t, first.ID, updated.ID)

	_, err = uc.Update(ctx, dto.UpdateCompanyRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
