package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/purchasing"
	"github.com/jhoicas/pos-backoffice/internal/application/sales"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// apiClient envuelve la app con el token del usuario actual.
type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := memory.New()
	store := db.Store()
	log := logger.Nop()
	signer := testSigner(t)
	companies := usecase.NewCompanyUseCase(store.Companies())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(store.Users(), companies, signer),
		UserUC:          usecase.NewUserUseCase(store.Users()),
		CompanyUC:       companies,
		ProductUC:       usecase.NewProductUseCase(db, store),
		CategoryUC:      usecase.NewCategoryUseCase(store.Categories()),
		ExpenseUC:       usecase.NewExpenseUseCase(store.Expenses()),
		CustomerUC:      usecase.NewCustomerUseCase(store.Customers()),
		SupplierUC:      usecase.NewSupplierUseCase(store.Suppliers()),
		StockUC:         inventory.NewStockUseCase(db, store, log),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(store.Products()),
		PostSale:        sales.NewPostSaleUseCase(db, store, nil, sales.Options{}, log),
		PendingSale:     sales.NewPendingSaleUseCase(db, store, sales.Options{}, log),
		CreditPayment:   sales.NewCreditPaymentUseCase(db, store, log),
		Receipts:        sales.NewReceiptUseCase(db, store, pdf.NewReceiptRenderer(language.English), log),
		PostPurchase:    purchasing.NewPostPurchaseUseCase(db, store, log),
		PendingPurchase: purchasing.NewPendingPurchaseUseCase(db, store, log),
		SupplierPayment: purchasing.NewSupplierPaymentUseCase(db, log),
		Returns:         purchasing.NewReturnUseCase(db, store, log),
		Signer:          signer,
		Log:             log,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path string, body any) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out
}

func (a *apiClient) decode(raw []byte, dst any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(raw, dst), string(raw))
}

// login registra (si hace falta) e inicia sesión con el email dado.
func (a *apiClient) login(email string) {
	a.t.Helper()
	a.token = ""
	status, raw := a.do(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: email, Password: "clave-segura"})
	require.Contains(a.t, []int{http.StatusCreated, http.StatusConflict}, status, string(raw))
	status, raw = a.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: "clave-segura"})
	require.Equal(a.t, http.StatusOK, status, string(raw))
	var out dto.LoginResponse
	a.decode(raw, &out)
	a.token = out.Token
}

func (a *apiClient) createProduct(name, qty, price string) dto.ProductResponse {
	a.t.Helper()
	status, raw := a.do(http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: name, Quantity: decimal.RequireFromString(qty), SellingPrice: decimal.RequireFromString(price),
	})
	require.Equal(a.t, http.StatusCreated, status, string(raw))
	var p dto.ProductResponse
	a.decode(raw, &p)
	return p
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e.Code
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newAPI(t)
	status, raw := api.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, raw))
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	api.token = ""
	status, raw := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "admin@shop.test", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, raw))
}

func TestAPI_CashSaleScenario(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	p := api.createProduct("Pan", "10", "100")

	status, raw := api.do(http.MethodPost, "/api/sales", dto.PostSaleRequest{
		PaymentMethod: "cash",
		AmountPaid:    decimal.RequireFromString("150"),
		Items:         []dto.SaleLineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100)}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var sale dto.PostSaleResponse
	api.decode(raw, &sale)
	assert.True(t, decimal.NewFromInt(200).Equal(sale.Receipt.Total))
	assert.True(t, sale.Receipt.Balance.IsZero())
	assert.True(t, decimal.NewFromInt(50).Equal(sale.Receipt.Change))

	status, raw = api.do(http.MethodGet, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var details dto.ProductDetailsResponse
	api.decode(raw, &details)
	assert.True(t, decimal.NewFromInt(8).Equal(details.Quantity))

	status, raw = api.do(http.MethodPost, "/api/sales/"+sale.SaleID+"/receipts", nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	var receipt dto.ReceiptResponse
	api.decode(raw, &receipt)
	assert.Regexp(t, `^RCP-\d{8}-0001$`, receipt.ReceiptNumber)

	req := httptest.NewRequest(http.MethodGet, "/api/receipts/"+receipt.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+api.token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestAPI_CreditSaleAndPayments(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	p := api.createProduct("Saco de maíz", "10", "500")

	status, raw := api.do(http.MethodPost, "/api/customers", dto.CustomerRequest{Name: "Ana"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var customer dto.CustomerResponse
	api.decode(raw, &customer)

	status, raw = api.do(http.MethodPost, "/api/sales", dto.PostSaleRequest{
		CustomerID:    customer.ID,
		PaymentMethod: "credit",
		IsCredit:      true,
		Items:         []dto.SaleLineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var sale dto.PostSaleResponse
	api.decode(raw, &sale)

	status, raw = api.do(http.MethodPost, "/api/sales/"+sale.SaleID+"/payments", dto.PaymentRequest{
		Amount: decimal.NewFromInt(200), PaymentMethod: "cash",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var pay dto.CreditPaymentResponse
	api.decode(raw, &pay)
	assert.True(t, decimal.NewFromInt(300).Equal(pay.SaleBalance))
	assert.True(t, decimal.NewFromInt(300).Equal(pay.CustomerBalance))
	assert.False(t, pay.IsPaid)

	status, raw = api.do(http.MethodPost, "/api/sales/"+sale.SaleID+"/payments", dto.PaymentRequest{
		Amount: decimal.NewFromInt(301), PaymentMethod: "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", errorCode(t, raw))

	status, raw = api.do(http.MethodGet, "/api/sales/credit?customer_id="+customer.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var outstanding []dto.OutstandingSaleResponse
	api.decode(raw, &outstanding)
	assert.Len(t, outstanding, 1)
}

func TestAPI_ErrorMapping(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")

	status, raw := api.do(http.MethodPost, "/api/sales", dto.PostSaleRequest{PaymentMethod: "cash"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	status, raw = api.do(http.MethodGet, "/api/sales/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	status, raw = api.do(http.MethodPost, "/api/sales", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: "no-existe", Quantity: decimal.NewFromInt(1)}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	api.createProduct("Leche", "1", "2")
	status, raw = api.do(http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "Otra", Barcode: "PRD00000001"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(t, raw))
}

func TestAPI_AdminOnlyRoutes(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	p := api.createProduct("Pan", "10", "100")
	status, raw := api.do(http.MethodPost, "/api/sales", dto.PostSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var sale dto.PostSaleResponse
	api.decode(raw, &sale)

	api.login("caja@shop.test")
	edit := dto.PostSaleRequest{Items: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(3)}}}
	status, raw = api.do(http.MethodPut, "/api/sales/"+sale.SaleID, edit)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	api.login("admin@shop.test")
	status, raw = api.do(http.MethodPut, "/api/sales/"+sale.SaleID, edit)
	require.Equal(t, http.StatusOK, status, string(raw))
	var edited dto.PostSaleResponse
	api.decode(raw, &edited)
	assert.Equal(t, sale.SaleNumber, edited.SaleNumber)
}

func TestAPI_PurchaseScenario(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	p := api.createProduct("Harina", "0", "30")

	status, raw := api.do(http.MethodPost, "/api/suppliers", dto.SupplierRequest{Name: "Molinos"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var supplier dto.SupplierResponse
	api.decode(raw, &supplier)

	status, raw = api.do(http.MethodPost, "/api/purchases", dto.PostPurchaseRequest{
		SupplierID: supplier.ID,
		IsPaid:     true,
		Items: []dto.PurchaseLineRequest{{
			ProductID: p.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(20), BatchNumber: "B1",
		}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = api.do(http.MethodGet, "/api/products/"+p.ID+"/batches", nil)
	require.Equal(t, http.StatusOK, status)
	var batches []dto.BatchResponse
	api.decode(raw, &batches)
	require.Len(t, batches, 1)
	assert.Equal(t, "B1", batches[0].BatchNumber)
	assert.True(t, decimal.NewFromInt(10).Equal(batches[0].Quantity))

	status, raw = api.do(http.MethodGet, "/api/products/barcode/"+p.Barcode, nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ProductResponse
	api.decode(raw, &got)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Quantity))
	assert.True(t, decimal.NewFromInt(20).Equal(got.PurchasePrice))
}

func TestAPI_CompanySettings(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	name := "Duka"
	status, raw := api.do(http.MethodPut, "/api/company", dto.UpdateCompanyRequest{Name: &name})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = api.do(http.MethodGet, "/api/company", nil)
	require.Equal(t, http.StatusOK, status)
	var company dto.CompanyResponse
	api.decode(raw, &company)
	assert.Equal(t, "Duka", company.Name)
}

func TestAPI_DiscountAndCompanyPricing(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")
	p := api.createProduct("Aceite", "10", "200")

	status, raw := api.do(http.MethodGet, "/api/company", nil)
	require.Equal(t, http.StatusOK, status)
	var company dto.CompanyResponse
	api.decode(raw, &company)

	today := time.Now().UTC()
	status, raw = api.do(http.MethodPost, "/api/discounts", dto.DiscountRequest{
		Name: "Fin de mes", Type: "percentage", Amount: decimal.NewFromInt(25),
		StartDate: today, EndDate: today.AddDate(0, 0, 3), ProductIDs: []string{p.ID},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var discount dto.DiscountResponse
	api.decode(raw, &discount)
	assert.Equal(t, 1, discount.Repriced)

	status, raw = api.do(http.MethodGet, "/api/products/"+p.ID+"/pricing", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var pricing dto.ProductPricingResponse
	api.decode(raw, &pricing)
	assert.True(t, decimal.NewFromInt(150).Equal(pricing.FinalPrice))
	assert.False(t, pricing.CompanyPrice)

	status, raw = api.do(http.MethodPut, "/api/company-prices", dto.CompanyPriceRequest{
		CompanyID: company.ID, ProductID: p.ID, Price: decimal.NewFromInt(140),
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = api.do(http.MethodGet, "/api/products/"+p.ID+"/pricing", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	api.decode(raw, &pricing)
	assert.True(t, decimal.NewFromInt(140).Equal(pricing.FinalPrice))
	assert.True(t, pricing.CompanyPrice)

	status, raw = api.do(http.MethodPost, "/api/discounts/"+discount.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = api.do(http.MethodGet, "/api/discounts?status=inactive", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var inactive []dto.DiscountResponse
	api.decode(raw, &inactive)
	require.Len(t, inactive, 1)
	assert.Equal(t, discount.ID, inactive[0].ID)
}

func TestAPI_Expenses(t *testing.T) {
	api := newAPI(t)
	api.login("admin@shop.test")

	status, raw := api.do(http.MethodPost, "/api/expenses", dto.ExpenseRequest{
		Date: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Category: "utilities", Description: "Luz", Amount: decimal.NewFromInt(1200),
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var expense dto.ExpenseResponse
	api.decode(raw, &expense)

	status, raw = api.do(http.MethodPost, "/api/expenses", dto.ExpenseRequest{
		Date: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Category: "comida", Amount: decimal.NewFromInt(1),
	})
	assert.Equal(t, http.StatusBadRequest, status, string(raw))

	status, raw = api.do(http.MethodGet, "/api/expenses?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var list dto.ExpenseListResponse
	api.decode(raw, &list)
	require.Len(t, list.Expenses, 1)
	assert.True(t, decimal.NewFromInt(1200).Equal(list.Total))

	status, _ = api.do(http.MethodDelete, "/api/expenses/"+expense.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, raw = api.do(http.MethodGet, "/api/expenses/"+expense.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}
