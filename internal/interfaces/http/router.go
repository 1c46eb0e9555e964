package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/purchasing"
	"github.com/jhoicas/pos-backoffice/internal/application/sales"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	CompanyUC       *usecase.CompanyUseCase
	ProductUC       *usecase.ProductUseCase
	CategoryUC      *usecase.CategoryUseCase
	ExpenseUC       *usecase.ExpenseUseCase
	CustomerUC      *usecase.CustomerUseCase
	SupplierUC      *usecase.SupplierUseCase
	StockUC         *inventory.StockUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	PostSale        *sales.PostSaleUseCase
	PendingSale     *sales.PendingSaleUseCase
	CreditPayment   *sales.CreditPaymentUseCase
	Receipts        *sales.ReceiptUseCase
	PostPurchase    *purchasing.PostPurchaseUseCase
	PendingPurchase *purchasing.PendingPurchaseUseCase
	SupplierPayment *purchasing.SupplierPaymentUseCase
	Returns         *purchasing.ReturnUseCase
	Signer          *jwt.Signer
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")
	adminOnly := RequireRole(entity.RoleAdmin)
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Signer, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); la tienda se resuelve una vez por petición.
	protected := api.Group("/", AuthMiddleware(deps.Signer), ShopMiddleware(deps.CompanyUC, log))
	protected.Get("/auth/me", authHandler.Me)

	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", adminOnly, companyHandler.Update)

	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC, log)
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReplenishmentUC, log)
	pricingHandler := NewPricingHandler(deps.ProductUC, log)
	protected.Post("/categories", productHandler.CreateCategory)
	protected.Get("/categories", productHandler.ListCategories)

	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id/batches", inventoryHandler.ListBatches)
	products.Get("/:id/pricing", pricingHandler.Pricing)
	products.Get("/:id", productHandler.Details)
	products.Put("/:id", productHandler.Update)

	discounts := protected.Group("/discounts")
	discounts.Post("/", adminOnly, pricingHandler.AddDiscount)
	discounts.Get("/", pricingHandler.ListDiscounts)
	discounts.Post("/:id/toggle", adminOnly, pricingHandler.ToggleDiscount)
	companyPrices := protected.Group("/company-prices")
	companyPrices.Put("/", adminOnly, pricingHandler.SetCompanyPrice)
	companyPrices.Get("/", pricingHandler.ListCompanyPrices)
	companyPrices.Delete("/:id", adminOnly, pricingHandler.DeleteCompanyPrice)

	protected.Post("/batches", inventoryHandler.AddBatch)
	protected.Put("/batches/:id", inventoryHandler.EditBatch)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/reorder", inventoryHandler.GetReplenishmentList)

	partyHandler := NewPartyHandler(deps.CustomerUC, deps.SupplierUC, log)
	customers := protected.Group("/customers")
	customers.Post("/", partyHandler.CreateCustomer)
	customers.Get("/", partyHandler.ListCustomers)
	customers.Get("/search", partyHandler.SearchCustomers)
	customers.Get("/:id", partyHandler.GetCustomer)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", partyHandler.CreateSupplier)
	suppliers.Get("/", partyHandler.ListSuppliers)
	suppliers.Get("/search", partyHandler.SearchSuppliers)
	suppliers.Get("/:id", partyHandler.GetSupplier)

	saleHandler := NewSaleHandler(deps.PostSale, deps.PendingSale, deps.CreditPayment, deps.Receipts, log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.PostSale)
	salesGroup.Get("/credit", saleHandler.ListCredit)
	salesGroup.Get("/:id", saleHandler.GetSale)
	salesGroup.Put("/:id", adminOnly, saleHandler.EditSale)
	salesGroup.Post("/:id/payments", saleHandler.ApplyPayment)
	salesGroup.Post("/:id/receipts", saleHandler.GenerateReceipt)
	protected.Get("/receipts/:id", saleHandler.GetReceipt)
	protected.Get("/receipts/:id/pdf", saleHandler.ReceiptPDF)

	pendingSales := protected.Group("/pending-sales")
	pendingSales.Post("/", saleHandler.SavePending)
	pendingSales.Get("/", saleHandler.ListPending)
	pendingSales.Get("/:id", saleHandler.GetPending)
	pendingSales.Put("/:id", saleHandler.SavePending)
	pendingSales.Delete("/:id", saleHandler.DeletePending)
	pendingSales.Post("/:id/complete", saleHandler.CompletePending)

	purchaseHandler := NewPurchaseHandler(deps.PostPurchase, deps.PendingPurchase, deps.SupplierPayment, deps.Returns, log)
	purchases := protected.Group("/purchases")
	purchases.Post("/", purchaseHandler.PostPurchase)
	purchases.Post("/returns", purchaseHandler.CreateReturn)
	purchases.Post("/returns/:id/process", adminOnly, purchaseHandler.ProcessReturn)
	purchases.Get("/:id", purchaseHandler.GetPurchase)
	purchases.Put("/:id", adminOnly, purchaseHandler.EditPurchase)
	purchases.Post("/:id/payments", purchaseHandler.RecordPayment)

	pendingPurchases := protected.Group("/pending-purchases")
	pendingPurchases.Post("/", purchaseHandler.SavePending)
	pendingPurchases.Get("/", purchaseHandler.ListPending)
	pendingPurchases.Get("/:id", purchaseHandler.GetPending)
	pendingPurchases.Put("/:id", purchaseHandler.SavePending)
	pendingPurchases.Delete("/:id", purchaseHandler.DeletePending)
	pendingPurchases.Post("/:id/complete", purchaseHandler.CompletePending)
	pendingPurchases.Post("/:id/cancel", purchaseHandler.CancelPending)

	expenseHandler := NewExpenseHandler(deps.ExpenseUC, log)
	expenses := protected.Group("/expenses")
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.Get)
	expenses.Put("/:id", adminOnly, expenseHandler.Update)
	expenses.Delete("/:id", adminOnly, expenseHandler.Delete)
}
