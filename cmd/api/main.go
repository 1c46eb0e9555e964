package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/purchasing"
	"github.com/jhoicas/pos-backoffice/internal/application/sales"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/cache"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
	"github.com/jhoicas/pos-backoffice/pkg/retry"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	tx, store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	var guard sales.IdempotencyGuard
	if cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		guard = cache.NewIdempotencyGuard(client, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia de ventas activa")
	}

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT (JWT_SECRET)")
	}

	locale, err := language.Parse(cfg.App.Locale)
	if err != nil {
		log.Warn().Err(err).Str("locale", cfg.App.Locale).Msg("locale de recibos inválido, se usa es")
		locale = language.Spanish
	}

	saleOpts := sales.Options{RejectOversell: cfg.Posting.RejectOversell}
	companyUC := usecase.NewCompanyUseCase(store.Companies())

	deps := httpRouter.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(store.Users(), companyUC, signer),
		UserUC:          usecase.NewUserUseCase(store.Users()),
		CompanyUC:       companyUC,
		ProductUC:       usecase.NewProductUseCase(tx, store),
		CategoryUC:      usecase.NewCategoryUseCase(store.Categories()),
		ExpenseUC:       usecase.NewExpenseUseCase(store.Expenses()),
		CustomerUC:      usecase.NewCustomerUseCase(store.Customers()),
		SupplierUC:      usecase.NewSupplierUseCase(store.Suppliers()),
		StockUC:         inventory.NewStockUseCase(tx, store, log.Component("inventory")),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(store.Products()),
		PostSale:        sales.NewPostSaleUseCase(tx, store, guard, saleOpts, log.Component("sales")),
		PendingSale:     sales.NewPendingSaleUseCase(tx, store, saleOpts, log.Component("sales")),
		CreditPayment:   sales.NewCreditPaymentUseCase(tx, store, log.Component("payments")),
		Receipts:        sales.NewReceiptUseCase(tx, store, infrapdf.NewReceiptRenderer(locale), log.Component("receipts")),
		PostPurchase:    purchasing.NewPostPurchaseUseCase(tx, store, log.Component("purchasing")),
		PendingPurchase: purchasing.NewPendingPurchaseUseCase(tx, store, log.Component("purchasing")),
		SupplierPayment: purchasing.NewSupplierPaymentUseCase(tx, log.Component("payments")),
		Returns:         purchasing.NewReturnUseCase(tx, store, log.Component("purchasing")),
		Signer:          signer,
		Log:             log.Component("http"),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "POS Backoffice API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre la persistencia elegida por STORE_DRIVER y devuelve el runner
// transaccional, el store en autocommit y la función de cierre.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.TxRunner, repository.Store, func()) {
	if cfg.App.StoreDriver == "memory" {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		db := memory.New()
		return db, db.Store(), func() {}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migraciones")
	}

	txLog := log.Component("tx")
	policy := retry.Policy{
		MaxAttempts: cfg.Posting.MaxAttempts,
		Backoff:     cfg.Posting.RetryBackoff,
		OnRetry: func(attempt int, err error) {
			txLog.Warn().Err(err).Int("attempt", attempt).Msg("contención de bloqueos, reintentando transacción")
		},
	}
	return postgres.NewTxRunner(pool, policy, cfg.DB.LockTimeout, txLog), postgres.NewStore(pool), pool.Close
}
