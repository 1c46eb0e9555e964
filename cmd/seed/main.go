// seed aplica el esquema y carga datos de demostración: tienda, categorías, productos,
// un cliente y un proveedor. Con -csv carga el catálogo de productos desde un archivo.
//
// Uso: go run ./cmd/seed [-csv productos.csv] [-latin1] [-demo=false]
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
	"github.com/jhoicas/pos-backoffice/pkg/retry"
)

var demoProducts = []catalogRow{
	{Category: "Despensa", Product: dto.CreateProductRequest{Name: "Azúcar 1kg", Barcode: "DEMO0001", PurchasePrice: dec("95"), SellingPrice: dec("120"), WholesalePrice: dec("110"), WholesaleMinQty: dec("12"), Quantity: dec("40"), ReorderLevel: dec("10")}},
	{Category: "Despensa", Product: dto.CreateProductRequest{Name: "Harina de maíz 2kg", Barcode: "DEMO0002", PurchasePrice: dec("140"), SellingPrice: dec("175"), Quantity: dec("25"), ReorderLevel: dec("8")}},
	{Category: "Lácteos", Product: dto.CreateProductRequest{Name: "Leche 500ml", Barcode: "DEMO0003", PurchasePrice: dec("45"), SellingPrice: dec("60"), Quantity: dec("6"), ReorderLevel: dec("12")}},
	{Category: "Limpieza", Product: dto.CreateProductRequest{Name: "Jabón en barra", Barcode: "DEMO0004", PurchasePrice: dec("80"), SellingPrice: dec("100"), WholesalePrice: dec("90"), WholesaleMinQty: dec("6"), Quantity: dec("30"), ReorderLevel: dec("5")}},
}

func main() {
	csvPath := flag.String("csv", "", "archivo CSV de productos (cabecera con name y columnas opcionales)")
	latin1 := flag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	demo := flag.Bool("demo", true, "cargar datos de demostración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	store := postgres.NewStore(pool)
	tx := postgres.NewTxRunner(pool, retry.Default, cfg.DB.LockTimeout, log)
	s := &seeder{
		log:        log,
		products:   usecase.NewProductUseCase(tx, store),
		categories: usecase.NewCategoryUseCase(store.Categories()),
		categoryID: map[string]string{},
	}

	shop, err := usecase.NewCompanyUseCase(store.Companies()).Current(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("crear tienda")
	}
	log.Info().Str("shop", shop.Name).Msg("tienda lista")

	if err := s.loadCategories(ctx); err != nil {
		log.Fatal().Err(err).Msg("leer categorías")
	}

	if *demo {
		s.loadProducts(ctx, demoProducts)
		if _, err := usecase.NewCustomerUseCase(store.Customers()).Create(ctx, dto.CustomerRequest{
			Name: "Cliente Frecuente", Phone: "0700000000", CreditLimit: dec("5000"),
		}); err != nil {
			log.Warn().Err(err).Msg("cliente de demostración")
		}
		if _, err := usecase.NewSupplierUseCase(store.Suppliers()).Create(ctx, dto.SupplierRequest{
			Name: "Distribuidora Central", ContactPerson: "Compras",
		}); err != nil {
			log.Warn().Err(err).Msg("proveedor de demostración")
		}
	}

	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()
		rows, err := readCatalog(f, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("leer CSV")
		}
		s.loadProducts(ctx, rows)
	}

	log.Info().Int("created", s.created).Int("skipped", s.skipped).Msg("seed terminado")
}

type seeder struct {
	log        *logger.Logger
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	categoryID map[string]string
	created    int
	skipped    int
}

func (s *seeder) loadCategories(ctx context.Context) error {
	list, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		s.categoryID[c.Name] = c.ID
	}
	return nil
}

func (s *seeder) category(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if id, ok := s.categoryID[name]; ok {
		return id, nil
	}
	c, err := s.categories.Create(ctx, dto.CategoryRequest{Name: name})
	if err != nil {
		return "", err
	}
	s.categoryID[name] = c.ID
	return c.ID, nil
}

// loadProducts crea cada fila; los códigos de barras repetidos se omiten.
func (s *seeder) loadProducts(ctx context.Context, rows []catalogRow) {
	for _, r := range rows {
		catID, err := s.category(ctx, r.Category)
		if err != nil {
			s.log.Warn().Err(err).Str("category", r.Category).Msg("categoría")
			s.skipped++
			continue
		}
		in := r.Product
		in.CategoryID = catID
		p, err := s.products.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			s.log.Debug().Str("barcode", in.Barcode).Msg("producto ya existe")
			s.skipped++
		case err != nil:
			s.log.Warn().Err(err).Str("name", in.Name).Msg("producto")
			s.skipped++
		default:
			s.log.Debug().Str("barcode", p.Barcode).Str("name", p.Name).Msg("producto creado")
			s.created++
		}
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
