// Package memory implementa los repositorios en memoria con el mismo contrato
// transaccional que PostgreSQL: Run trabaja sobre una copia del estado y solo la
// publica si fn termina sin error. Las transacciones se serializan con un mutex,
// lo que equivale a bloquear todas las filas que toca.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*DB)(nil)
	_ repository.Store    = (*store)(nil)
)

type state struct {
	companies        map[string]entity.Company
	users            map[string]entity.User
	categories       map[string]entity.Category
	products         map[string]entity.Product
	batches          map[string]entity.Batch
	customers        map[string]entity.Customer
	suppliers        map[string]entity.Supplier
	sales            map[string]entity.Sale
	saleItems        map[string][]entity.SaleItem
	purchases        map[string]entity.Purchase
	purchaseItems    map[string][]entity.PurchaseItem
	pendingSales     map[string]entity.PendingSale
	pendingPurchases map[string]entity.PendingPurchase
	customerPayments map[string][]entity.CustomerPayment
	supplierPayments map[string][]entity.SupplierPayment
	receipts         map[string]entity.Receipt
	journal          map[string]entity.StockJournal
	sequences        map[string]int64
	discounts        map[string]entity.Discount
	companyPrices    map[string]entity.CompanyPrice
	expenses         map[string]entity.Expense
}

func newState() *state {
	return &state{
		companies:        map[string]entity.Company{},
		users:            map[string]entity.User{},
		categories:       map[string]entity.Category{},
		products:         map[string]entity.Product{},
		batches:          map[string]entity.Batch{},
		customers:        map[string]entity.Customer{},
		suppliers:        map[string]entity.Supplier{},
		sales:            map[string]entity.Sale{},
		saleItems:        map[string][]entity.SaleItem{},
		purchases:        map[string]entity.Purchase{},
		purchaseItems:    map[string][]entity.PurchaseItem{},
		pendingSales:     map[string]entity.PendingSale{},
		pendingPurchases: map[string]entity.PendingPurchase{},
		customerPayments: map[string][]entity.CustomerPayment{},
		supplierPayments: map[string][]entity.SupplierPayment{},
		receipts:         map[string]entity.Receipt{},
		journal:          map[string]entity.StockJournal{},
		sequences:        map[string]int64{},
		discounts:        map[string]entity.Discount{},
		companyPrices:    map[string]entity.CompanyPrice{},
		expenses:         map[string]entity.Expense{},
	}
}

// clone copia mapas y slices de líneas. Los slices dentro de borradores, recibos y descuentos se
// copian al escribir y al leer, así que pueden compartirse entre copias.
func (s *state) clone() *state {
	return &state{
		companies:        maps.Clone(s.companies),
		users:            maps.Clone(s.users),
		categories:       maps.Clone(s.categories),
		products:         maps.Clone(s.products),
		batches:          maps.Clone(s.batches),
		customers:        maps.Clone(s.customers),
		suppliers:        maps.Clone(s.suppliers),
		sales:            maps.Clone(s.sales),
		saleItems:        cloneSlices(s.saleItems),
		purchases:        maps.Clone(s.purchases),
		purchaseItems:    cloneSlices(s.purchaseItems),
		pendingSales:     maps.Clone(s.pendingSales),
		pendingPurchases: maps.Clone(s.pendingPurchases),
		customerPayments: cloneSlices(s.customerPayments),
		supplierPayments: cloneSlices(s.supplierPayments),
		receipts:         maps.Clone(s.receipts),
		journal:          maps.Clone(s.journal),
		sequences:        maps.Clone(s.sequences),
		discounts:        maps.Clone(s.discounts),
		companyPrices:    maps.Clone(s.companyPrices),
		expenses:         maps.Clone(s.expenses),
	}
}

func cloneSlices[T any](m map[string][]T) map[string][]T {
	out := make(map[string][]T, len(m))
	for k, v := range m {
		out[k] = append([]T(nil), v...)
	}
	return out
}

// DB base de datos en memoria. Implementa repository.TxRunner.
type DB struct {
	mu sync.Mutex
	st *state
}

// New crea una base vacía.
func New() *DB {
	return &DB{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no falla.
func (db *DB) Run(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.st.clone()
	if err := fn(ctx, &store{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db.st = work
	return nil
}

// Store devuelve repositorios en modo autocommit (cada llamada toma el mutex).
// No debe usarse dentro de fn en Run.
func (db *DB) Store() repository.Store {
	return &store{db: db}
}

// store agrupa los repositorios; db nil significa "dentro de una transacción".
type store struct {
	db *DB
	st *state
}

func (s *store) begin() (*state, func()) {
	if s.db == nil {
		return s.st, func() {}
	}
	s.db.mu.Lock()
	return s.db.st, s.db.mu.Unlock
}

func (s *store) Companies() repository.CompanyRepository { return companyRepo{s} }
func (s *store) Users() repository.UserRepository { return userRepo{s} }
func (s *store) Categories() repository.CategoryRepository { return categoryRepo{s} }
func (s *store) Products() repository.ProductRepository { return productRepo{s} }
func (s *store) Batches() repository.BatchRepository { return batchRepo{s} }
func (s *store) Customers() repository.CustomerRepository { return customerRepo{s} }
func (s *store) Suppliers() repository.SupplierRepository { return supplierRepo{s} }
func (s *store) Sales() repository.SaleRepository { return saleRepo{s} }
func (s *store) Purchases() repository.PurchaseRepository { return purchaseRepo{s} }
func (s *store) PendingSales() repository.PendingSaleRepository { return pendingSaleRepo{s} }
func (s *store) PendingPurchases() repository.PendingPurchaseRepository { return pendingPurchaseRepo{s} }
func (s *store) Payments() repository.PaymentRepository { return paymentRepo{s} }
func (s *store) Receipts() repository.ReceiptRepository { return receiptRepo{s} }
func (s *store) StockJournal() repository.StockJournalRepository { return journalRepo{s} }
func (s *store) Sequences() repository.SequenceRepository { return sequenceRepo{s} }
func (s *store) Discounts() repository.DiscountRepository { return discountRepo{s} }
func (s *store) CompanyPrices() repository.CompanyPriceRepository { return companyPriceRepo{s} }
func (s *store) Expenses() repository.ExpenseRepository { return expenseRepo{s} }

// matches compara sin distinguir mayúsculas ni formas de caso (case folding Unicode).
func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// newestFirst ordena por fecha descendente y luego por id para resultados estables.
func newestFirst[T any](items []T, at func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]) > id(items[j])
	})
}
