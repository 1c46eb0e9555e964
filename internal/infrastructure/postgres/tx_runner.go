package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
	"github.com/jhoicas/pos-backoffice/pkg/retry"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL y reintenta la
// transacción completa cuando falla por contención de bloqueos.
type TxRunner struct {
	pool        *pgxpool.Pool
	policy      retry.Policy
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewTxRunner construye el runner con el pool, la política de reintentos y el
// lock_timeout por transacción (0 = el del servidor).
func NewTxRunner(pool *pgxpool.Pool, policy retry.Policy, lockTimeout time.Duration, log *logger.Logger) *TxRunner {
	return &TxRunner{pool: pool, policy: policy, lockTimeout: lockTimeout, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Tras agotar los reintentos por contención devuelve domain.ErrLockContention.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	err := r.policy.Do(ctx, IsTransient, func() error {
		return r.runOnce(ctx, fn)
	})
	if err != nil && IsTransient(err) {
		return r.contention(err)
	}
	return err
}

// contention registra el error del servidor y devuelve ErrLockContention sin su detalle,
// que no debe llegar al cliente.
func (r *TxRunner) contention(err error) error {
	r.log.Warn().Err(err).Int("attempts", r.policy.MaxAttempts).Msg("reintentos agotados por contención de bloqueos")
	return domain.ErrLockContention
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros; el valor es un entero formateado por nosotros.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)

// Store entrega los repositorios sobre un Querier (pool para lecturas sueltas, tx dentro de Run).
type Store struct {
	q Querier
}

// NewStore construye el Store. Pasar pool o tx.
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

func (s *Store) Companies() repository.CompanyRepository { return NewCompanyRepository(s.q) }
func (s *Store) Users() repository.UserRepository { return NewUserRepository(s.q) }
func (s *Store) Categories() repository.CategoryRepository { return NewCategoryRepository(s.q) }
func (s *Store) Products() repository.ProductRepository { return NewProductRepository(s.q) }
func (s *Store) Batches() repository.BatchRepository { return NewBatchRepository(s.q) }
func (s *Store) Customers() repository.CustomerRepository { return NewCustomerRepository(s.q) }
func (s *Store) Suppliers() repository.SupplierRepository { return NewSupplierRepository(s.q) }
func (s *Store) Sales() repository.SaleRepository { return NewSaleRepository(s.q) }
func (s *Store) Purchases() repository.PurchaseRepository { return NewPurchaseRepository(s.q) }
func (s *Store) PendingSales() repository.PendingSaleRepository {
	return NewPendingSaleRepository(s.q)
}
func (s *Store) PendingPurchases() repository.PendingPurchaseRepository {
	return NewPendingPurchaseRepository(s.q)
}
func (s *Store) Payments() repository.PaymentRepository { return NewPaymentRepository(s.q) }
func (s *Store) Receipts() repository.ReceiptRepository { return NewReceiptRepository(s.q) }
func (s *Store) StockJournal() repository.StockJournalRepository {
	return NewStockJournalRepository(s.q)
}
func (s *Store) Sequences() repository.SequenceRepository { return NewSequenceRepository(s.q) }
func (s *Store) Discounts() repository.DiscountRepository { return NewDiscountRepository(s.q) }
func (s *Store) CompanyPrices() repository.CompanyPriceRepository {
	return NewCompanyPriceRepository(s.q)
}
func (s *Store) Expenses() repository.ExpenseRepository { return NewExpenseRepository(s.q) }
