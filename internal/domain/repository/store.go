package repository

import "context"

// Store agrupa los repositorios atados a una misma conexión o transacción.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Batches() BatchRepository
	Customers() CustomerRepository
	Suppliers() SupplierRepository
	Sales() SaleRepository
	Purchases() PurchaseRepository
	PendingSales() PendingSaleRepository
	PendingPurchases() PendingPurchaseRepository
	Payments() PaymentRepository
	Receipts() ReceiptRepository
	StockJournal() StockJournalRepository
	Sequences() SequenceRepository
	Discounts() DiscountRepository
	CompanyPrices() CompanyPriceRepository
	Expenses() ExpenseRepository
}

// TxRunner ejecuta fn dentro de una unidad atómica: si fn devuelve error no queda
// ningún cambio visible. Las implementaciones pueden reintentar fn completa ante
// contención de bloqueos, por lo que fn no debe tener efectos fuera del Store.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
