package app

import (
	"inventrack/internal/core/tx"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/payment"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/memory"
	"inventrack/internal/infrastructure/storage/postgres"
	"inventrack/internal/infrastructure/storage/postgres/auth_repo"
	"inventrack/internal/infrastructure/storage/postgres/catalog_repo"
	"inventrack/internal/infrastructure/storage/postgres/document_repo"
	"inventrack/internal/infrastructure/storage/postgres/register_repo"
	"inventrack/internal/infrastructure/storage/postgres/report_repo"
)

// repositories is one storage backend seen through the domain interfaces.
type repositories struct {
	txm        tx.ReadOnlyManager
	accounts   auth.AccountRepository
	tokens     auth.TokenRepository
	categories category.Repository
	products   product.Repository
	suppliers  supplier.Repository
	ledger     stock.Repository
	reader     analytics.LedgerReader
	supply     supply_request.Repository
	payments   payment.Repository
	journal    audit.Repository
}

func postgresRepositories(txm *postgres.TxManager) repositories {
	return repositories{
		txm:        txm,
		accounts:   auth_repo.NewAccountRepo(txm),
		tokens:     auth_repo.NewTokenRepo(txm),
		categories: catalog_repo.NewCategoryRepo(txm),
		products:   catalog_repo.NewProductRepo(txm),
		suppliers:  catalog_repo.NewSupplierRepo(txm),
		ledger:     register_repo.NewLedgerRepo(txm),
		reader:     report_repo.NewAnalyticsRepo(txm),
		supply:     document_repo.NewSupplyRequestRepo(txm),
		payments:   register_repo.NewPaymentRepo(txm),
		journal:    register_repo.NewJournalRepo(txm),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	ledger := store.Ledger()
	return repositories{
		txm:        store,
		accounts:   store.Accounts(),
		tokens:     store.Tokens(),
		categories: store.Categories(),
		products:   store.Products(),
		suppliers:  store.Suppliers(),
		ledger:     ledger,
		reader:     ledger,
		supply:     store.SupplyRequests(),
		payments:   store.Payments(),
		journal:    store.Journal(),
	}
}
