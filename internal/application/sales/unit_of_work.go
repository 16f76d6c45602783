package sales

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sales"
)

// UnitOfWork runs a function inside one database transaction. If the
// function returns an error the transaction is rolled back, otherwise it is
// committed.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error

	// Sales returns the ledger outside any transaction. Lookups made
	// through it take no write lock.
	Sales() sales.SaleRepository
}

// TransactionalRepositories hands out repositories bound to the current
// transaction. Stock and ledger writes made through them commit together.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the transaction
	Products() catalog.ProductRepository
	// Sales returns the sale ledger scoped to the transaction
	Sales() sales.SaleRepository
}
