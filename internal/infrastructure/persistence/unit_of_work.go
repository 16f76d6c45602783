package persistence

import (
	"context"

	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUnitOfWork implements UnitOfWork using GORM transactions.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed. Failures to
// begin or commit surface as storage errors.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateError(err, shared.ErrNotFound)
}

// Sales returns the ledger on the plain connection pool
func (u *GormUnitOfWork) Sales() sales.SaleRepository {
	return NewGormSaleRepository(u.db)
}

// gormTransactionalRepositories provides repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Sales returns the sale ledger scoped to the current transaction.
func (r *gormTransactionalRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

var _ appsales.UnitOfWork = (*GormUnitOfWork)(nil)
var _ appsales.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
