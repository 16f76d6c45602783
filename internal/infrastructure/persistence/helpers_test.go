package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestDatabase opens a migrated SQLite database in a temp directory
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "pos.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
	}

	m, err := migration.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedCategory(t *testing.T, db *Database, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db.DB).Save(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, db *Database, categoryID int64, name string, price string, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductFields{
		Name:          name,
		CategoryID:    categoryID,
		PurchasePrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		SellingPrice:  decimal.RequireFromString(price),
		VAT:           catalog.VATStandard,
		StockLevel:    stock,
		SupplierName:  "Acme",
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db.DB).Save(context.Background(), product))
	return product
}

func seedSale(t *testing.T, db *Database, productID int64, quantity int64, total string, at time.Time) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale(sales.SaleParams{
		ProductID:     productID,
		Quantity:      quantity,
		TotalPrice:    decimal.RequireFromString(total),
		PaymentMethod: sales.PaymentCash,
		SaleDate:      at,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormSaleRepository(db.DB).Create(context.Background(), sale))
	return sale
}
