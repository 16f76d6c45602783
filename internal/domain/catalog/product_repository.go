package catalog

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row for the rest of the
	// transaction where the store supports row locks
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)

	// FindAll finds products matching the filter. Supported filters:
	// "category_id" (int64). Search matches the product name.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ListStockLevels returns the id/name/stock projection of every product
	ListStockLevels(ctx context.Context) ([]StockLevel, error)

	// ListWithCategory returns every product with its category name
	ListWithCategory(ctx context.Context) ([]ProductWithCategory, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DecreaseStock atomically subtracts quantity when enough stock is left.
	// Returns shared.ErrInsufficientStock when the guard fails and
	// shared.ErrProductNotFound when the product does not exist.
	DecreaseStock(ctx context.Context, id int64, quantity int64) error

	// IncreaseStock atomically adds quantity back to stock
	IncreaseStock(ctx context.Context, id int64, quantity int64) error
}

// StockLevel is the inventory projection of a product
type StockLevel struct {
	ID         int64
	Name       string
	StockLevel int64
}

// ProductWithCategory is a product joined with its category name
type ProductWithCategory struct {
	Product
	CategoryName string
}
