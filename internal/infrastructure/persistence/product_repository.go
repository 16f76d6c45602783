package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowedProductSortFields lists the columns products may be ordered by
var allowedProductSortFields = map[string]string{
	"id":            "products.id",
	"name":          "products.name",
	"selling_price": "products.selling_price",
	"stock_level":   "products.stock_level",
	"created_at":    "products.created_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and, on PostgreSQL, locks its row until
// the surrounding transaction ends. SQLite transactions already hold the
// database write lock from BEGIN IMMEDIATE.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	query := r.db.WithContext(ctx)
	if isPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.ProductModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	query = r.applyOrder(query, filter)
	if limit := filter.Limit(); limit > 0 {
		query = query.Limit(limit).Offset(filter.Offset())
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err, shared.ErrProductNotFound)
	}
	return count, nil
}

// ListStockLevels returns the id/name/stock projection ordered by name
func (r *GormProductRepository) ListStockLevels(ctx context.Context) ([]catalog.StockLevel, error) {
	var levels []catalog.StockLevel
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("id, name, stock_level").
		Order("name ASC").
		Scan(&levels).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return levels, nil
}

type productCategoryRow struct {
	models.ProductModel
	CategoryName string
}

// ListWithCategory returns every product with its category name
func (r *GormProductRepository) ListWithCategory(ctx context.Context) ([]catalog.ProductWithCategory, error) {
	var rows []productCategoryRow
	if err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	out := make([]catalog.ProductWithCategory, len(rows))
	for i := range rows {
		out[i] = catalog.ProductWithCategory{Product: *rows[i].ToDomain(), CategoryName: rows[i].CategoryName}
	}
	return out, nil
}

// Save creates or updates a product and writes back the assigned ID. A
// missing category surfaces as shared.ErrCategoryNotFound.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(product)

	var err error
	if product.IsNew() {
		err = r.db.WithContext(ctx).Create(&model).Error
	} else {
		result := r.db.WithContext(ctx).Model(&model).
			Select("name", "category_id", "purchase_price", "selling_price", "vat", "stock_level", "supplier_name", "updated_at").
			Updates(&model)
		err = result.Error
		if err == nil && result.RowsAffected == 0 {
			return shared.ErrProductNotFound
		}
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return shared.ErrCategoryNotFound
		}
		return translateError(err, shared.ErrProductNotFound)
	}
	product.ID = model.ID
	return nil
}

// DecreaseStock subtracts quantity only while enough stock is left. The
// guard lives in the UPDATE itself, so a stale read can never oversell.
func (r *GormProductRepository) DecreaseStock(ctx context.Context, id int64, quantity int64) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND stock_level >= ?", id, quantity).
		Updates(map[string]any{
			"stock_level": gorm.Expr("stock_level - ?", quantity),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrProductNotFound)
	}
	if result.RowsAffected == 1 {
		return nil
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrProductNotFound
	}
	return shared.ErrInsufficientStock
}

// IncreaseStock adds quantity back to stock
func (r *GormProductRepository) IncreaseStock(ctx context.Context, id int64, quantity int64) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_level": gorm.Expr("stock_level + ?", quantity),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrProductNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err, shared.ErrProductNotFound)
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.CategoryID > 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	return query
}

func (r *GormProductRepository) applyOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	column, ok := allowedProductSortFields[filter.OrderBy]
	if !ok {
		column = allowedProductSortFields["id"]
	}
	return query.Order(clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: filter.Descending()})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
