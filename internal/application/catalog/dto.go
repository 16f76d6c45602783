package catalog

import (
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductRequest represents the body of a product create or update
type ProductRequest struct {
	Name          string          `json:"name" binding:"required,notblank,max=200"`
	CategoryID    int64           `json:"category_id" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	VAT           decimal.Decimal `json:"vat"`
	StockLevel    int64           `json:"stock_level" binding:"min=0"`
	SupplierName  string          `json:"supplier_name" binding:"required,notblank,max=200"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest = ProductRequest

// UpdateProductRequest represents a request to update a product. Every
// editable field is replaced.
type UpdateProductRequest = ProductRequest

func (r ProductRequest) fields() catalog.ProductFields {
	return catalog.ProductFields{
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		VAT:           r.VAT,
		StockLevel:    r.StockLevel,
		SupplierName:  r.SupplierName,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	CategoryID    int64           `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	VAT           decimal.Decimal `json:"vat"`
	StockLevel    int64           `json:"stock_level"`
	SupplierName  string          `json:"supplier_name"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	CategoryID int64  `form:"category_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockLevelResponse is one row of the inventory data projection
type StockLevelResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	StockLevel int64  `json:"stock_level"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		VAT:           p.VAT,
		StockLevel:    p.StockLevel,
		SupplierName:  p.SupplierName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
