package models

import (
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for Category
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// FromDomain populates the model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
}

// ProductModel is the persistence model for Product
type ProductModel struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null;index"`
	CategoryID    int64           `gorm:"not null;index"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	VAT           decimal.Decimal `gorm:"column:vat;type:numeric(5,2);not null;default:0"`
	StockLevel    int64           `gorm:"not null;default:0"`
	SupplierName  string          `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		CategoryID:    m.CategoryID,
		PurchasePrice: m.PurchasePrice,
		SellingPrice:  m.SellingPrice,
		VAT:           m.VAT,
		StockLevel:    m.StockLevel,
		SupplierName:  m.SupplierName,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.CategoryID = p.CategoryID
	m.PurchasePrice = p.PurchasePrice
	m.SellingPrice = p.SellingPrice
	m.VAT = p.VAT
	m.StockLevel = p.StockLevel
	m.SupplierName = p.SupplierName
}
