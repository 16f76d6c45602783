package catalog

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength  = 200
	maxSupplierNameLength = 200
)

// Common VAT rates. Any non-negative rate is accepted.
var (
	VATZero     = decimal.Zero
	VATReduced  = decimal.NewFromInt(8)
	VATStandard = decimal.NewFromInt(16)
)

// ProductFields holds the editable attributes of a product. It is shared by
// creation and update so both go through the same validation.
type ProductFields struct {
	Name          string
	CategoryID    int64
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	VAT           decimal.Decimal
	StockLevel    int64
	SupplierName  string
}

// Product is a sellable catalog item. StockLevel never goes negative.
type Product struct {
	shared.BaseEntity
	Name          string
	CategoryID    int64
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	VAT           decimal.Decimal
	StockLevel    int64
	SupplierName  string
}

// NewProduct creates a new product from validated fields
func NewProduct(fields ProductFields) (*Product, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	p := &Product{BaseEntity: shared.NewBaseEntity()}
	p.apply(fields)
	return p, nil
}

// Update replaces the product's editable attributes. A stock level change here
// is a catalog-level stock edit.
func (p *Product) Update(fields ProductFields) error {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return err
	}

	p.apply(fields)
	p.Touch()
	return nil
}

// Fields returns the product's editable attributes
func (p *Product) Fields() ProductFields {
	return ProductFields{
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		VAT:           p.VAT,
		StockLevel:    p.StockLevel,
		SupplierName:  p.SupplierName,
	}
}

// HasStock reports whether quantity units can be taken from stock
func (p *Product) HasStock(quantity int64) bool {
	return quantity > 0 && p.StockLevel >= quantity
}

// PriceWithVAT returns the unit selling price including VAT, unrounded
func (p *Product) PriceWithVAT() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(1).Add(shared.Percent(p.VAT)))
}

func (p *Product) apply(f ProductFields) {
	p.Name = f.Name
	p.CategoryID = f.CategoryID
	p.PurchasePrice = f.PurchasePrice
	p.SellingPrice = f.SellingPrice
	p.VAT = f.VAT
	p.StockLevel = f.StockLevel
	p.SupplierName = f.SupplierName
}

func (f ProductFields) normalized() ProductFields {
	f.Name = strings.TrimSpace(f.Name)
	f.SupplierName = strings.TrimSpace(f.SupplierName)
	return f
}

// Validate checks the required text fields and non-negative numbers
func (f ProductFields) Validate() error {
	switch {
	case f.Name == "":
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	case len(f.Name) > maxProductNameLength:
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot exceed 200 characters")
	case f.SupplierName == "":
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	case len(f.SupplierName) > maxSupplierNameLength:
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot exceed 200 characters")
	case f.CategoryID <= 0:
		return shared.NewDomainError(shared.CodeInvalidInput, "Category is required")
	case f.PurchasePrice.IsNegative():
		return shared.NewDomainError(shared.CodeInvalidInput, "Purchase price cannot be negative")
	case f.SellingPrice.IsNegative():
		return shared.NewDomainError(shared.CodeInvalidInput, "Selling price cannot be negative")
	case f.VAT.IsNegative():
		return shared.NewDomainError(shared.CodeInvalidInput, "VAT cannot be negative")
	case f.StockLevel < 0:
		return shared.NewDomainError(shared.CodeInvalidInput, "Stock level cannot be negative")
	}
	return nil
}
