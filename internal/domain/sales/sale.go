package sales

import (
	"strconv"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	maxDiscount = decimal.NewFromInt(100)
	one         = decimal.NewFromInt(1)
)

// saleDateLayouts are the ISO-8601 forms accepted for a sale date
var saleDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseSaleDate parses an ISO-8601 sale date. A value without a UTC offset,
// a bare date included, is read in loc.
func ParseSaleDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput,
		"Invalid sale date "+strconv.Quote(value)+", expected an ISO-8601 date such as 2024-01-31 or 2024-01-31T14:05:00Z")
}

// Sale is a ledger entry for a completed sale of one product. Sales are
// created by recording and removed by revoking; they are never edited.
type Sale struct {
	shared.BaseEntity
	ProductID       int64
	Quantity        int64
	DiscountPercent decimal.Decimal
	TotalPrice      decimal.Decimal
	PaymentMethod   PaymentMethod
	SaleDate        time.Time
	IsBulk          bool
	BulkQuantity    int64
	RecordedBy      *int64
}

// SaleParams holds the attributes of a new sale
type SaleParams struct {
	ProductID       int64
	Quantity        int64
	DiscountPercent decimal.Decimal
	TotalPrice      decimal.Decimal
	PaymentMethod   PaymentMethod
	SaleDate        time.Time
	IsBulk          bool
	BulkQuantity    int64
	RecordedBy      *int64
}

// NewSale creates a new ledger entry. A zero SaleDate defaults to now.
func NewSale(p SaleParams) (*Sale, error) {
	if p.ProductID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product is required")
	}
	if err := ValidateQuantity(p.Quantity); err != nil {
		return nil, err
	}
	if err := ValidateDiscount(p.DiscountPercent); err != nil {
		return nil, err
	}
	if p.TotalPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Total price cannot be negative")
	}
	if p.PaymentMethod == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment method is required")
	}
	if err := ValidateBulk(p.IsBulk, p.BulkQuantity, p.Quantity); err != nil {
		return nil, err
	}

	base := shared.NewBaseEntity()
	saleDate := p.SaleDate
	if saleDate.IsZero() {
		saleDate = base.CreatedAt
	}
	bulkQuantity := p.BulkQuantity
	if !p.IsBulk {
		bulkQuantity = 0
	}

	return &Sale{
		BaseEntity:      base,
		ProductID:       p.ProductID,
		Quantity:        p.Quantity,
		DiscountPercent: p.DiscountPercent,
		TotalPrice:      shared.RoundMoney(p.TotalPrice),
		PaymentMethod:   p.PaymentMethod,
		SaleDate:        saleDate.UTC(),
		IsBulk:          p.IsBulk,
		BulkQuantity:    bulkQuantity,
		RecordedBy:      p.RecordedBy,
	}, nil
}

// ComputeTotal returns sellingPrice * quantity * (1 - discount/100) * (1 + vat/100)
// rounded to two decimal places.
func ComputeTotal(sellingPrice decimal.Decimal, quantity int64, discountPercent, vatPercent decimal.Decimal) decimal.Decimal {
	gross := sellingPrice.Mul(decimal.NewFromInt(quantity))
	net := gross.Mul(one.Sub(shared.Percent(discountPercent)))
	return shared.RoundMoney(net.Mul(one.Add(shared.Percent(vatPercent))))
}

// ValidateQuantity checks that quantity is a positive integer
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be greater than zero")
	}
	return nil
}

// ValidateDiscount checks that the discount percentage is within [0, 100]
func ValidateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(maxDiscount) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Discount must be between 0 and 100")
	}
	return nil
}

// ValidateBulk checks the bulk quantity of a bulk sale
func ValidateBulk(isBulk bool, bulkQuantity, quantity int64) error {
	if !isBulk {
		if bulkQuantity != 0 {
			return shared.NewDomainError(shared.CodeInvalidInput, "Bulk quantity requires a bulk sale")
		}
		return nil
	}
	if bulkQuantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Bulk quantity must be greater than zero")
	}
	if bulkQuantity > quantity {
		return shared.NewDomainError(shared.CodeInvalidInput, "Bulk quantity cannot exceed quantity")
	}
	return nil
}
