package models

import (
	"time"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for a ledger entry
type SaleModel struct {
	BaseModel
	ProductID       int64           `gorm:"not null;index"`
	Quantity        int64           `gorm:"not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null"`
	SaleDate        time.Time       `gorm:"not null;index"`
	IsBulk          bool            `gorm:"not null;default:false"`
	BulkQuantity    int64           `gorm:"not null;default:0"`
	RecordedBy      *int64          `gorm:"index"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseEntity:      m.BaseModel.ToDomain(),
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		DiscountPercent: m.DiscountPercent,
		TotalPrice:      m.TotalPrice,
		PaymentMethod:   sales.PaymentMethod(m.PaymentMethod),
		SaleDate:        m.SaleDate.UTC(),
		IsBulk:          m.IsBulk,
		BulkQuantity:    m.BulkQuantity,
		RecordedBy:      m.RecordedBy,
	}
}

// FromDomain populates the model from a domain Sale
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ProductID = s.ProductID
	m.Quantity = s.Quantity
	m.DiscountPercent = s.DiscountPercent
	m.TotalPrice = s.TotalPrice
	m.PaymentMethod = string(s.PaymentMethod)
	m.SaleDate = s.SaleDate.UTC()
	m.IsBulk = s.IsBulk
	m.BulkQuantity = s.BulkQuantity
	m.RecordedBy = s.RecordedBy
}
