package models

import (
	"github.com/pos/backend/internal/domain/shop"
)

// ShopOwnerModel is the persistence model for the shop profile
type ShopOwnerModel struct {
	BaseModel
	ShopName      string `gorm:"type:varchar(200);not null"`
	TaxID         string `gorm:"column:tax_id;type:varchar(50);not null"`
	PostalAddress string `gorm:"type:varchar(500);not null;default:''"`
	Email         string `gorm:"type:varchar(200);not null;default:''"`
	Phone         string `gorm:"type:varchar(50);not null;default:''"`
}

// TableName returns the table name for GORM
func (ShopOwnerModel) TableName() string {
	return "shop_owners"
}

// ToDomain converts the model to a domain shop Owner
func (m *ShopOwnerModel) ToDomain() *shop.Owner {
	return &shop.Owner{
		BaseEntity: m.BaseModel.ToDomain(),
		Profile: shop.Profile{
			ShopName:      m.ShopName,
			TaxID:         m.TaxID,
			PostalAddress: m.PostalAddress,
			Email:         m.Email,
			Phone:         m.Phone,
		},
	}
}

// FromDomain populates the model from a domain shop Owner
func (m *ShopOwnerModel) FromDomain(o *shop.Owner) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.ShopName = o.ShopName
	m.TaxID = o.TaxID
	m.PostalAddress = o.PostalAddress
	m.Email = o.Email
	m.Phone = o.Phone
}
