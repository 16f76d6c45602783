package shop

import (
	"time"

	"github.com/pos/backend/internal/domain/shop"
)

// UpdateOwnerRequest represents the body of a shop profile update
type UpdateOwnerRequest struct {
	ShopName      string `json:"shop_name" binding:"required,notblank,max=200"`
	TaxID         string `json:"tax_id" binding:"required,notblank,max=50"`
	PostalAddress string `json:"postal_address" binding:"max=500"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" binding:"max=50"`
}

func (r UpdateOwnerRequest) profile() shop.Profile {
	return shop.Profile{
		ShopName:      r.ShopName,
		TaxID:         r.TaxID,
		PostalAddress: r.PostalAddress,
		Email:         r.Email,
		Phone:         r.Phone,
	}
}

// OwnerResponse represents the shop profile in API responses
type OwnerResponse struct {
	ID            int64     `json:"id"`
	ShopName      string    `json:"shop_name"`
	TaxID         string    `json:"tax_id"`
	PostalAddress string    `json:"postal_address"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToOwnerResponse converts the domain owner to a response
func ToOwnerResponse(o *shop.Owner) OwnerResponse {
	return OwnerResponse{
		ID:            o.ID,
		ShopName:      o.ShopName,
		TaxID:         o.TaxID,
		PostalAddress: o.PostalAddress,
		Email:         o.Email,
		Phone:         o.Phone,
		UpdatedAt:     o.UpdatedAt,
	}
}
