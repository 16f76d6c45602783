package sales

import (
	"time"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// RecordSaleRequest represents a request to record a sale
type RecordSaleRequest struct {
	ProductID       int64            `json:"product_id" binding:"required"`
	Quantity        int64            `json:"quantity"`
	DiscountPercent decimal.Decimal  `json:"discount"`
	TotalPrice      *decimal.Decimal `json:"total_price"`
	PaymentMethod   string           `json:"payment_method" binding:"required"`
	SaleDate        string           `json:"sale_date"`
	IsBulk          bool             `json:"is_bulk"`
	BulkQuantity    int64            `json:"bulk_quantity"`
}

// SaleResponse represents a ledger entry in API responses
type SaleResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        int64           `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PaymentMethod   string          `json:"payment_method"`
	SaleDate        time.Time       `json:"sale_date"`
	IsBulk          bool            `json:"is_bulk"`
	BulkQuantity    int64           `json:"bulk_quantity"`
	RecordedBy      *int64          `json:"recorded_by,omitempty"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sales.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		DiscountPercent: s.DiscountPercent,
		TotalPrice:      s.TotalPrice,
		PaymentMethod:   s.PaymentMethod.String(),
		SaleDate:        s.SaleDate,
		IsBulk:          s.IsBulk,
		BulkQuantity:    s.BulkQuantity,
		RecordedBy:      s.RecordedBy,
	}
}

// ToSaleWithProductResponse converts a joined ledger row to SaleResponse
func ToSaleWithProductResponse(s *sales.SaleWithProduct) SaleResponse {
	resp := ToSaleResponse(&s.Sale)
	resp.ProductName = s.ProductName
	return resp
}

// ToSaleResponses converts joined ledger rows to responses
func ToSaleResponses(rows []sales.SaleWithProduct) []SaleResponse {
	out := make([]SaleResponse, len(rows))
	for i := range rows {
		out[i] = ToSaleWithProductResponse(&rows[i])
	}
	return out
}
