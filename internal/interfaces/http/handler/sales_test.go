package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcatalog "github.com/pos/backend/internal/application/catalog"
	appreport "github.com/pos/backend/internal/application/report"
	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockOf(t *testing.T, api *testAPI, productID int64) int64 {
	t.Helper()
	w := api.do(http.MethodGet, fmt.Sprintf("/api/v1/catalog/products/%d", productID), identity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product appcatalog.ProductResponse
	decode(t, w, &product)
	return product.StockLevel
}

func TestSalesHandler_Record(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	soda := api.seedCatalog("Soda", 50, 10)

	t.Run("cashier records a sale", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       2,
			"payment_method": "Cash",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var sale appsales.SaleResponse
		decode(t, w, &sale)
		assert.Equal(t, int64(2), sale.Quantity)
		assert.True(t, sale.TotalPrice.Equal(decimal.NewFromInt(100)))
		require.NotNil(t, sale.RecordedBy)
		assert.Equal(t, int64(8), stockOf(t, api, soda.ID))
	})

	t.Run("insufficient stock leaves stock unchanged", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       9,
			"payment_method": "Cash",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, decode(t, w, nil).Error.Code)
		assert.Equal(t, int64(8), stockOf(t, api, soda.ID))
	})

	t.Run("unknown product", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     4242,
			"quantity":       1,
			"payment_method": "Cash",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeProductNotFound, decode(t, w, nil).Error.Code)
	})

	t.Run("client total far from server total", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       1,
			"total_price":    1,
			"payment_method": "Cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodePriceMismatch, decode(t, w, nil).Error.Code)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       1,
			"payment_method": "Barter",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero quantity", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       0,
			"payment_method": "Cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, int64(8), stockOf(t, api, soda.ID))
	})

	t.Run("no session", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/sales", "", map[string]any{"product_id": soda.ID})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSalesHandler_Record_SaleDate(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	juice := api.seedCatalog("Juice", 20, 10)

	record := func(saleDate string) *httptest.ResponseRecorder {
		return api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     juice.ID,
			"quantity":       1,
			"payment_method": "Cash",
			"sale_date":      saleDate,
		})
	}

	t.Run("date only", func(t *testing.T) {
		w := record("2024-01-01")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sale appsales.SaleResponse
		decode(t, w, &sale)
		assert.True(t, sale.SaleDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("date and time with offset", func(t *testing.T) {
		w := record("2024-01-01T10:30:00+03:00")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sale appsales.SaleResponse
		decode(t, w, &sale)
		assert.True(t, sale.SaleDate.Equal(time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)))
	})

	t.Run("date-only sales land in their day bucket", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/daily", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var buckets []appreport.BucketResponse
		decode(t, w, &buckets)
		require.Len(t, buckets, 1)
		assert.Equal(t, "2024-01-01", buckets[0].SaleDate)
		assert.Equal(t, 2, buckets[0].SalesCount)
	})

	t.Run("not a date", func(t *testing.T) {
		w := record("first of January")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w, nil).Error.Code)
		assert.Equal(t, int64(8), stockOf(t, api, juice.ID))
	})
}

func TestSalesHandler_Revoke(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	soda := api.seedCatalog("Soda", 50, 10)

	w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
		"product_id":     soda.ID,
		"quantity":       3,
		"payment_method": "Card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale appsales.SaleResponse
	decode(t, w, &sale)
	path := fmt.Sprintf("/api/v1/sales/%d", sale.ID)

	t.Run("cashier is forbidden", func(t *testing.T) {
		w := api.do(http.MethodDelete, path, identity.RoleCashier, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, int64(7), stockOf(t, api, soda.ID))
	})

	t.Run("admin revokes once", func(t *testing.T) {
		w := api.do(http.MethodDelete, path, identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var msg MessageResponse
		decode(t, w, &msg)
		assert.Equal(t, "Sale revoked", msg.Message)
		assert.Equal(t, int64(10), stockOf(t, api, soda.ID))

		w = api.do(http.MethodDelete, path, identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeSaleNotFound, decode(t, w, nil).Error.Code)
		assert.Equal(t, int64(10), stockOf(t, api, soda.ID))
	})

	t.Run("invalid id", func(t *testing.T) {
		w := api.do(http.MethodDelete, "/api/v1/sales/abc", identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalesHandler_HistoryAndPaymentMethods(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	soda := api.seedCatalog("Soda", 50, 10)

	for _, qty := range []int{1, 2} {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     soda.ID,
			"quantity":       qty,
			"payment_method": "Mpesa",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := api.do(http.MethodGet, "/api/v1/sales", identity.RoleCashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []appsales.SaleResponse
	decode(t, w, &history)
	require.Len(t, history, 2)
	for _, s := range history {
		assert.Equal(t, "Soda", s.ProductName)
	}

	w = api.do(http.MethodGet, "/api/v1/sales/payment-methods", identity.RoleCashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var methods PaymentMethodsResponse
	decode(t, w, &methods)
	assert.Equal(t, []string{"Cash", "Mpesa", "Card"}, methods.PaymentMethods)
}
