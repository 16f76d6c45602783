package catalog

import (
	"context"
	"testing"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validProductRequest() CreateProductRequest {
	return CreateProductRequest{
		Name:          "Soda 500ml",
		CategoryID:    1,
		PurchasePrice: decimal.NewFromInt(40),
		SellingPrice:  decimal.NewFromInt(60),
		VAT:           decimal.NewFromInt(16),
		StockLevel:    10,
		SupplierName:  "Acme Bottlers",
	}
}

func existingProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(validProductRequest().fields())
	require.NoError(t, err)
	p.ID = 7
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product in existing category", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		categories.On("Exists", ctx, int64(1)).Return(true, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { args.Get(1).(*catalog.Product).ID = 7 }).
			Return(nil)

		svc := NewProductService(products, categories)
		resp, err := svc.Create(ctx, validProductRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, int64(10), resp.StockLevel)
		assert.True(t, resp.VAT.Equal(decimal.NewFromInt(16)))
		products.AssertExpectations(t)
		categories.AssertExpectations(t)
	})

	t.Run("missing category stores nothing", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		categories.On("Exists", ctx, int64(9999)).Return(false, nil)

		req := validProductRequest()
		req.CategoryID = 9999
		svc := NewProductService(products, categories)
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrCategoryNotFound)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative values are rejected before storage", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)

		req := validProductRequest()
		req.SellingPrice = decimal.NewFromInt(-5)
		svc := NewProductService(products, categories)
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		categories.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields including stock", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, int64(7)).Return(existingProduct(t), nil)
		categories.On("Exists", ctx, int64(2)).Return(true, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		req := validProductRequest()
		req.CategoryID = 2
		req.StockLevel = 25
		svc := NewProductService(products, categories)
		resp, err := svc.Update(ctx, 7, req)
		require.NoError(t, err)
		assert.Equal(t, int64(25), resp.StockLevel)
		assert.Equal(t, int64(2), resp.CategoryID)
	})

	t.Run("missing product", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, int64(8)).Return(nil, shared.ErrProductNotFound)

		svc := NewProductService(products, categories)
		_, err := svc.Update(ctx, 8, validProductRequest())
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})

	t.Run("missing new category", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, int64(7)).Return(existingProduct(t), nil)
		categories.On("Exists", ctx, int64(42)).Return(false, nil)

		req := validProductRequest()
		req.CategoryID = 42
		svc := NewProductService(products, categories)
		_, err := svc.Update(ctx, 7, req)
		assert.ErrorIs(t, err, shared.ErrCategoryNotFound)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "soda" && f.CategoryID == 1 && f.Page == 2 && f.PageSize == 5
	})
	products.On("FindAll", ctx, matchFilter).Return([]catalog.Product{*existingProduct(t)}, nil)
	products.On("Count", ctx, matchFilter).Return(int64(6), nil)

	svc := NewProductService(products, categories)
	items, total, err := svc.List(ctx, ProductListFilter{Search: "soda", CategoryID: 1, Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(6), total)
	products.AssertExpectations(t)
}

func TestProductService_Projections(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)

	products.On("ListStockLevels", ctx).Return([]catalog.StockLevel{{ID: 7, Name: "Soda", StockLevel: 3}}, nil)
	products.On("ListWithCategory", ctx).Return([]catalog.ProductWithCategory{
		{Product: *existingProduct(t), CategoryName: "Drinks"},
	}, nil)

	svc := NewProductService(products, categories)

	levels, err := svc.InventoryData(ctx)
	require.NoError(t, err)
	assert.Equal(t, []StockLevelResponse{{ID: 7, Name: "Soda", StockLevel: 3}}, levels)

	report, err := svc.ProductsReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "Drinks", report[0].CategoryName)
	assert.Equal(t, "Soda 500ml", report[0].Name)
}
