package catalog

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// ProductService handles product catalog operations. Stock changes from
// sales go through the sales coordinator, never through this service.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product in an existing category
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.fields())
	if err != nil {
		return nil, err
	}

	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.fields()); err != nil {
		return nil, err
	}

	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a page of products and the total number of matches
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.CategoryID = filter.CategoryID
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, total, nil
}

// InventoryData returns the id, name and stock level of every product
func (s *ProductService) InventoryData(ctx context.Context) ([]StockLevelResponse, error) {
	levels, err := s.productRepo.ListStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevelResponse, len(levels))
	for i, l := range levels {
		out[i] = StockLevelResponse{ID: l.ID, Name: l.Name, StockLevel: l.StockLevel}
	}
	return out, nil
}

// ProductsReport returns every product with its category name
func (s *ProductService) ProductsReport(ctx context.Context) ([]ProductResponse, error) {
	rows, err := s.productRepo.ListWithCategory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, len(rows))
	for i := range rows {
		out[i] = ToProductResponse(&rows[i].Product)
		out[i].CategoryName = rows[i].CategoryName
	}
	return out, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID int64) error {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrCategoryNotFound
	}
	return nil
}
