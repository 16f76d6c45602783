package sales

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memStore is a transactional in-memory store. Each Execute works on a copy
// of the state and swaps it in only when fn succeeds.
type memStore struct {
	mu         sync.Mutex
	products   map[int64]catalog.Product
	sales      map[int64]sales.Sale
	nextSaleID int64
	executions int

	// failCreate, when set, is returned by the next ledger insert
	failCreate error
}

func newMemStore(products ...*catalog.Product) *memStore {
	s := &memStore{
		products: make(map[int64]catalog.Product),
		sales:    make(map[int64]sales.Sale),
	}
	for _, p := range products {
		s.products[p.ID] = *p
	}
	return s
}

func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions++

	tx := &memTx{
		products:   make(map[int64]catalog.Product, len(s.products)),
		sales:      make(map[int64]sales.Sale, len(s.sales)),
		nextSaleID: s.nextSaleID,
		failCreate: s.failCreate,
	}
	for id, p := range s.products {
		tx.products[id] = p
	}
	for id, sale := range s.sales {
		tx.sales[id] = sale
	}

	if err := fn(tx); err != nil {
		if tx.failCreateUsed {
			s.failCreate = nil
		}
		return err
	}
	s.products = tx.products
	s.sales = tx.sales
	s.nextSaleID = tx.nextSaleID
	return nil
}

// Sales reads a snapshot of the committed ledger without a transaction
func (s *memStore) Sales() sales.SaleRepository {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := &memTx{sales: make(map[int64]sales.Sale, len(s.sales))}
	for id, sale := range s.sales {
		snapshot.sales[id] = sale
	}
	return memSales{snapshot}
}

func (s *memStore) stock(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockLevel
}

func (s *memStore) soldQuantity(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, sale := range s.sales {
		if sale.ProductID == productID {
			total += sale.Quantity
		}
	}
	return total
}

func (s *memStore) saleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *memStore) executionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executions
}

func (s *memStore) setStock(id, stock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.StockLevel = stock
	s.products[id] = p
}

type memTx struct {
	products       map[int64]catalog.Product
	sales          map[int64]sales.Sale
	nextSaleID     int64
	failCreate     error
	failCreateUsed bool
}

func (tx *memTx) Products() catalog.ProductRepository { return memProducts{tx} }
func (tx *memTx) Sales() sales.SaleRepository         { return memSales{tx} }

type memProducts struct{ tx *memTx }

func (r memProducts) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.tx.products[id]
	if !ok {
		return nil, shared.ErrProductNotFound
	}
	return &p, nil
}

func (r memProducts) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r memProducts) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.tx.products))
	for _, p := range r.tx.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.tx.products)), nil
}

func (r memProducts) ListStockLevels(context.Context) ([]catalog.StockLevel, error) {
	out := make([]catalog.StockLevel, 0, len(r.tx.products))
	for _, p := range r.tx.products {
		out = append(out, catalog.StockLevel{ID: p.ID, Name: p.Name, StockLevel: p.StockLevel})
	}
	return out, nil
}

func (r memProducts) ListWithCategory(context.Context) ([]catalog.ProductWithCategory, error) {
	return nil, nil
}

func (r memProducts) Save(_ context.Context, product *catalog.Product) error {
	r.tx.products[product.ID] = *product
	return nil
}

func (r memProducts) DecreaseStock(_ context.Context, id int64, quantity int64) error {
	p, ok := r.tx.products[id]
	if !ok {
		return shared.ErrProductNotFound
	}
	if p.StockLevel < quantity {
		return shared.ErrInsufficientStock
	}
	p.StockLevel -= quantity
	r.tx.products[id] = p
	return nil
}

func (r memProducts) IncreaseStock(_ context.Context, id int64, quantity int64) error {
	p, ok := r.tx.products[id]
	if !ok {
		return shared.ErrProductNotFound
	}
	p.StockLevel += quantity
	r.tx.products[id] = p
	return nil
}

type memSales struct{ tx *memTx }

func (r memSales) FindByID(_ context.Context, id int64) (*sales.Sale, error) {
	sale, ok := r.tx.sales[id]
	if !ok {
		return nil, shared.ErrSaleNotFound
	}
	return &sale, nil
}

func (r memSales) Create(_ context.Context, sale *sales.Sale) error {
	if r.tx.failCreate != nil {
		r.tx.failCreateUsed = true
		return r.tx.failCreate
	}
	if _, ok := r.tx.products[sale.ProductID]; !ok {
		return shared.ErrProductNotFound
	}
	r.tx.nextSaleID++
	sale.ID = r.tx.nextSaleID
	r.tx.sales[sale.ID] = *sale
	return nil
}

func (r memSales) Delete(_ context.Context, id int64) error {
	if _, ok := r.tx.sales[id]; !ok {
		return shared.ErrSaleNotFound
	}
	delete(r.tx.sales, id)
	return nil
}

func (r memSales) ListWithProduct(context.Context) ([]sales.SaleWithProduct, error) {
	return nil, nil
}

func (r memSales) ListBetween(context.Context, time.Time, time.Time) ([]sales.SaleWithProduct, error) {
	return nil, nil
}

func (r memSales) TotalsByPeriod(context.Context, sales.Granularity, *time.Location) ([]sales.PeriodTotal, error) {
	return nil, nil
}

func (r memSales) SumBetween(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
