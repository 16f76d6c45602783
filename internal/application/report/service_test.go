package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id int64) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSaleRepository) ListWithProduct(ctx context.Context) ([]sales.SaleWithProduct, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sales.SaleWithProduct), args.Error(1)
}

func (m *MockSaleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]sales.SaleWithProduct, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]sales.SaleWithProduct), args.Error(1)
}

func (m *MockSaleRepository) TotalsByPeriod(ctx context.Context, granularity sales.Granularity, loc *time.Location) ([]sales.PeriodTotal, error) {
	args := m.Called(ctx, granularity, loc)
	return args.Get(0).([]sales.PeriodTotal), args.Error(1)
}

func (m *MockSaleRepository) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockOwnerRepository is a mock implementation of OwnerRepository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Get(ctx context.Context) (*shop.Owner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *shop.Owner) error {
	return m.Called(ctx, owner).Error(0)
}

type stubPrinter struct {
	doc *SalesReportDocument
	err error
}

func (p *stubPrinter) PrintSalesReport(_ context.Context, doc *SalesReportDocument) ([]byte, error) {
	p.doc = doc
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4 report"), nil
}

type stubArchive struct {
	keys []string
	err  error
}

func (a *stubArchive) Store(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "archive://" + key, nil
}

var ctx = context.Background()

func periodTotal(period string, total int64, count int64) sales.PeriodTotal {
	return sales.PeriodTotal{Period: period, Total: decimal.NewFromInt(total), Count: count}
}

func ledgerRow(id int64, name string, qty int64, total string, at time.Time) sales.SaleWithProduct {
	return sales.SaleWithProduct{
		Sale: sales.Sale{
			BaseEntity:    shared.BaseEntity{ID: id},
			ProductID:     1,
			Quantity:      qty,
			TotalPrice:    decimal.RequireFromString(total),
			PaymentMethod: sales.PaymentCash,
			SaleDate:      at,
		},
		ProductName: name,
	}
}

func TestService_Totals(t *testing.T) {
	t.Run("daily buckets are ascending and sparse", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByDay, time.UTC).Return([]sales.PeriodTotal{
			periodTotal("2024-01-01", 50, 2),
			periodTotal("2024-02-01", 50, 1),
		}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		buckets, err := svc.DailyTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, []BucketResponse{
			{SaleDate: "2024-01-01", TotalSales: 50, SalesCount: 2},
			{SaleDate: "2024-02-01", TotalSales: 50, SalesCount: 1},
		}, buckets)
		repo.AssertExpectations(t)
	})

	t.Run("monthly and yearly", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByMonth, time.UTC).Return([]sales.PeriodTotal{
			periodTotal("2024-01", 50, 2),
			periodTotal("2024-02", 50, 1),
		}, nil)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByYear, time.UTC).Return([]sales.PeriodTotal{
			periodTotal("2024", 100, 3),
		}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		monthly, err := svc.MonthlyTotals(ctx)
		require.NoError(t, err)
		require.Len(t, monthly, 2)
		assert.Equal(t, "2024-01", monthly[0].SaleDate)
		assert.Equal(t, "2024-02", monthly[1].SaleDate)

		yearly, err := svc.YearlyTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, []BucketResponse{{SaleDate: "2024", TotalSales: 100, SalesCount: 3}}, yearly)
	})

	t.Run("grouping uses the reporting timezone", func(t *testing.T) {
		eat := time.FixedZone("EAT", 3*3600)
		repo := new(MockSaleRepository)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByDay, eat).Return([]sales.PeriodTotal{
			periodTotal("2024-01-02", 10, 1),
		}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{Location: eat})
		buckets, err := svc.DailyTotals(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, "2024-01-02", buckets[0].SaleDate)
		repo.AssertExpectations(t)
	})

	t.Run("empty ledger", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByDay, time.UTC).Return([]sales.PeriodTotal{}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		buckets, err := svc.DailyTotals(ctx)
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("TotalsByPeriod", mock.Anything, sales.ByYear, time.UTC).
			Return([]sales.PeriodTotal(nil), shared.NewStorageError(errors.New("disk")))

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		_, err := svc.YearlyTotals(ctx)
		assert.ErrorIs(t, err, shared.ErrStorage)
	})

	t.Run("unknown period", func(t *testing.T) {
		svc := NewService(new(MockSaleRepository), new(MockOwnerRepository), Options{})
		_, err := svc.Totals(ctx, report.Period("weekly"))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_RangeReport(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("inclusive calendar range", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("ListBetween", mock.Anything, jan1, jan3.AddDate(0, 0, 1)).Return([]sales.SaleWithProduct{
			ledgerRow(1, "Soda", 3, "30", jan1.Add(8*time.Hour)),
			ledgerRow(2, "Bread", 1, "20.50", jan3.Add(23*time.Hour)),
		}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		resp, err := svc.RangeReport(ctx, jan1, jan3.Add(15*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", resp.StartDate)
		assert.Equal(t, "2024-01-03", resp.EndDate)
		require.Len(t, resp.Sales, 2)
		assert.Equal(t, "Soda", resp.Sales[0].ProductName)
		assert.Equal(t, int64(4), resp.TotalQuantity)
		assert.InDelta(t, 50.50, resp.TotalSales, 0.001)
		repo.AssertExpectations(t)
	})

	t.Run("single day", func(t *testing.T) {
		repo := new(MockSaleRepository)
		repo.On("ListBetween", mock.Anything, jan1, jan1.AddDate(0, 0, 1)).Return([]sales.SaleWithProduct{}, nil)

		svc := NewService(repo, new(MockOwnerRepository), Options{})
		resp, err := svc.RangeReport(ctx, jan1, jan1)
		require.NoError(t, err)
		assert.Empty(t, resp.Sales)
		assert.Zero(t, resp.TotalSales)
	})

	t.Run("start after end", func(t *testing.T) {
		repo := new(MockSaleRepository)
		svc := NewService(repo, new(MockOwnerRepository), Options{})
		_, err := svc.RangeReport(ctx, jan3, jan1)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "ListBetween", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange(DateRangeQuery{StartDate: "2024-01-01", EndDate: "2024-01-31T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, 31, end.Day())

	_, _, err = ParseRange(DateRangeQuery{StartDate: "01/01/2024", EndDate: "2024-01-31"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_ProfitSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	year := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockSaleRepository)
	repo.On("SumBetween", mock.Anything, day, day.AddDate(0, 0, 1)).Return(decimal.RequireFromString("120.50"), nil)
	repo.On("SumBetween", mock.Anything, month, month.AddDate(0, 1, 0)).Return(decimal.RequireFromString("980"), nil)
	repo.On("SumBetween", mock.Anything, year, year.AddDate(1, 0, 0)).Return(decimal.RequireFromString("15000.255"), nil)

	svc := NewService(repo, new(MockOwnerRepository), Options{Clock: func() time.Time { return now }})
	resp, err := svc.ProfitSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120.50, resp.Daily)
	assert.Equal(t, 980.0, resp.Monthly)
	assert.Equal(t, 15000.26, resp.Yearly)
	assert.True(t, resp.AsOf.Equal(now))
	repo.AssertExpectations(t)
}

func TestService_ProfitSnapshot_StorageError(t *testing.T) {
	repo := new(MockSaleRepository)
	repo.On("SumBetween", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, shared.NewStorageError(errors.New("busy")))

	svc := NewService(repo, new(MockOwnerRepository), Options{})
	_, err := svc.ProfitSnapshot(ctx)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

func TestService_SalesHistory(t *testing.T) {
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo := new(MockSaleRepository)
	repo.On("ListWithProduct", mock.Anything).Return([]sales.SaleWithProduct{
		ledgerRow(2, "Bread", 1, "20", at.Add(time.Hour)),
		ledgerRow(1, "Soda", 2, "30", at),
	}, nil)

	svc := NewService(repo, new(MockOwnerRepository), Options{})
	history, err := svc.SalesHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].ID)
	assert.Equal(t, "Bread", history[0].ProductName)
}

func TestService_ExportRangeReportPDF(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	owner, err := shop.NewOwner(shop.Profile{ShopName: "Corner Shop", TaxID: "P051234567X"})
	require.NoError(t, err)

	newRepos := func() (*MockSaleRepository, *MockOwnerRepository) {
		saleRepo := new(MockSaleRepository)
		saleRepo.On("ListBetween", mock.Anything, jan1, jan1.AddDate(0, 0, 2)).Return([]sales.SaleWithProduct{
			ledgerRow(1, "Soda", 2, "232", jan1.Add(9*time.Hour)),
		}, nil)
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("Get", mock.Anything).Return(owner, nil)
		return saleRepo, ownerRepo
	}

	t.Run("disabled without a printer", func(t *testing.T) {
		svc := NewService(new(MockSaleRepository), new(MockOwnerRepository), Options{})
		_, err := svc.ExportRangeReportPDF(ctx, jan1, jan1)
		assert.ErrorIs(t, err, ErrExportUnavailable)
	})

	t.Run("renders and archives", func(t *testing.T) {
		saleRepo, ownerRepo := newRepos()
		printer := &stubPrinter{}
		archive := &stubArchive{}
		svc := NewService(saleRepo, ownerRepo, Options{
			Clock:   func() time.Time { return now },
			Printer: printer,
			Archive: archive,
		})

		export, err := svc.ExportRangeReportPDF(ctx, jan1, jan1.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, "sales-report-2024-01-01-to-2024-01-02.pdf", export.Filename)
		assert.Equal(t, []byte("%PDF-1.4 report"), export.Data)
		assert.Equal(t, "archive://reports/2024/02/sales-report-2024-01-01-to-2024-01-02.pdf", export.Location)

		require.NotNil(t, printer.doc)
		require.NotNil(t, printer.doc.Shop)
		assert.Equal(t, "Corner Shop", printer.doc.Shop.ShopName)
		assert.Equal(t, int64(2), printer.doc.TotalQuantity)
		assert.Equal(t, 232.0, printer.doc.TotalSales)
		assert.Equal(t, "UTC", printer.doc.Timezone)
	})

	t.Run("archive failure does not fail the export", func(t *testing.T) {
		saleRepo, ownerRepo := newRepos()
		svc := NewService(saleRepo, ownerRepo, Options{
			Printer: &stubPrinter{},
			Archive: &stubArchive{err: errors.New("bucket missing")},
		})

		export, err := svc.ExportRangeReportPDF(ctx, jan1, jan1.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, export.Location)
		assert.NotEmpty(t, export.Data)
	})

	t.Run("missing shop profile prints without header", func(t *testing.T) {
		saleRepo, _ := newRepos()
		ownerRepo := new(MockOwnerRepository)
		ownerRepo.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)
		printer := &stubPrinter{}
		svc := NewService(saleRepo, ownerRepo, Options{Printer: printer})

		_, err := svc.ExportRangeReportPDF(ctx, jan1, jan1.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Nil(t, printer.doc.Shop)
	})

	t.Run("render failure", func(t *testing.T) {
		saleRepo, ownerRepo := newRepos()
		svc := NewService(saleRepo, ownerRepo, Options{Printer: &stubPrinter{err: errors.New("chrome crashed")}})

		_, err := svc.ExportRangeReportPDF(ctx, jan1, jan1.AddDate(0, 0, 1))
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "chrome")
	})
}
