package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

type saleProductRow struct {
	models.SaleModel
	ProductName string
}

func (r saleProductRow) toDomain() sales.SaleWithProduct {
	return sales.SaleWithProduct{Sale: *r.SaleModel.ToDomain(), ProductName: r.ProductName}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id int64) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrSaleNotFound)
	}
	return model.ToDomain(), nil
}

// Create appends a sale to the ledger. A product that vanished underneath
// the insert surfaces as shared.ErrProductNotFound.
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	var model models.SaleModel
	model.FromDomain(sale)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isForeignKeyViolation(err) {
			return shared.ErrProductNotFound
		}
		return translateError(err, shared.ErrSaleNotFound)
	}
	sale.ID = model.ID
	return nil
}

// Delete removes a sale from the ledger
func (r *GormSaleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, shared.ErrSaleNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrSaleNotFound
	}
	return nil
}

// ListWithProduct returns every sale with its product name, newest first
func (r *GormSaleRepository) ListWithProduct(ctx context.Context) ([]sales.SaleWithProduct, error) {
	var rows []saleProductRow
	if err := r.joined(ctx).
		Order("sales.sale_date DESC, sales.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrSaleNotFound)
	}
	return toSalesWithProduct(rows), nil
}

// ListBetween returns sales in [from, to) with their product name, oldest first
func (r *GormSaleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]sales.SaleWithProduct, error) {
	var rows []saleProductRow
	if err := r.joined(ctx).
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from.UTC(), to.UTC()).
		Order("sales.sale_date ASC, sales.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrSaleNotFound)
	}
	return toSalesWithProduct(rows), nil
}

// periodFormats holds the SQLite strftime and PostgreSQL to_char patterns
// that render sale_date in the layout of each granularity.
var periodFormats = map[sales.Granularity]struct{ sqlite, postgres string }{
	sales.ByDay:   {"%Y-%m-%d", "YYYY-MM-DD"},
	sales.ByMonth: {"%Y-%m", "YYYY-MM"},
	sales.ByYear:  {"%Y", "YYYY"},
}

// TotalsByPeriod groups the ledger by calendar period of sale_date in loc.
func (r *GormSaleRepository) TotalsByPeriod(ctx context.Context, granularity sales.Granularity, loc *time.Location) ([]sales.PeriodTotal, error) {
	if !granularity.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown period: "+string(granularity))
	}
	if loc == nil {
		loc = time.UTC
	}
	period, args := r.periodExpr(granularity, loc)

	var rows []struct {
		Period    string
		Total     decimal.Decimal
		SaleCount int64
	}
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Select(period+" AS period, SUM(total_price) AS total, COUNT(*) AS sale_count", args...).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrSaleNotFound)
	}

	totals := make([]sales.PeriodTotal, len(rows))
	for i, row := range rows {
		totals[i] = sales.PeriodTotal{
			Period: row.Period,
			Total:  shared.RoundMoney(row.Total),
			Count:  row.SaleCount,
		}
	}
	return totals, nil
}

// periodExpr renders sale_date as a period label in loc. PostgreSQL converts
// with the zone's own rules. SQLite has no zone database and shifts by the
// zone's current UTC offset instead.
func (r *GormSaleRepository) periodExpr(granularity sales.Granularity, loc *time.Location) (string, []any) {
	formats := periodFormats[granularity]
	_, offset := time.Now().In(loc).Zone()
	minutes := offset / 60

	if isPostgres(r.db) {
		if name := loc.String(); name != "Local" {
			return "to_char(sale_date AT TIME ZONE ?, '" + formats.postgres + "')", []any{name}
		}
		return "to_char((sale_date AT TIME ZONE 'UTC') + make_interval(mins => ?), '" + formats.postgres + "')", []any{minutes}
	}
	return "strftime('" + formats.sqlite + "', sale_date, ?)", []any{fmt.Sprintf("%+d minutes", minutes)}
}

// SumBetween sums total_price over [from, to)
func (r *GormSaleRepository) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("sale_date >= ? AND sale_date < ?", from.UTC(), to.UTC()).
		Scan(&row).Error; err != nil {
		return decimal.Zero, translateError(err, shared.ErrSaleNotFound)
	}
	return shared.RoundMoney(row.Total), nil
}

func (r *GormSaleRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sales").
		Select("sales.*, products.name AS product_name").
		Joins("JOIN products ON products.id = sales.product_id")
}

func toSalesWithProduct(rows []saleProductRow) []sales.SaleWithProduct {
	out := make([]sales.SaleWithProduct, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
