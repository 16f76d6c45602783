// Package sales holds the inventory coordinator: the only path through which
// product stock and the sale ledger change together.
package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	operationRecord = "record"
	operationRevoke = "revoke"
)

// DefaultPriceTolerance is the largest accepted difference between a
// client-supplied total and the recomputed one.
var DefaultPriceTolerance = decimal.RequireFromString("0.01")

// CoordinatorOptions configures price checking and payment methods
type CoordinatorOptions struct {
	// EnforceServerPrice rejects client totals that differ from the
	// recomputed total by more than PriceTolerance. When false the client
	// total is stored as given.
	EnforceServerPrice bool
	PriceTolerance     decimal.Decimal
	PaymentMethods     sales.PaymentMethods
	// Location is the zone of sale dates given without a UTC offset
	Location *time.Location
	Clock    func() time.Time
	Logger             *zap.Logger
}

// DefaultCoordinatorOptions returns the options used when none are given
func DefaultCoordinatorOptions() CoordinatorOptions {
	return CoordinatorOptions{
		EnforceServerPrice: true,
		PriceTolerance:     DefaultPriceTolerance,
		PaymentMethods:     sales.DefaultPaymentMethods(),
		Location:           time.UTC,
		Clock:              time.Now,
	}
}

// Coordinator records and revokes sales. Each operation runs as a single
// unit of work, and operations on the same product are serialized.
type Coordinator struct {
	uow     UnitOfWork
	locks   *keyedMutex
	opts    CoordinatorOptions
	metrics *telemetry.SalesMetrics
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(uow UnitOfWork, opts CoordinatorOptions) *Coordinator {
	defaults := DefaultCoordinatorOptions()
	if opts.PriceTolerance.IsZero() || opts.PriceTolerance.IsNegative() {
		opts.PriceTolerance = defaults.PriceTolerance
	}
	if len(opts.PaymentMethods.All()) == 0 {
		opts.PaymentMethods = defaults.PaymentMethods
	}
	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}
	return &Coordinator{
		uow:   uow,
		locks: newKeyedMutex(),
		opts:  opts,
	}
}

// SetSalesMetrics sets the metrics recorder (optional)
func (c *Coordinator) SetSalesMetrics(m *telemetry.SalesMetrics) {
	c.metrics = m
}

// PaymentMethods returns the accepted payment methods
func (c *Coordinator) PaymentMethods() []sales.PaymentMethod {
	return c.opts.PaymentMethods.All()
}

// RecordSale validates the request, then decrements stock and appends the
// ledger entry in one transaction. It is not idempotent: every successful
// call records a new sale.
func (c *Coordinator) RecordSale(ctx context.Context, session *identity.Session, req RecordSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", operationRecord,
		telemetry.AttrProductID.Int64(req.ProductID),
		telemetry.AttrQuantity.Int64(req.Quantity),
	)
	defer span.End()
	started := time.Now()

	sale, err := c.recordSale(ctx, session, req)
	c.observe(ctx, operationRecord, started, err)
	if err != nil {
		telemetry.RecordError(span, err)
		c.log(ctx).Warn("Sale rejected",
			zap.Int64("product_id", req.ProductID),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrSaleID.Int64(sale.ID),
		telemetry.AttrPaymentMethod.String(sale.PaymentMethod.String()),
		telemetry.AttrAmount.String(sale.TotalPrice.StringFixed(2)),
	)
	if c.metrics != nil {
		c.metrics.RecordSale(ctx, sale.PaymentMethod.String(), sale.Quantity, sale.TotalPrice)
	}
	c.log(ctx).Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int64("quantity", sale.Quantity),
		zap.String("total_price", sale.TotalPrice.StringFixed(2)),
		zap.String("payment_method", sale.PaymentMethod.String()),
		zap.Int64p("recorded_by", sale.RecordedBy),
	)

	resp := ToSaleResponse(sale)
	return &resp, nil
}

func (c *Coordinator) recordSale(ctx context.Context, session *identity.Session, req RecordSaleRequest) (*sales.Sale, error) {
	if req.ProductID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product is required")
	}
	if err := sales.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := sales.ValidateDiscount(req.DiscountPercent); err != nil {
		return nil, err
	}
	if req.TotalPrice != nil && req.TotalPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Total price cannot be negative")
	}
	method, err := c.opts.PaymentMethods.Resolve(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := sales.ValidateBulk(req.IsBulk, req.BulkQuantity, req.Quantity); err != nil {
		return nil, err
	}

	saleDate := c.opts.Clock()
	if value := strings.TrimSpace(req.SaleDate); value != "" {
		if saleDate, err = sales.ParseSaleDate(value, c.opts.Location); err != nil {
			return nil, err
		}
	}

	unlock := c.locks.Lock(req.ProductID)
	defer unlock()

	var sale *sales.Sale
	err = c.uow.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.HasStock(req.Quantity) {
			return shared.ErrInsufficientStock
		}

		total, err := c.resolveTotal(product, req)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(sales.SaleParams{
			ProductID:       product.ID,
			Quantity:        req.Quantity,
			DiscountPercent: req.DiscountPercent,
			TotalPrice:      total,
			PaymentMethod:   method,
			SaleDate:        saleDate,
			IsBulk:          req.IsBulk,
			BulkQuantity:    req.BulkQuantity,
			RecordedBy:      session.UserIDRef(),
		})
		if err != nil {
			return err
		}

		if err := repos.Products().DecreaseStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}
		return repos.Sales().Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// resolveTotal returns the total to store for a sale of product
func (c *Coordinator) resolveTotal(product *catalog.Product, req RecordSaleRequest) (decimal.Decimal, error) {
	computed := sales.ComputeTotal(product.SellingPrice, req.Quantity, req.DiscountPercent, product.VAT)
	if req.TotalPrice == nil {
		return computed, nil
	}
	if !c.opts.EnforceServerPrice {
		return *req.TotalPrice, nil
	}
	if req.TotalPrice.Sub(computed).Abs().GreaterThan(c.opts.PriceTolerance) {
		return decimal.Zero, shared.NewDomainError(shared.CodePriceMismatch,
			"Total price "+shared.RoundMoney(*req.TotalPrice).StringFixed(2)+
				" does not match the computed total "+computed.StringFixed(2))
	}
	return computed, nil
}

// RevokeSale deletes a ledger entry and returns its quantity to the
// product's current stock in one transaction. Revoking the same sale twice
// fails with shared.ErrSaleNotFound.
func (c *Coordinator) RevokeSale(ctx context.Context, session *identity.Session, saleID int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", operationRevoke,
		telemetry.AttrSaleID.Int64(saleID),
	)
	defer span.End()
	started := time.Now()

	sale, err := c.revokeSale(ctx, saleID)
	c.observe(ctx, operationRevoke, started, err)
	if err != nil {
		telemetry.RecordError(span, err)
		c.log(ctx).Warn("Sale revoke rejected", zap.Int64("sale_id", saleID), zap.Error(err))
		return err
	}

	if c.metrics != nil {
		c.metrics.RecordRevoke(ctx)
	}
	c.log(ctx).Info("Sale revoked",
		zap.Int64("sale_id", saleID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int64("quantity", sale.Quantity),
		zap.Int64p("revoked_by", session.UserIDRef()),
	)
	return nil
}

func (c *Coordinator) revokeSale(ctx context.Context, saleID int64) (*sales.Sale, error) {
	if saleID <= 0 {
		return nil, shared.ErrSaleNotFound
	}

	// The product is only known after reading the sale; read it once outside
	// the lock and the transaction to pick the key, then re-read inside.
	existing, err := c.uow.Sales().FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(existing.ProductID)
	defer unlock()

	var sale *sales.Sale
	err = c.uow.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := repos.Sales().Delete(ctx, saleID); err != nil {
			return err
		}
		return repos.Products().IncreaseStock(ctx, sale.ProductID, sale.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}


func (c *Coordinator) observe(ctx context.Context, operation string, started time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordDuration(ctx, operation, time.Since(started), err == nil)
	if err != nil {
		c.metrics.RecordRejected(ctx, operation, errorCode(err))
	}
}

func (c *Coordinator) log(ctx context.Context) *logger.ContextLogger {
	return logger.Using(ctx, c.opts.Logger)
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "UNKNOWN"
}
