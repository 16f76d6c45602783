package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/pos/backend/internal/application/catalog"
	appidentity "github.com/pos/backend/internal/application/identity"
	appreport "github.com/pos/backend/internal/application/report"
	appsales "github.com/pos/backend/internal/application/sales"
	appshop "github.com/pos/backend/internal/application/shop"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	middleware.SetupValidator()
}

// testAPI is the full HTTP stack over a migrated SQLite database
type testAPI struct {
	t        *testing.T
	db       *persistence.Database
	engine   *gin.Engine
	users    *appidentity.UserService
	auth     *appidentity.AuthService
	products *appcatalog.ProductService
	printer  *fakePrinter
	archive  *fakeArchive
	tokens   map[identity.Role]string
}

type apiOptions struct {
	printer *fakePrinter
	archive *fakeArchive
	now     time.Time
}

type fakePrinter struct {
	data []byte
	err  error
	docs []*appreport.SalesReportDocument
}

func (p *fakePrinter) PrintSalesReport(_ context.Context, doc *appreport.SalesReportDocument) ([]byte, error) {
	p.docs = append(p.docs, doc)
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Store(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "file:///archive/" + key, nil
}

func newTestAPI(t *testing.T, opts apiOptions) *testAPI {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "pos.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
	}
	m, err := migration.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop()
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	ownerRepo := persistence.NewGormShopOwnerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "handler-test-secret-at-least-32-chars",
		SessionDuration: time.Hour,
		Issuer:          "pos-test",
	})
	authService := appidentity.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), log)
	userService := appidentity.NewUserService(userRepo, log)

	coordinatorOpts := appsales.DefaultCoordinatorOptions()
	coordinatorOpts.Logger = log
	if !opts.now.IsZero() {
		now := opts.now
		coordinatorOpts.Clock = func() time.Time { return now }
	}
	coordinator := appsales.NewCoordinator(persistence.NewGormUnitOfWork(db.DB), coordinatorOpts)

	reportOpts := appreport.Options{Location: time.UTC, Logger: log}
	if !opts.now.IsZero() {
		now := opts.now
		reportOpts.Clock = func() time.Time { return now }
	}
	if opts.printer != nil {
		reportOpts.Printer = opts.printer
	}
	if opts.archive != nil {
		reportOpts.Archive = opts.archive
	}
	reportService := appreport.NewService(saleRepo, ownerRepo, reportOpts)
	productService := appcatalog.NewProductService(productRepo, categoryRepo)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	shopHandler := NewShopHandler(appshop.NewService(ownerRepo, log))
	salesHandler := NewSalesHandler(coordinator, reportService)
	categoryHandler := NewCategoryHandler(appcatalog.NewCategoryService(categoryRepo))
	productHandler := NewProductHandler(productService)
	reportHandler := NewReportHandler(reportService)
	healthHandler := NewHealthHandler("test", time.Second, map[string]Pinger{"database": db})

	admin := middleware.RequireRole(identity.RoleAdmin)
	staff := middleware.RequireRole(identity.RoleAdmin, identity.RoleCashier)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", healthHandler.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.RequireSession(middleware.AuthConfig{
		Authenticator: authService,
		SkipPaths:     []string{"/api/v1/auth/login"},
		Logger:        log,
	}))
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)
	api.POST("/users", admin, userHandler.Register)
	api.GET("/users", admin, userHandler.List)
	api.GET("/shop-owner", staff, shopHandler.Get)
	api.PUT("/shop-owner", admin, shopHandler.Upsert)
	api.POST("/sales", staff, salesHandler.Record)
	api.GET("/sales", staff, salesHandler.History)
	api.GET("/sales/payment-methods", staff, salesHandler.PaymentMethods)
	api.DELETE("/sales/:id", admin, salesHandler.Revoke)
	api.GET("/inventory", staff, productHandler.Inventory)
	api.GET("/catalog/categories", staff, categoryHandler.List)
	api.GET("/catalog/categories/:id", staff, categoryHandler.GetByID)
	api.POST("/catalog/categories", admin, categoryHandler.Create)
	api.PUT("/catalog/categories/:id", admin, categoryHandler.Update)
	api.GET("/catalog/products", staff, productHandler.List)
	api.GET("/catalog/products/:id", staff, productHandler.GetByID)
	api.POST("/catalog/products", admin, productHandler.Create)
	api.PUT("/catalog/products/:id", admin, productHandler.Update)
	api.GET("/reports/products", admin, productHandler.Report)
	api.GET("/reports/sales/daily", admin, reportHandler.Daily)
	api.GET("/reports/sales/monthly", admin, reportHandler.Monthly)
	api.GET("/reports/sales/yearly", admin, reportHandler.Yearly)
	api.GET("/reports/sales/range", admin, reportHandler.Range)
	api.GET("/reports/sales/range/pdf", admin, reportHandler.RangePDF)
	api.GET("/reports/profit", admin, reportHandler.Profit)

	a := &testAPI{
		t:        t,
		db:       db,
		engine:   engine,
		users:    userService,
		auth:     authService,
		products: productService,
		printer:  opts.printer,
		archive:  opts.archive,
		tokens:   map[identity.Role]string{},
	}
	a.tokens[identity.RoleAdmin] = a.createUser("boss", "boss@shop.test", identity.RoleAdmin)
	a.tokens[identity.RoleCashier] = a.createUser("till", "till@shop.test", identity.RoleCashier)
	return a
}

// createUser registers a user and returns a session token for it
func (a *testAPI) createUser(username, email string, role identity.Role) string {
	a.t.Helper()
	ctx := context.Background()
	_, err := a.users.Register(ctx, appidentity.RegisterUserRequest{
		Username: username,
		Email:    email,
		Password: "s3cretpass",
		Role:     role.String(),
	})
	require.NoError(a.t, err)

	login, err := a.auth.Login(ctx, appidentity.LoginRequest{Email: email, Password: "s3cretpass"})
	require.NoError(a.t, err)
	return login.Token
}

// do sends a request as role; an empty role sends no token
func (a *testAPI) do(method, path string, role identity.Role, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+a.tokens[role])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and its data into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
		Meta    *dto.Meta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return dto.Response{Success: raw.Success, Error: raw.Error, Meta: raw.Meta}
}

// seedCatalog creates a category and a zero-VAT product via the API
func (a *testAPI) seedCatalog(name string, price int64, stock int64) appcatalog.ProductResponse {
	a.t.Helper()

	var category appcatalog.CategoryResponse
	w := a.do(http.MethodPost, "/api/v1/catalog/categories", identity.RoleAdmin,
		map[string]any{"name": name + " category"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	decode(a.t, w, &category)

	var product appcatalog.ProductResponse
	w = a.do(http.MethodPost, "/api/v1/catalog/products", identity.RoleAdmin, map[string]any{
		"name":           name,
		"category_id":    category.ID,
		"purchase_price": price / 2,
		"selling_price":  price,
		"vat":            0,
		"stock_level":    stock,
		"supplier_name":  "Acme",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	decode(a.t, w, &product)
	return product
}
