// Package integration runs the persistence and identity stack against real
// PostgreSQL and Redis servers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	testDBName     = "pos_test"
	testDBUser     = "postgres"
	testDBPassword = "pos-secret"
)

var (
	// Shared container for all tests in the package
	sharedContainer   testcontainers.Container
	sharedContainerMu sync.Mutex
	sharedConfig      config.DatabaseConfig
)

// TestDB is a migrated PostgreSQL database opened through the production
// persistence layer
type TestDB struct {
	*persistence.Database
	Config    config.DatabaseConfig
	Container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts a dedicated PostgreSQL container and applies the
// embedded migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	container, cfg := startPostgres(t)
	applyMigrations(t, &cfg)

	db := &TestDB{Database: openDatabase(t, &cfg), Config: cfg, Container: container, t: t}
	t.Cleanup(db.Close)
	return db
}

// NewSharedTestDB connects to a container shared by the package. Callers
// truncate the tables they use with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	sharedContainerMu.Lock()
	if sharedContainer == nil {
		sharedContainer, sharedConfig = startPostgres(t)
		applyMigrations(t, &sharedConfig)
	}
	container, cfg := sharedContainer, sharedConfig
	sharedContainerMu.Unlock()

	db := &TestDB{Database: openDatabase(t, &cfg), Config: cfg, Container: container, t: t}
	t.Cleanup(func() {
		_ = db.Database.Close()
	})
	return db
}

// Close closes the connection pool and terminates a dedicated container
func (tdb *TestDB) Close() {
	_ = tdb.Database.Close()
	if tdb.Container != nil && tdb.Container != sharedContainer {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := tdb.Container.Terminate(ctx); err != nil {
			tdb.t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q RESTART IDENTITY CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
	}
}

func skipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

func startPostgres(t *testing.T) (testcontainers.Container, config.DatabaseConfig) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return container, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         testDBUser,
		Password:     testDBPassword,
		DBName:       testDBName,
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}
}

func applyMigrations(t *testing.T, cfg *config.DatabaseConfig) {
	t.Helper()

	m, err := migration.Open(cfg, zap.NewNop())
	require.NoError(t, err, "Failed to open migrator")
	defer func() {
		_ = m.Close()
	}()
	require.NoError(t, m.Up(), "Failed to run migrations")
}

func openDatabase(t *testing.T, cfg *config.DatabaseConfig) *persistence.Database {
	t.Helper()

	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err, "Failed to connect to database")
	return db
}
