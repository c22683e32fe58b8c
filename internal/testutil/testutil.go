package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/api"
	"github.com/dom/lightprompt/internal/api/middleware"
	"github.com/dom/lightprompt/internal/config"
	"github.com/dom/lightprompt/internal/metrics"
	repoPostgres "github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container and migrates the full schema
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_lightprompt"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"device_integrations",
		"fitness_data",
		"recommendations",
		"wellness_patterns",
		"home_kit_data",
		"apple_health_data",
		"habit_entries",
		"habits",
		"wellness_metrics",
		"access_codes",
		"messages",
		"chat_sessions",
		"user_profiles",
		"users",
	}

	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if err := tdb.DB.Exec(stmt).Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		LogLevel:           "error",
		CORSOrigin:         "*",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		DefaultTokenLimit:  10,
		AccessCodeTTL:      24 * time.Hour,
		RateLimitPerMinute: 10000,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Store    *repoPostgres.Storage
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
	Registry *prometheus.Registry
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	store := repoPostgres.NewStorage(testDB.DB)
	hub := websocket.NewHub()
	go hub.Run()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	services := service.NewServices(store, cfg, collector, hub)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	router := api.NewRouter(api.Deps{
		Services:  services,
		Hub:       hub,
		Config:    cfg,
		Metrics:   collector,
		Gatherer:  registry,
		RateLimit: limiter,
	})

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Store:    store,
		Services: services,
		Hub:      hub,
		Config:   cfg,
		Registry: registry,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
		limiter.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the stream URL for one chat session
func (ts *TestServer) WebSocketURL(token, sessionID string) string {
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http")
	return fmt.Sprintf("%s/api/v1/ws?token=%s&sessionId=%s", wsURL, token, sessionID)
}
