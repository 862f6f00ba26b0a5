// Package testutil provides a disposable PostgreSQL database for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB starts a PostgreSQL container, connects a pool and applies the
// schema. Tests are skipped in short mode.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all rows from every application table.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE audit_logs, wallet_history, order_items, orders, cart_items,
			discounts, addresses, products, categories, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

var phoneSeq atomic.Int64

// SeedUser inserts a user with the given wallet balance and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, name string, balance string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO users (name, phone_number, wallet_balance) VALUES ($1, $2, $3) RETURNING id",
		name, fmt.Sprintf("0912%07d", phoneSeq.Add(1)), decimal.RequireFromString(balance),
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return id
}

// SeedAddress inserts an address for the user and returns its id.
func SeedAddress(t *testing.T, pool *pgxpool.Pool, userID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO addresses (user_id, description, province, city) VALUES ($1, $2, $3, $4) RETURNING id",
		userID, "12 Test Street", "Tehran", "Tehran",
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed address for user %d: %v", userID, err)
	}
	return id
}

// SeedProduct inserts an active product with the given price and stock and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, title string, price string, stock int) int64 {
	t.Helper()

	p := decimal.RequireFromString(price)
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO products (title, description, image1, stock, before_discount_price, discount_percentage, price)
		VALUES ($1, $2, $3, $4, $5, 0, $5)
		RETURNING id
	`, title, title+" description", "images/"+title+".jpg", stock, p).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", title, err)
	}
	return id
}

// SeedCartItem puts a product into a user's cart.
func SeedCartItem(t *testing.T, pool *pgxpool.Pool, userID, productID int64, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)",
		userID, productID, quantity,
	)
	if err != nil {
		t.Fatalf("failed to seed cart item: %v", err)
	}
}

// SeedDiscount inserts a discount code and returns its id.
func SeedDiscount(t *testing.T, pool *pgxpool.Pool, code string, percentage string, maxAmount *string, expiresAt *time.Time) int64 {
	t.Helper()

	var maxAmt *decimal.Decimal
	if maxAmount != nil {
		m := decimal.RequireFromString(*maxAmount)
		maxAmt = &m
	}

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO discounts (code, percentage, max_amount, expires_at) VALUES ($1, $2, $3, $4) RETURNING id",
		code, decimal.RequireFromString(percentage), maxAmt, expiresAt,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed discount %s: %v", code, err)
	}
	return id
}
