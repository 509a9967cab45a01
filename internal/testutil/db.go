// Package testutil provides shared database helpers for tests. Tests run
// against an in-memory SQLite database so the suite needs no running
// PostgreSQL; the schema below mirrors the goose migrations with
// SQLite-compatible types.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSchema = []string{
	`CREATE TABLE quotes (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		customer_name TEXT NOT NULL,
		customer_company TEXT,
		customer_contact TEXT,
		origin_city TEXT NOT NULL,
		destination_city TEXT NOT NULL,
		pickup_time DATETIME,
		delivery_deadline DATETIME,
		package_description TEXT,
		weight_kg REAL DEFAULT 0,
		traveler TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		flight_cost_total REAL NOT NULL DEFAULT 0,
		ground_cost_total REAL NOT NULL DEFAULT 0,
		time_cost_total REAL NOT NULL DEFAULT 0,
		other_cost_total REAL NOT NULL DEFAULT 0,
		total_cost REAL NOT NULL DEFAULT 0,
		margin_type TEXT,
		margin_value REAL DEFAULT 0,
		margin_amount REAL NOT NULL DEFAULT 0,
		price_to_customer REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'EUR',
		nights_at_destination INTEGER NOT NULL DEFAULT 0,
		days_out_total INTEGER NOT NULL DEFAULT 1,
		internal_note TEXT
	)`,
	`CREATE TABLE cost_items (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		quantity REAL DEFAULT 0,
		unit TEXT,
		unit_price REAL DEFAULT 0,
		line_total REAL DEFAULT 0,
		category TEXT
	)`,
	`CREATE TABLE flight_segments (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		from_iata TEXT,
		to_iata TEXT,
		departure DATETIME,
		arrival DATETIME,
		carrier_code TEXT,
		flight_number TEXT,
		price_component REAL DEFAULT 0
	)`,
}

// SetupTestDB opens a fresh in-memory database with the quote schema.
// Each test gets its own named shared-cache database so parallel tests
// never see each other's rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// Keep the shared in-memory database alive for the whole test
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)

	for _, ddl := range testSchema {
		require.NoError(t, db.Exec(ddl).Error)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
