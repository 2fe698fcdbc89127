// ./internal/state/db.go
package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
// All token amounts are stored as NUMERIC(40, 0): integer smallest units,
// wide enough for any value the engine can produce.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS vaults (
			currency VARCHAR(16) PRIMARY KEY,
			tvl NUMERIC(40, 0) NOT NULL DEFAULT 0,
			accrued_lp_fees NUMERIC(40, 0) NOT NULL DEFAULT 0,
			accrued_treasury_fees NUMERIC(40, 0) NOT NULL DEFAULT 0,
			accrued_protocol_fees NUMERIC(40, 0) NOT NULL DEFAULT 0,
			fee_basis_points BIGINT NOT NULL,
			last_fee_update BIGINT NOT NULL DEFAULT 0,
			last_price NUMERIC(40, 0) NOT NULL DEFAULT 0,
			last_price_update BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS lp_positions (
			currency VARCHAR(16) NOT NULL REFERENCES vaults(currency),
			provider VARCHAR(128) NOT NULL,
			amount NUMERIC(40, 0) NOT NULL DEFAULT 0,
			last_deposit_time BIGINT NOT NULL DEFAULT 0,
			rewards_claimed NUMERIC(40, 0) NOT NULL DEFAULT 0,
			last_claim_time BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (currency, provider)
		);
		CREATE INDEX IF NOT EXISTS idx_lp_positions_provider ON lp_positions(provider);

		CREATE TABLE IF NOT EXISTS operation_receipts (
			receipt_id SERIAL PRIMARY KEY,
			operation_id VARCHAR(64) NOT NULL,
			operation_timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			operation_kind VARCHAR(32) NOT NULL,
			source_currency VARCHAR(16),
			target_currency VARCHAR(16),
			provider VARCHAR(128),
			amount_in NUMERIC(40, 0),
			amount_out NUMERIC(40, 0),
			fee NUMERIC(40, 0),
			success BOOLEAN NOT NULL,
			message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_operation_receipts_timestamp ON operation_receipts(operation_timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_operation_receipts_kind ON operation_receipts(operation_kind);
		CREATE INDEX IF NOT EXISTS idx_operation_receipts_provider ON operation_receipts(provider);

		-- Rebalance run counter for persistent global run tracking
		CREATE TABLE IF NOT EXISTS rebalance_counter (
			id INTEGER PRIMARY KEY DEFAULT 1,
			current_run INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT single_row_check CHECK (id = 1)
		);

		-- Insert initial row if it doesn't exist
		INSERT INTO rebalance_counter (id, current_run)
		VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err := DB.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}
	log.Info().Msg("Database schema ensured.")
	return nil
}

// TestDBConnection tests if the database connection is healthy
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Use a short timeout context for health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := DB.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
