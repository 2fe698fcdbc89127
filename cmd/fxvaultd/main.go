package main

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/openfx/fxvault/internal/config"
	"github.com/openfx/fxvault/internal/engine"
	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/ledger"
	"github.com/openfx/fxvault/internal/logger"
	"github.com/openfx/fxvault/internal/oracle"
	"github.com/openfx/fxvault/internal/state"
	"github.com/openfx/fxvault/internal/web"
)

// main is the entry point for the vault engine.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("FX Vault Engine Starting...")

	// Initialize Database Connection
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// --- 2. Ledger Restore & Vault Creation ---
	book := ledger.New()

	persisted, err := state.LoadVaults()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load persisted vaults")
	}
	for _, v := range persisted {
		positions, err := state.LoadPositions(v.Currency)
		if err != nil {
			log.Fatal().Err(err).Str("currency", v.Currency).Msg("Failed to load persisted positions")
		}
		book.Restore(v, positions)
		log.Info().Str("currency", v.Currency).Str("tvl", v.TVL.String()).Int("positions", len(positions)).Msg("Restored vault from database")
	}

	now := time.Now().Unix()
	for _, currency := range config.VaultCurrencies {
		v, err := book.CreateVault(currency, config.DefaultFeeBps, now)
		if err != nil {
			if errors.Is(err, fxerrors.ErrVaultAlreadyExists) {
				continue
			}
			log.Fatal().Err(err).Str("currency", currency).Msg("Failed to create vault")
		}
		if err := state.SaveVault(v); err != nil {
			log.Fatal().Err(err).Str("currency", currency).Msg("Failed to persist new vault")
		}
		log.Info().Str("currency", currency).Uint64("feeBps", v.FeeBasisPoints).Msg("Created vault")
	}

	// --- 3. Create Engine Instance with Dependency Injection ---
	log.Info().Msg("Creating engine instance with dependency injection...")

	rates := oracle.NewHTTPClient(config.OracleURL, config.OracleMaxAgeSeconds)

	engineInstance, err := engine.NewEngine(engine.Config{
		Ledger:             book,
		Oracle:             rates,
		Transferor:         engine.NoopTransferor{},
		MaxPriceAgeSeconds: config.OracleMaxAgeSeconds,
		TreasuryAccount:    config.TreasuryAccount,
		ProtocolAccount:    config.ProtocolAccount,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine instance")
	}

	log.Info().Msg("Engine instance created successfully")

	// --- 4. Start Web Server ---
	webServer := web.NewWebServer(engineInstance, config.WebPort)
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting vault API server")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 5. Start Rebalance Loop ---
	interval := time.Duration(config.RebalanceIntervalMinutes) * time.Minute
	log.Info().Str("interval", interval.String()).Msg("Starting rebalance loop")

	// Create context for graceful shutdown
	ctx := context.Background()

	// Start the rebalance loop (this will run indefinitely)
	engineInstance.RunLoop(ctx, interval)
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
