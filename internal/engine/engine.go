package engine

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/openfx/fxvault/internal/ledger"
	"github.com/openfx/fxvault/internal/logger"
	"github.com/openfx/fxvault/internal/oracle"
	"github.com/openfx/fxvault/internal/state"
	"github.com/openfx/fxvault/internal/types"
)

// Transferor moves real funds between the vault system and external
// accounts. The ledger only tracks accounting; every external movement
// goes through this interface.
type Transferor interface {
	// Collect pulls amount of currency from an external account into the
	// vault system.
	Collect(ctx context.Context, currency, from string, amount sdkmath.Int) error
	// Payout pushes amount of currency from the vault system to an
	// external account.
	Payout(ctx context.Context, currency, to string, amount sdkmath.Int) error
}

// NoopTransferor acknowledges transfers without moving funds, for
// deployments where settlement happens out of band.
type NoopTransferor struct{}

func (NoopTransferor) Collect(context.Context, string, string, sdkmath.Int) error { return nil }
func (NoopTransferor) Payout(context.Context, string, string, sdkmath.Int) error  { return nil }

// Engine wires the ledger, the oracle, and the transfer rail together
// and owns persistence and receipts for every operation.
type Engine struct {
	// Core dependencies
	logger     zerolog.Logger
	ledger     *ledger.Ledger
	oracle     oracle.Adapter
	transferor Transferor

	// Configuration
	maxPriceAgeSeconds uint64
	treasuryAccount    string
	protocolAccount    string

	// Runtime state
	nowFn    func() time.Time
	runCount int
}

// Config holds the configuration for creating a new Engine instance
type Config struct {
	Ledger             *ledger.Ledger
	Oracle             oracle.Adapter
	Transferor         Transferor
	MaxPriceAgeSeconds uint64
	TreasuryAccount    string
	ProtocolAccount    string
}

// NewEngine creates a new Engine instance with dependency injection
func NewEngine(cfg Config) (*Engine, error) {
	if err := validateEngineConfig(cfg); err != nil {
		return nil, fmt.Errorf("engine configuration validation failed: %w", err)
	}

	e := &Engine{
		logger:             logger.GetForComponent("engine_core"),
		ledger:             cfg.Ledger,
		oracle:             cfg.Oracle,
		transferor:         cfg.Transferor,
		maxPriceAgeSeconds: cfg.MaxPriceAgeSeconds,
		treasuryAccount:    cfg.TreasuryAccount,
		protocolAccount:    cfg.ProtocolAccount,
		nowFn:              time.Now,
	}

	e.logger.Info().
		Uint64("maxPriceAgeSeconds", e.maxPriceAgeSeconds).
		Msg("Engine instance created successfully with dependency injection")

	return e, nil
}

// validateEngineConfig validates the Engine configuration
func validateEngineConfig(cfg Config) error {
	if cfg.Ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}
	if cfg.Oracle == nil {
		return fmt.Errorf("oracle adapter cannot be nil")
	}
	if cfg.Transferor == nil {
		return fmt.Errorf("transferor cannot be nil")
	}
	if cfg.MaxPriceAgeSeconds == 0 {
		return fmt.Errorf("max price age must be positive")
	}
	if cfg.TreasuryAccount == "" {
		return fmt.Errorf("treasury account cannot be empty")
	}
	if cfg.ProtocolAccount == "" {
		return fmt.Errorf("protocol account cannot be empty")
	}
	return nil
}

// Ledger exposes the underlying ledger for read-only API access.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// persistVault writes a vault's current state through to the database.
// Persistence is best effort: the in-memory ledger is authoritative and a
// write failure is logged, not propagated.
func (e *Engine) persistVault(opLogger zerolog.Logger, currency string) {
	v, err := e.ledger.Vault(currency)
	if err != nil {
		opLogger.Error().Err(err).Str("currency", currency).Msg("Failed to read vault for persistence")
		return
	}
	if err := state.SaveVault(v); err != nil {
		opLogger.Error().Err(err).Str("currency", currency).Msg("Failed to persist vault")
	}
}

// persistPosition writes one position through to the database.
func (e *Engine) persistPosition(opLogger zerolog.Logger, currency, provider string) {
	p, err := e.ledger.Position(currency, provider)
	if err != nil {
		opLogger.Error().Err(err).Str("currency", currency).Str("provider", provider).Msg("Failed to read position for persistence")
		return
	}
	if err := state.SavePosition(p); err != nil {
		opLogger.Error().Err(err).Str("currency", currency).Str("provider", provider).Msg("Failed to persist position")
	}
}

// deletePosition removes a closed position from the database.
func (e *Engine) deletePosition(opLogger zerolog.Logger, currency, provider string) {
	if err := state.DeletePosition(currency, provider); err != nil {
		opLogger.Error().Err(err).Str("currency", currency).Str("provider", provider).Msg("Failed to delete persisted position")
	}
}

// saveReceipt records the audit trail for one operation.
func (e *Engine) saveReceipt(opLogger zerolog.Logger, r types.OperationReceipt) {
	if _, err := state.SaveOperationReceipt(r); err != nil {
		opLogger.Error().Err(err).Str("operation_id", r.OperationID).Msg("Failed to save operation receipt")
	}
}

func (e *Engine) newReceipt(operationID string, kind types.OperationKind) types.OperationReceipt {
	return types.OperationReceipt{
		OperationID: operationID,
		Kind:        kind,
		AmountIn:    sdkmath.ZeroInt(),
		AmountOut:   sdkmath.ZeroInt(),
		Fee:         sdkmath.ZeroInt(),
		Timestamp:   e.nowFn(),
	}
}
