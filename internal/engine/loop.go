/*

Background rebalance loop. On every tick the engine walks all vault
pairs, asks the controller for a plan, and applies any funded injection.
Each pass gets a persistent run number and a UUID so the logs and
receipts of one pass can be traced end to end.

*/

package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/state"
	"github.com/openfx/fxvault/internal/types"
)

// RunLoop starts the rebalance loop with the specified interval.
func (e *Engine) RunLoop(ctx context.Context, interval time.Duration) {
	e.logger.Info().
		Dur("interval", interval).
		Msg("Starting rebalance loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run first pass immediately
	e.runCount++
	e.logger.Info().Int("run", e.runCount).Msg("Initiating rebalance pass")
	e.RunRebalancePass(ctx)
	e.logger.Info().Int("run", e.runCount).Msg("Rebalance pass completed")

	// Continue with ticker
	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("Rebalance loop stopped due to context cancellation")
			return
		case <-ticker.C:
			e.runCount++
			e.logger.Info().Int("run", e.runCount).Msg("Initiating rebalance pass")
			e.RunRebalancePass(ctx)
			e.logger.Info().Int("run", e.runCount).Msg("Rebalance pass completed")
		}
	}
}

// RunRebalancePass evaluates every vault pair once and applies any
// funded injections.
func (e *Engine) RunRebalancePass(ctx context.Context) {
	passStartTime := time.Now()

	passID := uuid.New().String()
	passLogger := e.logger.With().Str("pass_id", passID).Logger()
	passLogger.Info().Int("runNumber", e.getRunNumber()).Msg("--- Starting Rebalance Pass ---")

	vaults := e.ledger.Vaults()
	var planned, skipped int
	for i := 0; i < len(vaults); i++ {
		for j := i + 1; j < len(vaults); j++ {
			if ctx.Err() != nil {
				passLogger.Info().Msg("Rebalance pass interrupted by context cancellation")
				return
			}
			if e.rebalancePair(passLogger, vaults[i].Currency, vaults[j].Currency) {
				planned++
			} else {
				skipped++
			}
		}
	}

	passLogger.Info().
		Int("plansApplied", planned).
		Int("pairsSkipped", skipped).
		Str("passDuration", time.Since(passStartTime).String()).
		Msg("--- Rebalance Pass Completed ---")
}

// rebalancePair runs the controller for one pair. Returns true when a
// plan was applied.
func (e *Engine) rebalancePair(passLogger zerolog.Logger, a, b string) bool {
	operationID := uuid.New().String()
	opLogger := passLogger.With().Str("operation_id", operationID).Str("pair", a+"/"+b).Logger()

	plan, err := e.ledger.Rebalance(a, b, e.nowFn().Unix())
	if err != nil {
		if errorsIsNoAction(err) {
			opLogger.Debug().Msg("Pair outside intervention bands")
		} else {
			opLogger.Error().Err(err).Msg("Rebalance evaluation failed")
		}
		return false
	}

	receipt := e.newReceipt(operationID, types.OpRebalance)
	receipt.SourceCurrency = plan.SourceCurrency
	receipt.TargetCurrency = plan.TargetCurrency
	receipt.AmountOut = plan.Injection
	receipt.Success = true
	receipt.Message = "injection rate " + plan.InjectionRate.String()

	e.persistVault(opLogger, plan.TargetCurrency)
	e.saveReceipt(opLogger, receipt)

	opLogger.Info().
		Str("source", plan.SourceCurrency).
		Str("target", plan.TargetCurrency).
		Str("injection", plan.Injection.String()).
		Str("preHealth", plan.PreInjectionHealth.String()).
		Str("postHealth", plan.PostInjectionHealth.String()).
		Msg("Rebalance plan applied")
	return true
}

// errorsIsNoAction reports whether the controller declined to act, which
// is the expected outcome for most pairs.
func errorsIsNoAction(err error) bool {
	return errors.Is(err, fxerrors.ErrNoRebalanceNeeded) ||
		errors.Is(err, fxerrors.ErrInsufficientInjectionAmount)
}

// getRunNumber increments and returns the persistent run counter from database
func (e *Engine) getRunNumber() int {
	runNumber, err := state.IncrementRunNumber()
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to increment run number, using fallback")
		// Fallback to a simple counter if database fails
		return int(time.Now().Unix() % 1000000)
	}
	return runNumber
}
