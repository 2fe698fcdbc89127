/*

Provider and trader facing engine operations. Each operation gets a UUID
threaded through its logs and receipt, moves external funds through the
transferor, applies the ledger transition, and persists the touched
records. The in-memory ledger is authoritative; persistence and receipts
are best effort.

*/

package engine

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"

	"github.com/openfx/fxvault/internal/ledger"
	"github.com/openfx/fxvault/internal/oracle"
	"github.com/openfx/fxvault/internal/pricing"
	"github.com/openfx/fxvault/internal/types"
)

// Deposit collects amount from the provider's external account and books
// it into the vault.
func (e *Engine) Deposit(ctx context.Context, currency, provider string, amount sdkmath.Int) (types.LiquidityPosition, error) {
	operationID := uuid.New().String()
	opLogger := e.logger.With().Str("operation_id", operationID).Str("currency", currency).Str("provider", provider).Logger()
	receipt := e.newReceipt(operationID, types.OpDeposit)
	receipt.SourceCurrency = currency
	receipt.Provider = provider
	receipt.AmountIn = amount

	if err := e.transferor.Collect(ctx, currency, provider, amount); err != nil {
		opLogger.Error().Err(err).Msg("Deposit collection failed")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return types.LiquidityPosition{}, err
	}

	position, err := e.ledger.Deposit(currency, provider, amount, e.nowFn().Unix())
	if err != nil {
		opLogger.Error().Err(err).Msg("Deposit rejected, refunding collected funds")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		if refundErr := e.transferor.Payout(ctx, currency, provider, amount); refundErr != nil {
			opLogger.Error().Err(refundErr).Str("amount", amount.String()).Msg("CRITICAL: refund after failed deposit also failed")
		}
		return types.LiquidityPosition{}, err
	}

	receipt.Success = true
	e.persistVault(opLogger, currency)
	e.persistPosition(opLogger, currency, provider)
	e.saveReceipt(opLogger, receipt)

	opLogger.Info().Str("amount", amount.String()).Str("positionAmount", position.Amount.String()).Msg("Deposit booked")
	return position, nil
}

// Withdraw takes amount out of the provider's position, pays out the net
// amount, and leaves the early-exit penalty in the vault's treasury
// bucket. A withdrawal of the full position closes it.
func (e *Engine) Withdraw(ctx context.Context, currency, provider string, amount sdkmath.Int) (ledger.WithdrawalResult, error) {
	operationID := uuid.New().String()
	opLogger := e.logger.With().Str("operation_id", operationID).Str("currency", currency).Str("provider", provider).Logger()
	receipt := e.newReceipt(operationID, types.OpWithdraw)
	receipt.SourceCurrency = currency
	receipt.Provider = provider
	receipt.AmountIn = amount

	result, err := e.ledger.Withdraw(currency, provider, amount, e.nowFn().Unix())
	if err != nil {
		opLogger.Error().Err(err).Msg("Withdrawal rejected")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return ledger.WithdrawalResult{}, err
	}

	receipt.Success = true
	receipt.AmountOut = result.Net
	receipt.Fee = result.Penalty
	e.persistVault(opLogger, currency)
	if result.Remaining.IsZero() {
		e.deletePosition(opLogger, currency, provider)
	} else {
		e.persistPosition(opLogger, currency, provider)
	}
	e.saveReceipt(opLogger, receipt)

	if err := e.transferor.Payout(ctx, currency, provider, result.Net); err != nil {
		opLogger.Error().Err(err).Str("amount", result.Net.String()).Msg("CRITICAL: withdrawal payout failed after ledger update")
		return result, err
	}

	opLogger.Info().
		Str("gross", result.Gross.String()).
		Str("penalty", result.Penalty.String()).
		Str("net", result.Net.String()).
		Str("remaining", result.Remaining.String()).
		Uint64("penaltyBps", result.PenaltyBps).
		Msg("Withdrawal completed")
	return result, nil
}

// Swap converts amountIn of the source currency into the target currency
// for the trader at the current oracle rate.
func (e *Engine) Swap(ctx context.Context, sourceCurrency, targetCurrency, trader string, amountIn, minAmountOut sdkmath.Int) (ledger.SwapResult, error) {
	operationID := uuid.New().String()
	opLogger := e.logger.With().
		Str("operation_id", operationID).
		Str("source", sourceCurrency).
		Str("target", targetCurrency).
		Str("trader", trader).
		Logger()
	receipt := e.newReceipt(operationID, types.OpSwap)
	receipt.SourceCurrency = sourceCurrency
	receipt.TargetCurrency = targetCurrency
	receipt.Provider = trader
	receipt.AmountIn = amountIn

	quote, err := e.oracle.Price(ctx, sourceCurrency, targetCurrency)
	if err != nil {
		opLogger.Error().Err(err).Msg("Swap aborted: no usable oracle rate")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return ledger.SwapResult{}, err
	}

	if err := e.transferor.Collect(ctx, sourceCurrency, trader, amountIn); err != nil {
		opLogger.Error().Err(err).Msg("Swap collection failed")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return ledger.SwapResult{}, err
	}

	result, err := e.ledger.Swap(sourceCurrency, targetCurrency, amountIn, quote.Price, true, minAmountOut, e.nowFn().Unix())
	if err != nil {
		opLogger.Error().Err(err).Msg("Swap rejected, refunding collected funds")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		if refundErr := e.transferor.Payout(ctx, sourceCurrency, trader, amountIn); refundErr != nil {
			opLogger.Error().Err(refundErr).Str("amount", amountIn.String()).Msg("CRITICAL: refund after failed swap also failed")
		}
		return ledger.SwapResult{}, err
	}

	receipt.Success = true
	receipt.AmountOut = result.AmountOut
	receipt.Fee = result.Fee
	e.persistVault(opLogger, sourceCurrency)
	e.persistVault(opLogger, targetCurrency)
	e.saveReceipt(opLogger, receipt)

	if err := e.transferor.Payout(ctx, targetCurrency, trader, result.AmountOut); err != nil {
		opLogger.Error().Err(err).Str("amount", result.AmountOut.String()).Msg("CRITICAL: swap payout failed after ledger update")
		return result, err
	}

	opLogger.Info().
		Str("amountIn", amountIn.String()).
		Str("amountOut", result.AmountOut.String()).
		Str("fee", result.Fee.String()).
		Uint64("spreadBps", result.SpreadBps).
		Str("health", result.Health.String()).
		Msg("Swap executed")
	return result, nil
}

// Quote prices a prospective swap without touching any state.
func (e *Engine) Quote(ctx context.Context, sourceCurrency, targetCurrency string, amountIn sdkmath.Int) (pricing.SwapQuote, error) {
	health, err := e.ledger.PairHealth(sourceCurrency, targetCurrency)
	if err != nil {
		return pricing.SwapQuote{}, err
	}
	rate, err := e.oracle.Price(ctx, sourceCurrency, targetCurrency)
	if err != nil {
		return pricing.SwapQuote{}, err
	}
	return pricing.QuoteSwap(amountIn, rate.Price, health, true)
}

// ClaimRewards pays the provider their share of the vault's LP fee bucket.
func (e *Engine) ClaimRewards(ctx context.Context, currency, provider string) (sdkmath.Int, error) {
	operationID := uuid.New().String()
	opLogger := e.logger.With().Str("operation_id", operationID).Str("currency", currency).Str("provider", provider).Logger()
	receipt := e.newReceipt(operationID, types.OpClaimRewards)
	receipt.SourceCurrency = currency
	receipt.Provider = provider

	reward, err := e.ledger.ClaimRewards(currency, provider, e.nowFn().Unix())
	if err != nil {
		opLogger.Error().Err(err).Msg("Reward claim rejected")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return sdkmath.ZeroInt(), err
	}

	receipt.Success = true
	receipt.AmountOut = reward
	e.persistVault(opLogger, currency)
	e.persistPosition(opLogger, currency, provider)
	e.saveReceipt(opLogger, receipt)

	if err := e.transferor.Payout(ctx, currency, provider, reward); err != nil {
		opLogger.Error().Err(err).Str("amount", reward.String()).Msg("CRITICAL: reward payout failed after ledger update")
		return reward, err
	}

	opLogger.Info().Str("reward", reward.String()).Msg("Rewards claimed")
	return reward, nil
}

// DistributeFees drains a vault's treasury and protocol buckets to the
// configured external accounts.
func (e *Engine) DistributeFees(ctx context.Context, currency string) (types.FeeSplit, error) {
	operationID := uuid.New().String()
	opLogger := e.logger.With().Str("operation_id", operationID).Str("currency", currency).Logger()
	receipt := e.newReceipt(operationID, types.OpDistributeFees)
	receipt.SourceCurrency = currency

	split, err := e.ledger.DistributeFees(currency, func(treasury, protocol sdkmath.Int) error {
		if treasury.IsPositive() {
			if err := e.transferor.Payout(ctx, currency, e.treasuryAccount, treasury); err != nil {
				return err
			}
		}
		if protocol.IsPositive() {
			return e.transferor.Payout(ctx, currency, e.protocolAccount, protocol)
		}
		return nil
	}, e.nowFn().Unix())
	if err != nil {
		opLogger.Error().Err(err).Msg("Fee distribution failed")
		receipt.Message = err.Error()
		e.saveReceipt(opLogger, receipt)
		return types.FeeSplit{}, err
	}

	receipt.Success = true
	receipt.AmountOut = split.Treasury.Add(split.Protocol)
	e.persistVault(opLogger, currency)
	e.saveReceipt(opLogger, receipt)

	opLogger.Info().
		Str("treasury", split.Treasury.String()).
		Str("protocol", split.Protocol.String()).
		Msg("Fees distributed")
	return split, nil
}

// ValidateRate re-checks an already fetched quote against the engine's
// freshness limit. Used by API handlers serving cached rates.
func (e *Engine) ValidateRate(quote types.PriceQuote) error {
	return oracle.Validate(quote, e.maxPriceAgeSeconds)
}
