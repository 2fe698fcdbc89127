/*

Cross-vault swap execution. A swap prices amountIn through the oracle
rate at the pair's current health, checks liquidity and the caller's
slippage floor, then applies the whole state transition under both vault
locks: the source vault absorbs the input, the target vault pays the net
output, and the fee is split across the target vault's accrual buckets.

*/

package ledger

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fees"
	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/pricing"
	"github.com/openfx/fxvault/internal/types"
)

// SwapResult reports the executed swap and the fee routing applied.
type SwapResult struct {
	AmountIn  sdkmath.Int       `json:"amount_in"`
	AmountOut sdkmath.Int       `json:"amount_out"`
	Fee       sdkmath.Int       `json:"fee"`
	FeeSplit  types.FeeSplit    `json:"fee_split"`
	SpreadBps uint64            `json:"spread_bps"`
	Drift     sdkmath.LegacyDec `json:"drift"`
	Health    sdkmath.LegacyDec `json:"health"`
}

// Swap converts amountIn of the source currency into the target currency
// at the given oracle rate (scaled by pricing.PriceScale). sourceToTarget
// tells whether the rate is quoted source to target (multiply) or
// target to source (divide). minAmountOut is the caller's slippage floor on
// the net output.
//
// All checks run before the first write; a returned error means neither
// vault changed.
func (l *Ledger) Swap(sourceCurrency, targetCurrency string, amountIn, price sdkmath.Int, sourceToTarget bool, minAmountOut sdkmath.Int, now int64) (SwapResult, error) {
	if !amountIn.IsPositive() {
		return SwapResult{}, errorsmod.Wrap(fxerrors.ErrInvalidAmount, "swap amount must be positive")
	}

	src, dst, unlock, err := l.entryPair(sourceCurrency, targetCurrency)
	if err != nil {
		return SwapResult{}, err
	}
	defer unlock()

	health := pricing.Health(src.vault.TVL, dst.vault.TVL)
	quote, err := pricing.QuoteSwap(amountIn, price, health, sourceToTarget)
	if err != nil {
		return SwapResult{}, err
	}
	if dst.vault.TVL.LT(quote.AmountOut) {
		return SwapResult{}, errorsmod.Wrapf(fxerrors.ErrInsufficientLiquidity,
			"target vault %s holds %s, needs %s", targetCurrency, dst.vault.TVL, quote.AmountOut)
	}
	if quote.AmountOut.LT(minAmountOut) {
		return SwapResult{}, errorsmod.Wrapf(fxerrors.ErrSlippageExceeded,
			"amount out %s below floor %s", quote.AmountOut, minAmountOut)
	}

	split, err := fees.Allocate(quote.Fee, health)
	if err != nil {
		return SwapResult{}, err
	}

	src.vault.TVL = src.vault.TVL.Add(amountIn)
	src.vault.LastPrice = price
	src.vault.LastPriceUpdate = now

	dst.vault.TVL = dst.vault.TVL.Sub(quote.AmountOut)
	dst.vault.AccruedLPFees = dst.vault.AccruedLPFees.Add(split.LP)
	dst.vault.AccruedTreasuryFees = dst.vault.AccruedTreasuryFees.Add(split.Treasury)
	dst.vault.AccruedProtocolFees = dst.vault.AccruedProtocolFees.Add(split.Protocol)
	dst.vault.LastFeeUpdate = now

	return SwapResult{
		AmountIn:  amountIn,
		AmountOut: quote.AmountOut,
		Fee:       quote.Fee,
		FeeSplit:  split,
		SpreadBps: quote.SpreadBps,
		Drift:     quote.Drift,
		Health:    health,
	}, nil
}
