/*

Swap pricing: applies drift to the oracle rate against the drained
direction, converts through the adjusted rate, then carves the spread fee
out of the gross output. All intermediate products are computed on
arbitrary-precision integers and every narrowing truncates toward the
protocol (round down on amounts owed out, round down on fees).

*/

package pricing

import (
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
)

// SwapQuote is the priced outcome of a proposed swap before any state is
// touched. AmountOut is net of Fee.
type SwapQuote struct {
	AmountOut sdkmath.Int
	Fee       sdkmath.Int
	SpreadBps uint64
	Drift     sdkmath.LegacyDec
}

// QuoteSwap prices amountIn through the oracle rate (scaled by PriceScale)
// at the given vault health. sourceToTarget selects the conversion
// direction: multiply by the rate for source to target, divide for
// target to source. Drift always shifts the effective rate against the side
// being drained.
//
// Liquidity and slippage limits are the caller's checks; this function
// only prices.
func QuoteSwap(amountIn, price sdkmath.Int, health sdkmath.LegacyDec, sourceToTarget bool) (SwapQuote, error) {
	if amountIn.IsNegative() {
		return SwapQuote{}, fxerrors.ErrInvalidAmount.Wrap("amount in is negative")
	}
	if !price.IsPositive() {
		return SwapQuote{}, fxerrors.ErrNegativeOraclePrice
	}

	drift := Drift(health)

	// The drift adjustment moves the rate against the direction being
	// drained: outbound conversions get a lower rate, inbound a higher one.
	driftAmount := sdkmath.LegacyNewDecFromInt(price).Mul(drift).TruncateInt()
	var adjustedPrice sdkmath.Int
	if sourceToTarget {
		adjustedPrice = price.Sub(driftAmount)
	} else {
		adjustedPrice = price.Add(driftAmount)
	}
	if !adjustedPrice.IsPositive() {
		return SwapQuote{}, fxerrors.ErrOverflow.Wrap("drift adjustment consumed the entire rate")
	}

	scale := sdkmath.NewInt(PriceScale)
	var beforeFee sdkmath.Int
	if sourceToTarget {
		beforeFee = amountIn.Mul(adjustedPrice).Quo(scale)
	} else {
		beforeFee = amountIn.Mul(scale).Quo(adjustedPrice)
	}

	// Amounts live in a 64-bit smallest-unit domain; a product that cannot
	// narrow back is an overflow, not a bigger trade.
	if !beforeFee.IsUint64() {
		return SwapQuote{}, fxerrors.ErrOverflow.Wrap("amount out exceeds working precision")
	}

	spreadBps := SpreadBps(health)
	fee := beforeFee.MulRaw(int64(spreadBps)).QuoRaw(BpsDenominator)
	amountOut := beforeFee.Sub(fee)

	return SwapQuote{
		AmountOut: amountOut,
		Fee:       fee,
		SpreadBps: spreadBps,
		Drift:     drift,
	}, nil
}
