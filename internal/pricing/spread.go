package pricing

import (
	sdkmath "cosmossdk.io/math"
)

// SpreadBps returns the health-dependent spread in basis points:
// max(MinSpread, MinSpread + slope * (0.9 - health)), capped at MaxSpread.
// At health >= 0.9 the spread sits at the floor; it widens linearly as
// health degrades and saturates at the ceiling.
func SpreadBps(health sdkmath.LegacyDec) uint64 {
	if health.GTE(balancedHealth) {
		return MinSpreadBps
	}

	widened := minSpread.Add(spreadSlope.Mul(balancedHealth.Sub(health)))
	bps := widened.MulInt64(BpsDenominator).TruncateInt64()

	if bps > MaxSpreadBps {
		return MaxSpreadBps
	}
	if bps < MinSpreadBps {
		return MinSpreadBps
	}
	return uint64(bps)
}

// Drift returns the directional price skew as a non-negative fraction:
// max(0, slope * (0.9 - health)). Zero when the pair is balanced, growing
// as health worsens to discourage draining the scarcer side further.
func Drift(health sdkmath.LegacyDec) sdkmath.LegacyDec {
	if health.GTE(balancedHealth) {
		return sdkmath.LegacyZeroDec()
	}
	return driftSlope.Mul(balancedHealth.Sub(health))
}
