/*

Vault health is the normalized imbalance metric every other component keys
off: min(a,b)/max(a,b), 1.0 when the pair is perfectly balanced, 0.0 when
either side is empty. Pure function, no error cases.

*/

package pricing

import (
	sdkmath "cosmossdk.io/math"
)

// Health returns the balance ratio of two vault balances in [0, 1].
// A zero (or negative, which the domain forbids) balance on either side
// yields 0 so callers never divide by zero downstream.
func Health(a, b sdkmath.Int) sdkmath.LegacyDec {
	if !a.IsPositive() || !b.IsPositive() {
		return sdkmath.LegacyZeroDec()
	}

	smaller, larger := a, b
	if a.GT(b) {
		smaller, larger = b, a
	}

	return sdkmath.LegacyNewDecFromInt(smaller).QuoTruncate(sdkmath.LegacyNewDecFromInt(larger))
}
