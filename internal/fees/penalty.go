/*

Withdrawal penalty schedule: a five-tier step function of time since the
position's most recent deposit. A fresh deposit restarts the clock for the
entire position. Tiers are an ordered table with half-open boundaries
(elapsed < threshold), strictly descending in penalty.

*/

package fees

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/pricing"
)

// penaltyTier applies its basis points when the elapsed time since deposit
// is strictly below Within.
type penaltyTier struct {
	Within time.Duration
	Bps    uint64
}

// withdrawalSchedule is ordered by ascending time threshold; positions
// older than the last threshold withdraw penalty-free.
var withdrawalSchedule = []penaltyTier{
	{Within: 60 * time.Hour, Bps: 200},
	{Within: 120 * time.Hour, Bps: 150},
	{Within: 180 * time.Hour, Bps: 100},
	{Within: 240 * time.Hour, Bps: 50},
}

// PenaltyBps returns the withdrawal penalty in basis points for a position
// whose most recent deposit was sinceDeposit ago.
func PenaltyBps(sinceDeposit time.Duration) uint64 {
	for _, tier := range withdrawalSchedule {
		if sinceDeposit < tier.Within {
			return tier.Bps
		}
	}
	return 0
}

// Penalty returns the token amount carved out of a withdrawal of amount
// made sinceDeposit after the last deposit, truncated down.
func Penalty(amount sdkmath.Int, sinceDeposit time.Duration) sdkmath.Int {
	bps := PenaltyBps(sinceDeposit)
	if bps == 0 {
		return sdkmath.ZeroInt()
	}
	return amount.MulRaw(int64(bps)).QuoRaw(pricing.BpsDenominator)
}
