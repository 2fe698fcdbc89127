/*

Fee allocation: splits one swap fee across the three accrual buckets. LPs
always take a fixed 70% of the total; the remaining 30% is routed between
the automated treasury and the protocol by vault-health tier, with the
treasury taking more (and the protocol nothing) as health becomes critical.
Tier thresholds are an ordered table so boundary semantics stay auditable.

*/

package fees

import (
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/types"
)

// LPFeePercent is the liquidity providers' fixed share of every fee.
const LPFeePercent = 70

// allocationTier maps a half-open health band (health > Threshold) to the
// treasury/protocol percentages of the total fee. The two always sum to
// the 30% non-LP remainder.
type allocationTier struct {
	Threshold   sdkmath.LegacyDec
	TreasuryPct int64
	ProtocolPct int64
}

// healthTiers is ordered from best health to worst; the first tier whose
// threshold the health strictly exceeds wins.
var healthTiers = []allocationTier{
	{Threshold: sdkmath.LegacyMustNewDecFromStr("0.70"), TreasuryPct: 15, ProtocolPct: 15},
	{Threshold: sdkmath.LegacyMustNewDecFromStr("0.50"), TreasuryPct: 20, ProtocolPct: 10},
	{Threshold: sdkmath.LegacyMustNewDecFromStr("0.30"), TreasuryPct: 25, ProtocolPct: 5},
}

// criticalTier applies when health is at or below the last threshold:
// everything left over goes to the treasury that funds rebalancing.
var criticalTier = allocationTier{TreasuryPct: 30, ProtocolPct: 0}

// Allocate splits totalFee into LP, treasury, and protocol shares for the
// given vault health. Each share truncates down independently, so the sum
// never exceeds totalFee; any remainder simply stays in the vault.
func Allocate(totalFee sdkmath.Int, health sdkmath.LegacyDec) (types.FeeSplit, error) {
	if totalFee.IsNegative() {
		return types.FeeSplit{}, fxerrors.ErrInvalidAmount.Wrap("fee is negative")
	}

	tier := criticalTier
	for _, t := range healthTiers {
		if health.GT(t.Threshold) {
			tier = t
			break
		}
	}

	return types.FeeSplit{
		LP:       totalFee.MulRaw(LPFeePercent).QuoRaw(100),
		Treasury: totalFee.MulRaw(tier.TreasuryPct).QuoRaw(100),
		Protocol: totalFee.MulRaw(tier.ProtocolPct).QuoRaw(100),
	}, nil
}
