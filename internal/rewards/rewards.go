/*

Reward distribution math: a provider's claim is their proportional share of
the vault's accrued LP fee bucket, measured against current TVL rather than
a snapshot. There is no reward index; sequential claimants deplete the
shared bucket, so claim ordering within a batch matters and the caller must
serialize claims per vault.

*/

package rewards

import (
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
)

// Claimable computes the reward owed to a position of positionAmount
// against a vault with accruedLPFees in its LP bucket and tvl locked:
// positionAmount x accruedLPFees / tvl, truncated down.
func Claimable(positionAmount, accruedLPFees, tvl sdkmath.Int) (sdkmath.Int, error) {
	if !accruedLPFees.IsPositive() {
		return sdkmath.ZeroInt(), fxerrors.ErrNoFeesToClaim
	}
	if !positionAmount.IsPositive() {
		return sdkmath.ZeroInt(), fxerrors.ErrNoLiquidityProvided
	}
	if !tvl.IsPositive() {
		return sdkmath.ZeroInt(), fxerrors.ErrNoLiquidityProvided
	}

	reward := positionAmount.Mul(accruedLPFees).Quo(tvl)
	if reward.IsZero() {
		return sdkmath.ZeroInt(), fxerrors.ErrRewardTooSmall
	}

	return reward, nil
}
