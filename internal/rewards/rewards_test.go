package rewards

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/openfx/fxvault/internal/fxerrors"
)

func TestClaimableProportionalShare(t *testing.T) {
	// 2500 of 10000 TVL against a 1000 bucket -> 250.
	reward, err := Claimable(sdkmath.NewInt(2500), sdkmath.NewInt(1000), sdkmath.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, int64(250), reward.Int64())
}

func TestClaimableTruncatesDown(t *testing.T) {
	// 1 of 3 TVL against a 100 bucket -> 33.33 -> 33.
	reward, err := Claimable(sdkmath.NewInt(1), sdkmath.NewInt(100), sdkmath.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(33), reward.Int64())
}

func TestClaimableEmptyBucket(t *testing.T) {
	_, err := Claimable(sdkmath.NewInt(100), sdkmath.ZeroInt(), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, fxerrors.ErrNoFeesToClaim)
}

func TestClaimableNoPosition(t *testing.T) {
	_, err := Claimable(sdkmath.ZeroInt(), sdkmath.NewInt(100), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, fxerrors.ErrNoLiquidityProvided)
}

func TestClaimableRewardTooSmall(t *testing.T) {
	// 1 of 1_000_000 TVL against a 10 bucket truncates to zero.
	_, err := Claimable(sdkmath.NewInt(1), sdkmath.NewInt(10), sdkmath.NewInt(1_000_000))
	require.ErrorIs(t, err, fxerrors.ErrRewardTooSmall)
}
