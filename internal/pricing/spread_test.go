package pricing

import (
	"fmt"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestSpreadAtFloorWhenBalanced(t *testing.T) {
	for _, h := range []string{"0.9", "0.95", "1.0"} {
		health := sdkmath.LegacyMustNewDecFromStr(h)
		require.Equal(t, uint64(MinSpreadBps), SpreadBps(health), "health=%s", h)
	}
}

func TestSpreadNonIncreasingInHealth(t *testing.T) {
	steps := []string{"0.0", "0.1", "0.2", "0.3", "0.4", "0.5", "0.6", "0.7", "0.8", "0.9", "1.0"}
	prev := uint64(MaxSpreadBps + 1)
	for _, s := range steps {
		bps := SpreadBps(sdkmath.LegacyMustNewDecFromStr(s))
		require.LessOrEqual(t, bps, prev, "spread must not increase with health at %s", s)
		prev = bps
	}
}

func TestSpreadBounds(t *testing.T) {
	for i := 0; i <= 100; i++ {
		health := sdkmath.LegacyNewDecWithPrec(int64(i), 2)
		bps := SpreadBps(health)
		require.GreaterOrEqual(t, bps, uint64(MinSpreadBps))
		require.LessOrEqual(t, bps, uint64(MaxSpreadBps))
	}
}

func TestSpreadWidensBelowBalanced(t *testing.T) {
	// At health 0.5 the spread is 0.03% + 0.2833% * 0.4 = 0.14332% -> 14 bps.
	bps := SpreadBps(sdkmath.LegacyMustNewDecFromStr("0.5"))
	require.Equal(t, uint64(14), bps)

	// Fully depleted: 0.03% + 0.2833% * 0.9 = 0.28497% -> 28 bps.
	bps = SpreadBps(sdkmath.LegacyZeroDec())
	require.Equal(t, uint64(28), bps)
}

func TestDriftZeroWhenBalanced(t *testing.T) {
	for _, h := range []string{"0.9", "0.99", "1.0"} {
		require.True(t, Drift(sdkmath.LegacyMustNewDecFromStr(h)).IsZero(), "health=%s", h)
	}
}

func TestDriftGrowsAsHealthWorsens(t *testing.T) {
	prev := sdkmath.LegacyZeroDec()
	for i := 8; i >= 0; i-- {
		health := sdkmath.LegacyNewDecWithPrec(int64(i), 1)
		d := Drift(health)
		require.True(t, d.GT(prev), fmt.Sprintf("drift should grow as health drops to 0.%d", i))
		prev = d
	}
}

func TestDriftValue(t *testing.T) {
	// health 0.4: drift = 0.008333 * 0.5 = 0.0041665.
	d := Drift(sdkmath.LegacyMustNewDecFromStr("0.4"))
	require.True(t, d.Equal(sdkmath.LegacyMustNewDecFromStr("0.0041665")))
}
