package pricing

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestHealthSymmetric(t *testing.T) {
	cases := [][2]int64{
		{10, 20},
		{1, 1_000_000},
		{777, 777},
		{1, 1},
	}
	for _, c := range cases {
		a, b := sdkmath.NewInt(c[0]), sdkmath.NewInt(c[1])
		require.True(t, Health(a, b).Equal(Health(b, a)), "health(%d,%d) != health(%d,%d)", c[0], c[1], c[1], c[0])
	}
}

func TestHealthRange(t *testing.T) {
	cases := [][2]int64{
		{10, 20},
		{1, 1_000_000_000_000},
		{999, 1000},
		{5, 5},
	}
	for _, c := range cases {
		h := Health(sdkmath.NewInt(c[0]), sdkmath.NewInt(c[1]))
		require.True(t, h.IsPositive(), "health(%d,%d) should be positive", c[0], c[1])
		require.True(t, h.LTE(sdkmath.LegacyOneDec()), "health(%d,%d) should be <= 1", c[0], c[1])
	}
}

func TestHealthZeroBalance(t *testing.T) {
	require.True(t, Health(sdkmath.NewInt(100), sdkmath.ZeroInt()).IsZero())
	require.True(t, Health(sdkmath.ZeroInt(), sdkmath.NewInt(100)).IsZero())
	require.True(t, Health(sdkmath.ZeroInt(), sdkmath.ZeroInt()).IsZero())
}

func TestHealthScaleInvariant(t *testing.T) {
	small := Health(sdkmath.NewInt(10), sdkmath.NewInt(20))
	big := Health(sdkmath.NewInt(100), sdkmath.NewInt(200))
	require.True(t, small.Equal(big))
	require.True(t, small.Equal(sdkmath.LegacyMustNewDecFromStr("0.5")))
}

func TestHealthPerfectBalance(t *testing.T) {
	h := Health(sdkmath.NewInt(12345), sdkmath.NewInt(12345))
	require.True(t, h.Equal(sdkmath.LegacyOneDec()))
}
