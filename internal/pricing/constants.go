package pricing

import (
	sdkmath "cosmossdk.io/math"
)

const (
	// PriceScale is the fixed-point scale of oracle prices (10^9).
	PriceScale = 1_000_000_000

	// MinSpreadBps is the spread floor applied when vaults are balanced.
	MinSpreadBps = 3
	// MaxSpreadBps is the spread ceiling reached as health degrades.
	MaxSpreadBps = 50

	// MaxFeeBps is the highest configurable vault swap fee (5%).
	MaxFeeBps = 500

	// BpsDenominator converts basis points to a fraction.
	BpsDenominator = 10_000
)

var (
	// balancedHealth is the health level at or above which the spread sits
	// at its floor and drift is zero.
	balancedHealth = sdkmath.LegacyMustNewDecFromStr("0.9")

	// minSpread is MinSpreadBps expressed as a fraction of notional (0.03%).
	minSpread = sdkmath.LegacyMustNewDecFromStr("0.0003")

	// spreadSlope widens the spread by 0.2833% of notional per unit of
	// health below the balanced level.
	spreadSlope = sdkmath.LegacyMustNewDecFromStr("0.002833")

	// driftSlope skews the effective rate by 0.8333% per unit of health
	// below the balanced level.
	driftSlope = sdkmath.LegacyMustNewDecFromStr("0.008333")
)
