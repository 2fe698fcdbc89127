/*

Rebalance planning: decides whether the imbalance between two vaults
warrants an automatic capital injection and sizes it. The controller only
acts inside the (0.20, 0.50) health window: healthier pairs do not need
help, and anything at or below 0.20 is considered too severe for automatic
intervention and is left to manual action. Bands are an ordered table.

*/

package rebalance

import (
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/pricing"
)

// injectionBand maps a half-open health band [Lo, Hi) to the fraction of
// the computed deficit injected automatically.
type injectionBand struct {
	Lo   sdkmath.LegacyDec
	Hi   sdkmath.LegacyDec
	Rate sdkmath.LegacyDec
}

// injectionBands is ordered from mildest imbalance to most severe.
var injectionBands = []injectionBand{
	{Lo: sdkmath.LegacyMustNewDecFromStr("0.40"), Hi: sdkmath.LegacyMustNewDecFromStr("0.50"), Rate: sdkmath.LegacyMustNewDecFromStr("0.30")},
	{Lo: sdkmath.LegacyMustNewDecFromStr("0.30"), Hi: sdkmath.LegacyMustNewDecFromStr("0.40"), Rate: sdkmath.LegacyMustNewDecFromStr("0.50")},
	{Lo: sdkmath.LegacyMustNewDecFromStr("0.20"), Hi: sdkmath.LegacyMustNewDecFromStr("0.30"), Rate: sdkmath.LegacyMustNewDecFromStr("0.75")},
}

// severeFloor is the exclusive lower edge of the banded window. The lowest
// band's Lo is inclusive in the table, but a pair sitting exactly on the
// floor is already manual-intervention territory.
var severeFloor = sdkmath.LegacyMustNewDecFromStr("0.20")

// Outcome is the sized injection for one vault pair. The injection always
// flows into the smaller side.
type Outcome struct {
	Injection  sdkmath.Int
	PreHealth  sdkmath.LegacyDec
	PostHealth sdkmath.LegacyDec
	Rate       sdkmath.LegacyDec
}

// Plan sizes an automatic injection for a pair of vault balances.
// Returns ErrNoRebalanceNeeded when the pair's health is outside every
// band, and ErrInsufficientInjectionAmount when the caller's available
// capital cannot cover the computed injection in full; plans are never
// partially executed.
func Plan(sourceTVL, targetTVL, available sdkmath.Int) (Outcome, error) {
	health := pricing.Health(sourceTVL, targetTVL)
	if health.LTE(severeFloor) {
		return Outcome{}, fxerrors.ErrNoRebalanceNeeded
	}

	rate := sdkmath.LegacyDec{}
	for _, band := range injectionBands {
		if health.GTE(band.Lo) && health.LT(band.Hi) {
			rate = band.Rate
			break
		}
	}
	if rate.IsNil() {
		return Outcome{}, fxerrors.ErrNoRebalanceNeeded
	}

	smaller, larger := sourceTVL, targetTVL
	if smaller.GT(larger) {
		smaller, larger = larger, smaller
	}

	// deficit = larger - smaller/health. With exact division the two terms
	// cancel; truncation in health can leave a small positive remainder,
	// which is the only part the controller tops up. Clamped at zero so a
	// rounding excess never produces a negative plan.
	deficit := sdkmath.LegacyNewDecFromInt(larger).
		Sub(sdkmath.LegacyNewDecFromInt(smaller).QuoTruncate(health))
	if deficit.IsNegative() {
		deficit = sdkmath.LegacyZeroDec()
	}

	injection := deficit.Mul(rate).TruncateInt()
	if available.LT(injection) {
		return Outcome{}, fxerrors.ErrInsufficientInjectionAmount
	}

	return Outcome{
		Injection:  injection,
		PreHealth:  health,
		PostHealth: pricing.Health(larger, smaller.Add(injection)),
		Rate:       rate,
	}, nil
}
