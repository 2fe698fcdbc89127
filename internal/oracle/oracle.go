/*

Oracle rate handling. Feeds publish FX rates as an integer value plus a
decimal exponent; everything downstream works on a fixed 10^9 scale, so
this package owns the exponent normalization and the freshness and sign
checks a rate must pass before it is allowed to price a swap.

*/

package oracle

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/types"
)

// targetExponent is the fixed decimal exponent of normalized rates:
// 10^9 smallest units per whole unit.
const targetExponent = int32(-9)

// Adapter supplies the current rate for a currency pair, already
// normalized to the 10^9 scale.
type Adapter interface {
	Price(ctx context.Context, base, quote string) (types.PriceQuote, error)
}

// Normalize rescales a published (value, exponent) rate to the 10^9
// working scale. The exponent expresses value x 10^exponent.
func Normalize(value int64, exponent int32) (sdkmath.Int, error) {
	if value < 0 {
		return sdkmath.Int{}, fxerrors.ErrNegativeOraclePrice
	}

	shift := exponent - targetExponent
	price := sdkmath.NewInt(value)
	switch {
	case shift > 0:
		price = price.Mul(pow10(shift))
	case shift < 0:
		price = price.Quo(pow10(-shift))
	}

	if !price.IsUint64() {
		return sdkmath.Int{}, errorsmod.Wrapf(fxerrors.ErrOverflow,
			"normalized rate %s exceeds working precision", price)
	}
	return price, nil
}

// Validate rejects rates that are too old or not strictly positive.
func Validate(quote types.PriceQuote, maxAgeSeconds uint64) error {
	if !quote.Price.IsPositive() {
		return fxerrors.ErrNegativeOraclePrice
	}
	if quote.AgeSeconds > maxAgeSeconds {
		return errorsmod.Wrapf(fxerrors.ErrStaleOraclePrice,
			"rate is %ds old, limit %ds", quote.AgeSeconds, maxAgeSeconds)
	}
	return nil
}

func pow10(n int32) sdkmath.Int {
	p := sdkmath.NewInt(1)
	ten := sdkmath.NewInt(10)
	for i := int32(0); i < n; i++ {
		p = p.Mul(ten)
	}
	return p
}
