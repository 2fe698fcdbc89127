package oracle

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/types"
)

// Static is a fixed-rate adapter for local runs and tests. Rates are
// keyed by "BASE/QUOTE" and served with zero age.
type Static struct {
	mu    sync.RWMutex
	rates map[string]sdkmath.Int
}

func NewStatic() *Static {
	return &Static{rates: make(map[string]sdkmath.Int)}
}

// Set stores a 10^9-scaled rate for the pair.
func (s *Static) Set(base, quote string, price sdkmath.Int) {
	s.mu.Lock()
	s.rates[base+"/"+quote] = price
	s.mu.Unlock()
}

func (s *Static) Price(_ context.Context, base, quote string) (types.PriceQuote, error) {
	s.mu.RLock()
	price, ok := s.rates[base+"/"+quote]
	s.mu.RUnlock()
	if !ok {
		return types.PriceQuote{}, errorsmod.Wrapf(fxerrors.ErrInvalidOracleAccount, "no rate for %s/%s", base, quote)
	}
	return types.PriceQuote{Price: price, AgeSeconds: 0}, nil
}
