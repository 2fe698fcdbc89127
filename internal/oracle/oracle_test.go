package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/types"
)

func TestNormalizeExponents(t *testing.T) {
	cases := []struct {
		value    int64
		exponent int32
		want     int64
	}{
		{1_100_000, -6, 1_100_000_000},          // coarser feed scales up
		{1_100_000_000, -9, 1_100_000_000},      // already at working scale
		{1_100_000_000_500, -12, 1_100_000_000}, // finer feed truncates down
		{2, 0, 2_000_000_000},                   // whole-unit feed
	}
	for _, c := range cases {
		got, err := Normalize(c.value, c.exponent)
		require.NoError(t, err)
		require.Equal(t, c.want, got.Int64(), "value=%d exp=%d", c.value, c.exponent)
	}
}

func TestNormalizeRejectsNegative(t *testing.T) {
	_, err := Normalize(-1, -9)
	require.ErrorIs(t, err, fxerrors.ErrNegativeOraclePrice)
}

func TestNormalizeOverflow(t *testing.T) {
	_, err := Normalize(1_000_000_000_000_000_000, 0)
	require.ErrorIs(t, err, fxerrors.ErrOverflow)
}

func TestValidate(t *testing.T) {
	fresh := types.PriceQuote{Price: sdkmath.NewInt(1_000_000_000), AgeSeconds: 30}
	require.NoError(t, Validate(fresh, 60))

	stale := types.PriceQuote{Price: sdkmath.NewInt(1_000_000_000), AgeSeconds: 61}
	require.ErrorIs(t, Validate(stale, 60), fxerrors.ErrStaleOraclePrice)

	zero := types.PriceQuote{Price: sdkmath.ZeroInt(), AgeSeconds: 0}
	require.ErrorIs(t, Validate(zero, 60), fxerrors.ErrNegativeOraclePrice)
}

func newRateServer(t *testing.T, rate rateResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rates/EUR/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(rate))
	}))
}

func TestHTTPClientPrice(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	srv := newRateServer(t, rateResponse{
		Base:        "EUR",
		Quote:       "USD",
		Value:       1_085_000,
		Exponent:    -6,
		PublishTime: now.Unix() - 20,
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 60)
	c.nowFn = func() time.Time { return now }

	pq, err := c.Price(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	require.Equal(t, int64(1_085_000_000), pq.Price.Int64())
	require.Equal(t, uint64(20), pq.AgeSeconds)
}

func TestHTTPClientRejectsStaleRate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	srv := newRateServer(t, rateResponse{
		Base:        "EUR",
		Quote:       "USD",
		Value:       1_085_000,
		Exponent:    -6,
		PublishTime: now.Unix() - 300,
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 60)
	c.nowFn = func() time.Time { return now }

	_, err := c.Price(context.Background(), "EUR", "USD")
	require.ErrorIs(t, err, fxerrors.ErrStaleOraclePrice)
}

func TestHTTPClientRejectsPairMismatch(t *testing.T) {
	srv := newRateServer(t, rateResponse{
		Base:        "GBP",
		Quote:       "USD",
		Value:       1_250_000,
		Exponent:    -6,
		PublishTime: time.Now().Unix(),
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 60)
	_, err := c.Price(context.Background(), "EUR", "USD")
	require.ErrorIs(t, err, fxerrors.ErrInvalidOracleAccount)
}

func TestStaticAdapter(t *testing.T) {
	s := NewStatic()
	s.Set("EUR", "USD", sdkmath.NewInt(1_100_000_000))

	pq, err := s.Price(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	require.Equal(t, int64(1_100_000_000), pq.Price.Int64())

	_, err = s.Price(context.Background(), "USD", "JPY")
	require.ErrorIs(t, err, fxerrors.ErrInvalidOracleAccount)
}
