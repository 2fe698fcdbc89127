/*

HTTP oracle adapter: pulls published FX rates from a JSON price service.
The endpoint returns the raw integer value, its decimal exponent, and the
publish time; normalization and freshness checks happen here so callers
only ever see 10^9-scaled, validated quotes.

*/

package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/logger"
	"github.com/openfx/fxvault/internal/types"
)

var oracleLogger = logger.GetForComponent("oracle_client")

const (
	requestTimeout = 10 * time.Second
	maxRetries     = 3
)

// rateResponse is the price service's wire format for one pair.
type rateResponse struct {
	Base        string `json:"base"`
	Quote       string `json:"quote"`
	Value       int64  `json:"value"`
	Exponent    int32  `json:"exponent"`
	PublishTime int64  `json:"publish_time"`
}

// HTTPClient fetches rates from a JSON price service at
// {baseURL}/rates/{base}/{quote}.
type HTTPClient struct {
	baseURL       string
	maxAgeSeconds uint64
	client        *http.Client
	nowFn         func() time.Time
}

func NewHTTPClient(baseURL string, maxAgeSeconds uint64) *HTTPClient {
	return &HTTPClient{
		baseURL:       baseURL,
		maxAgeSeconds: maxAgeSeconds,
		client:        &http.Client{Timeout: requestTimeout},
		nowFn:         time.Now,
	}
}

// Price fetches, normalizes, and validates the rate for base/quote.
// Transient transport failures are retried with linear backoff.
func (c *HTTPClient) Price(ctx context.Context, base, quote string) (types.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/rates/%s/%s", c.baseURL, url.PathEscape(base), url.PathEscape(quote))

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		rate, err := c.fetch(ctx, endpoint)
		if err != nil {
			lastErr = err
			oracleLogger.Warn().
				Err(err).
				Str("base", base).
				Str("quote", quote).
				Int("attempt", attempt).
				Msg("Rate fetch failed")
			if ctx.Err() != nil {
				return types.PriceQuote{}, ctx.Err()
			}
			if attempt < maxRetries {
				select {
				case <-time.After(time.Duration(attempt) * time.Second):
				case <-ctx.Done():
					return types.PriceQuote{}, ctx.Err()
				}
			}
			continue
		}

		pq, err := c.toQuote(rate, base, quote)
		if err != nil {
			return types.PriceQuote{}, err
		}
		oracleLogger.Debug().
			Str("base", base).
			Str("quote", quote).
			Str("price", pq.Price.String()).
			Uint64("ageSeconds", pq.AgeSeconds).
			Msg("Rate accepted")
		return pq, nil
	}

	return types.PriceQuote{}, fmt.Errorf("fetching %s/%s rate after %d attempts: %w", base, quote, maxRetries, lastErr)
}

func (c *HTTPClient) fetch(ctx context.Context, endpoint string) (rateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return rateResponse{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return rateResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rateResponse{}, fmt.Errorf("price service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return rateResponse{}, err
	}

	var rate rateResponse
	if err := json.Unmarshal(body, &rate); err != nil {
		return rateResponse{}, errorsmod.Wrap(fxerrors.ErrInvalidOracleAccount, err.Error())
	}
	return rate, nil
}

func (c *HTTPClient) toQuote(rate rateResponse, base, quote string) (types.PriceQuote, error) {
	if rate.Base != base || rate.Quote != quote {
		return types.PriceQuote{}, errorsmod.Wrapf(fxerrors.ErrInvalidOracleAccount,
			"asked for %s/%s, got %s/%s", base, quote, rate.Base, rate.Quote)
	}

	price, err := Normalize(rate.Value, rate.Exponent)
	if err != nil {
		return types.PriceQuote{}, err
	}

	age := c.nowFn().Unix() - rate.PublishTime
	if age < 0 {
		age = 0
	}
	pq := types.PriceQuote{Price: price, AgeSeconds: uint64(age)}
	if err := Validate(pq, c.maxAgeSeconds); err != nil {
		return types.PriceQuote{}, err
	}
	return pq, nil
}
