package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/openfx/fxvault/internal/engine"
	"github.com/openfx/fxvault/internal/ledger"
	"github.com/openfx/fxvault/internal/oracle"
)

func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	l := ledger.New()
	_, err := l.CreateVault("EUR", 30, 0)
	require.NoError(t, err)
	_, err = l.CreateVault("USD", 30, 0)
	require.NoError(t, err)
	_, err = l.Deposit("EUR", "seed", sdkmath.NewInt(1_000_000), 0)
	require.NoError(t, err)
	_, err = l.Deposit("USD", "seed", sdkmath.NewInt(1_000_000), 0)
	require.NoError(t, err)

	rates := oracle.NewStatic()
	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	e, err := engine.NewEngine(engine.Config{
		Ledger:             l,
		Oracle:             rates,
		Transferor:         engine.NoopTransferor{},
		MaxPriceAgeSeconds: 60,
		TreasuryAccount:    "treasury",
		ProtocolAccount:    "protocol",
	})
	require.NoError(t, err)
	return NewWebServer(e, "0")
}

func doRequest(ws *WebServer, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)
	return rec
}

func TestGetVaults(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/vaults")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
}

func TestGetVaultByCurrency(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/vaults/EUR")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Currency string `json:"currency"`
		TVL      string `json:"tvl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "EUR", body.Currency)
	require.Equal(t, "1000000", body.TVL)

	rec = doRequest(ws, http.MethodGet, "/api/vaults/JPY")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPositions(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/vaults/EUR/positions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
}

func TestGetPairHealth(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/pairs/EUR/USD/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Health string `json:"health"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "1.000000000000000000", body.Health)
}

func TestGetQuote(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/quote?source=EUR&target=USD&amount=100000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AmountOut string `json:"amount_out"`
		Fee       string `json:"fee"`
		SpreadBps uint64 `json:"spread_bps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "99970", body.AmountOut)
	require.Equal(t, "30", body.Fee)
	require.Equal(t, uint64(3), body.SpreadBps)
}

func TestGetQuoteValidation(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/quote?source=EUR&target=USD")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(ws, http.MethodGet, "/api/quote?source=EUR&target=USD&amount=-5")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(ws, http.MethodGet, "/api/quote?source=EUR&target=JPY&amount=100")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthWithoutDatabase(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status      string `json:"status"`
		VaultStatus struct {
			DatabaseHealthy bool `json:"database_healthy"`
			VaultCount      int  `json:"vault_count"`
			RebalanceRuns   int  `json:"completed_rebalance_runs"`
		} `json:"vault_status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "DEGRADED", body.Status)
	require.False(t, body.VaultStatus.DatabaseHealthy)
	require.Equal(t, 2, body.VaultStatus.VaultCount)
	require.Equal(t, 0, body.VaultStatus.RebalanceRuns)
}

func TestCORSHeaders(t *testing.T) {
	ws := newTestServer(t)

	rec := doRequest(ws, http.MethodGet, "/api/vaults")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
