package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/openfx/fxvault/internal/engine"
	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/logger"
	"github.com/openfx/fxvault/internal/state"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for vault data and swap quotes
type WebServer struct {
	router *mux.Router
	engine *engine.Engine
	port   string
}

// NewWebServer creates a new web server instance
func NewWebServer(e *engine.Engine, port string) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router: mux.NewRouter(),
		engine: e,
		port:   port,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/vaults", ws.handleGetVaults).Methods("GET")
	api.HandleFunc("/vaults/{currency}", ws.handleGetVault).Methods("GET")
	api.HandleFunc("/vaults/{currency}/positions", ws.handleGetPositions).Methods("GET")
	api.HandleFunc("/pairs/{base}/{quote}/health", ws.handleGetPairHealth).Methods("GET")
	api.HandleFunc("/quote", ws.handleGetQuote).Methods("GET")
	api.HandleFunc("/receipts", ws.handleGetReceipts).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
	}

	// Reported as 0 when the counter is unavailable.
	rebalanceRuns, err := state.GetCurrentRunNumber()
	if err != nil {
		rebalanceRuns = 0
	}

	overallStatus := "OK"
	statusCode := http.StatusOK
	if !dbHealthy {
		overallStatus = "DEGRADED"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "fxvault-liquidity-engine",
			"version": "1.0.0",
		},
		"vault_status": map[string]interface{}{
			"database_healthy":         dbHealthy,
			"vault_count":              len(ws.engine.Ledger().Vaults()),
			"completed_rebalance_runs": rebalanceRuns,
		},
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetVaults returns every vault's accounting state
func (ws *WebServer) handleGetVaults(w http.ResponseWriter, r *http.Request) {
	vaults := ws.engine.Ledger().Vaults()

	response := map[string]interface{}{
		"vaults": vaults,
		"count":  len(vaults),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetVault returns one vault by currency
func (ws *WebServer) handleGetVault(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	currency := vars["currency"]

	vault, err := ws.engine.Ledger().Vault(currency)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Vault not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, vault)
}

// handleGetPositions returns every position in one vault
func (ws *WebServer) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	currency := vars["currency"]

	positions, err := ws.engine.Ledger().Positions(currency)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Vault not found")
		return
	}

	response := map[string]interface{}{
		"currency":  currency,
		"positions": positions,
		"count":     len(positions),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetPairHealth returns the health ratio for a vault pair
func (ws *WebServer) handleGetPairHealth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	base, quote := vars["base"], vars["quote"]

	health, err := ws.engine.Ledger().PairHealth(base, quote)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Pair not found")
		return
	}

	response := map[string]interface{}{
		"base":   base,
		"quote":  quote,
		"health": health,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetQuote prices a prospective swap without executing it
func (ws *WebServer) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	target := r.URL.Query().Get("target")
	amountStr := r.URL.Query().Get("amount")
	if source == "" || target == "" || amountStr == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "source, target, and amount are required")
		return
	}

	amount, ok := sdkmath.NewIntFromString(amountStr)
	if !ok || !amount.IsPositive() {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	quote, err := ws.engine.Quote(r.Context(), source, target, amount)
	if err != nil {
		if errors.Is(err, fxerrors.ErrVaultNotFound) {
			ws.writeErrorResponse(w, http.StatusNotFound, "Vault not found")
			return
		}
		webLogger.Error().Err(err).Str("source", source).Str("target", target).Msg("Failed to price quote")
		ws.writeErrorResponse(w, http.StatusBadGateway, "Failed to price quote")
		return
	}

	response := map[string]interface{}{
		"source":     source,
		"target":     target,
		"amount_in":  amount,
		"amount_out": quote.AmountOut,
		"fee":        quote.Fee,
		"spread_bps": quote.SpreadBps,
		"drift":      quote.Drift,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetReceipts returns recent operation receipts
func (ws *WebServer) handleGetReceipts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	receipts, err := state.LoadRecentReceipts(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent receipts")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve receipts")
		return
	}

	response := map[string]interface{}{
		"receipts": receipts,
		"count":    len(receipts),
		"limit":    limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
