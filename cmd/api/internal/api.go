package internal

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	datafeed "github.com/fazecat/coinpulse/Internal/database"
	"github.com/fazecat/coinpulse/Internal/strategy/gate"
	"github.com/fazecat/coinpulse/Internal/utils/config"
	"github.com/fazecat/coinpulse/Internal/utils/scanner"
)

type API struct {
	Config     *config.Config
	Scanner    *scanner.BasketScanner
	Evaluator  *gate.Evaluator
	JWTManager *JWTManager
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// HandleGetMarketGate returns the most recent persisted gate evaluation.
func (api *API) HandleGetMarketGate(w http.ResponseWriter, r *http.Request) {
	result, err := datafeed.GetLatestGateResult()
	if err != nil {
		log.Printf("Error fetching gate result: %v", err)
		WriteError(w, http.StatusNotFound, "No gate result available")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleGetVCPSignals returns the most recent scan batch, best score first.
func (api *API) HandleGetVCPSignals(w http.ResponseWriter, r *http.Request) {
	limit := api.Config.Screener.TopN
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	candidates, err := datafeed.GetLatestVCPCandidates(limit)
	if err != nil {
		log.Printf("Error fetching VCP candidates: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch VCP candidates")
		return
	}
	WriteJSON(w, http.StatusOK, candidates)
}

// HandleRunScan runs a fresh gate evaluation and VCP scan, persists both, and
// returns them. Protected route: scanning hits the upstream data API hard.
func (api *API) HandleRunScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := api.Config

	primary := cfg.Screener.PrimarySymbol
	primaryCandles, err := api.Scanner.Fetcher.FetchCandles(ctx, primary, cfg.Screener.HistoryBars)
	if err != nil {
		log.Printf("Error fetching primary symbol %s: %v", primary, err)
		WriteError(w, http.StatusBadGateway, "Failed to fetch primary symbol history")
		return
	}

	peers := api.Scanner.FetchPeerHistories(ctx, cfg.Screener.PeerSymbols)
	gateResult := api.Evaluator.Evaluate(primaryCandles, peers, externalSignalsFromEnv())

	candidates := api.Scanner.ScanVCP(ctx, cfg.Screener.Symbols)
	if len(candidates) > cfg.Screener.TopN {
		candidates = candidates[:cfg.Screener.TopN]
	}

	if err := datafeed.LogGateResult(gateResult); err != nil {
		log.Printf("Warning: could not persist gate result: %v", err)
	}
	if err := datafeed.LogVCPCandidates(candidates); err != nil {
		log.Printf("Warning: could not persist VCP candidates: %v", err)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"gate":       gateResult,
		"candidates": candidates,
	})
}

func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	token, err := api.JWTManager.GenerateToken(req.UserID, req.Email, 24)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// externalSignalsFromEnv reads the optional funding-rate and fear/greed
// overrides. Missing or unparsable values stay nil (treated as unknown).
func externalSignalsFromEnv() gate.ExternalSignals {
	var ext gate.ExternalSignals
	if raw := os.Getenv("FUNDING_RATE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ext.FundingRate = &v
		}
	}
	if raw := os.Getenv("FEAR_GREED"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ext.FearGreed = &v
		}
	}
	return ext
}
