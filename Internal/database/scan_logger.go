package datafeed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/coinpulse/Internal/strategy/detection"
	"github.com/fazecat/coinpulse/Internal/strategy/gate"
)

// StoredGateResult is one persisted market-gate evaluation.
type StoredGateResult struct {
	ID        int64        `json:"id"`
	Gate      string       `json:"gate"`
	Score     int          `json:"score"`
	Reasons   []string     `json:"reasons"`
	Metrics   gate.Metrics `json:"metrics"`
	CreatedAt time.Time    `json:"created_at"`
}

// LogGateResult persists one gate evaluation. Metrics go in as JSONB so the
// read API can return them untouched.
func LogGateResult(res gate.Result) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	metricsJSON, err := json.Marshal(res.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal gate metrics: %w", err)
	}

	_, err = DB.Exec(`
		INSERT INTO market_gate_results (gate, score, reasons, metrics)
		VALUES ($1, $2, $3, $4)`,
		res.Gate, res.Score, strings.Join(res.Reasons, "; "), metricsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert gate result: %w", err)
	}

	fmt.Printf("📝 Logged gate result: %s (%d/100)\n", res.Gate, res.Score)
	return nil
}

// LogVCPCandidates persists one scan batch. The batch id is the scan's unix
// timestamp so the API can pull the latest batch in one query.
func LogVCPCandidates(candidates []detection.VCPCandidate) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if len(candidates) == 0 {
		return nil
	}

	batch := time.Now().UnixMilli()
	for _, c := range candidates {
		_, err := DB.Exec(`
			INSERT INTO vcp_scan_results
				(scan_batch, symbol, score, grade, signal_type, pivot_price, current_price,
				 breakout_pct, c1, c2, c3, atr_pct, volume_ratio)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			batch, c.Symbol, c.Score, c.Grade, string(c.SignalType),
			decimal.NewFromFloat(c.PivotPrice).String(),
			decimal.NewFromFloat(c.CurrentPrice).String(),
			c.BreakoutPct, c.C1, c.C2, c.C3, c.ATRPct, c.VolumeRatio,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", c.Symbol, err)
		}
	}

	fmt.Printf("📝 Logged %d VCP candidates (batch %d)\n", len(candidates), batch)
	return nil
}

// GetLatestGateResult returns the most recent persisted gate evaluation.
func GetLatestGateResult() (*StoredGateResult, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var (
		res         StoredGateResult
		reasons     string
		metricsJSON []byte
	)
	err := DB.QueryRow(`
		SELECT id, gate, score, reasons, metrics, created_at
		FROM market_gate_results
		ORDER BY created_at DESC
		LIMIT 1`,
	).Scan(&res.ID, &res.Gate, &res.Score, &reasons, &metricsJSON, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest gate result: %w", err)
	}

	if reasons != "" {
		res.Reasons = strings.Split(reasons, "; ")
	}
	if err := json.Unmarshal(metricsJSON, &res.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gate metrics: %w", err)
	}
	return &res, nil
}

// GetLatestVCPCandidates returns the most recent scan batch, best score first.
func GetLatestVCPCandidates(limit int) ([]detection.VCPCandidate, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := DB.Query(`
		SELECT symbol, score, grade, signal_type, pivot_price, current_price,
		       breakout_pct, c1, c2, c3, atr_pct, volume_ratio
		FROM vcp_scan_results
		WHERE scan_batch = (SELECT COALESCE(MAX(scan_batch), 0) FROM vcp_scan_results)
		ORDER BY score DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest VCP batch: %w", err)
	}
	defer rows.Close()

	var candidates []detection.VCPCandidate
	for rows.Next() {
		var (
			c            detection.VCPCandidate
			signalType   string
			pivotPrice   string
			currentPrice string
		)
		if err := rows.Scan(&c.Symbol, &c.Score, &c.Grade, &signalType, &pivotPrice, &currentPrice,
			&c.BreakoutPct, &c.C1, &c.C2, &c.C3, &c.ATRPct, &c.VolumeRatio); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		c.SignalType = detection.SignalType(signalType)

		if pivot, err := decimal.NewFromString(pivotPrice); err == nil {
			c.PivotPrice, _ = pivot.Float64()
		}
		if price, err := decimal.NewFromString(currentPrice); err == nil {
			c.CurrentPrice, _ = price.Float64()
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
