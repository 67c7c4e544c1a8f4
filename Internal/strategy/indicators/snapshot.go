package indicators

import "github.com/fazecat/coinpulse/Internal/types"

// Default periods shared by the snapshot and the screeners.
const (
	DefaultRSIPeriod    = 14
	DefaultATRPeriod    = 14
	DefaultVolumePeriod = 20
	DefaultSRLookback   = 50
	DefaultDivLookback  = 20

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	BollingerPeriod = 20
	BollingerK      = 2.0
)

// Snapshot is the full indicator read for one symbol at one moment.
// It is recomputed per call and never cached.
type Snapshot struct {
	Price      float64           `json:"price"`
	RSI        float64           `json:"rsi"`
	ATR        float64           `json:"atr"`
	RelVolume  float64           `json:"rvol"`
	MACD       MACDResult        `json:"macd"`
	Bollinger  BollingerBands    `json:"bollinger"`
	SR         SupportResistance `json:"support_resistance"`
	Divergence string            `json:"divergence"`
	RiskReward float64           `json:"rr_ratio"`
}

// BuildSnapshot computes every indicator with default periods over a sorted
// series. Short series degrade to the documented neutral values.
func BuildSnapshot(candles []types.Candle) Snapshot {
	closes := types.Closes(candles)
	volumes := types.Volumes(candles)
	rsiSeries := RSI(closes, DefaultRSIPeriod)

	snap := Snapshot{
		Price:      types.LastClose(candles),
		RSI:        LastRSI(closes, DefaultRSIPeriod),
		ATR:        ATR(candles, DefaultATRPeriod),
		RelVolume:  RelativeVolume(volumes, DefaultVolumePeriod),
		MACD:       MACD(closes, MACDFast, MACDSlow, MACDSignal),
		Bollinger:  Bollinger(closes, BollingerPeriod, BollingerK),
		SR:         FindSupportResistance(candles, DefaultSRLookback),
		Divergence: DetectRSIDivergence(closes, rsiSeries, DefaultDivLookback),
	}
	snap.RiskReward = RiskReward(snap.Price, snap.SR.Support, snap.SR.Resistance)
	return snap
}
