package datafeed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/fazecat/coinpulse/Internal/types"
	"github.com/fazecat/coinpulse/Internal/utils"
)

// AlpacaFetcher pulls daily crypto bars from the Alpaca market data API.
// Credentials come from ALPACA_API_KEY / ALPACA_API_SECRET.
type AlpacaFetcher struct {
	client *marketdata.Client
	retry  utils.RetryConfig
}

func NewAlpacaFetcher() *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
		}),
		retry: utils.DefaultRetryConfig(),
	}
}

// FetchCandles returns up to limit daily bars for one symbol, oldest first.
// The request window is padded past limit calendar days so thin weekends and
// listing gaps still fill the bar count.
func (f *AlpacaFetcher) FetchCandles(ctx context.Context, symbol string, limit int) ([]types.Candle, error) {
	if limit <= 0 {
		limit = 260
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(limit + limit/5))

	var bars []marketdata.CryptoBar
	err := utils.RetryWithBackoff(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var fetchErr error
		bars, fetchErr = f.client.GetCryptoBars(symbol, marketdata.GetCryptoBarsRequest{
			TimeFrame:  marketdata.OneDay,
			Start:      start,
			End:        end,
			TotalLimit: limit,
		})
		return fetchErr
	}, f.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(bars))
	for _, bar := range bars {
		candles = append(candles, types.Candle{
			Timestamp: bar.Timestamp.UnixMilli(),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		})
	}
	return types.SortCandles(candles), nil
}
