package utils

import (
	"log"
	"time"
)

// RetryConfig controls the exponential backoff used around flaky API calls.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryWithBackoff runs fn until it succeeds or the retries run out.
// The last error is returned.
func RetryWithBackoff(fn func() error, cfg RetryConfig) error {
	var err error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}
		log.Printf("Attempt %d/%d failed: %v (retrying in %v)", attempt+1, cfg.MaxRetries, err, delay)
		time.Sleep(delay)
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
