package collector

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"MarketLens/internal/dateint"
)

// CryptoBar is one daily cryptocurrency observation from a market data API.
// MarketCap and Volume stay null when the source omits them.
type CryptoBar struct {
	Date      dateint.Key
	PriceUSD  float64
	MarketCap sql.NullFloat64
	Volume    sql.NullFloat64
}

// StockBar is one daily equity bar from a market data API.
type StockBar struct {
	Date   dateint.Key
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// CryptoFetcher fetches daily history for one cryptocurrency. Bars come
// back in ascending date order.
type CryptoFetcher interface {
	FetchDailyHistory(coinID string, days int) ([]CryptoBar, error)
	Name() string
}

// StockFetcher fetches recent daily bars for one equity ticker. Bars come
// back in ascending date order.
type StockFetcher interface {
	FetchDailyBars(symbol string) ([]StockBar, error)
	Name() string
}

// getWithRetry issues a GET and retries transient failures (network errors,
// 5xx and 429 responses) with exponential backoff.
func getWithRetry(client *http.Client, url string, maxRetries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[WARN] fetch failed (attempt %d/%d): %v, retrying in %v", attempt, maxRetries+1, lastErr, backoff)
			time.Sleep(backoff)
		}
		body, retryable, err := getOnce(client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

func getOnce(client *http.Client, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, false, nil
}
