package collector

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"MarketLens/internal/dateint"
)

// AlphaVantageFetcher implements StockFetcher using the TIME_SERIES_DAILY
// endpoint. The free tier allows 25 calls per day, 5 per minute.
type AlphaVantageFetcher struct {
	BaseURL    string
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MaxRetries: 2,
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avTimeSeries is the TIME_SERIES_DAILY response. Alpha Vantage reports
// API errors and rate limiting inside a 200 body, so both fields need
// checking before the series is trusted.
type avTimeSeries struct {
	TimeSeries   map[string]avDailyBar `json:"Time Series (Daily)"`
	ErrorMessage string                `json:"Error Message"`
	Note         string                `json:"Note"`
}

type avDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// FetchDailyBars returns the most recent ~100 trading days for the symbol
// (the compact output size; full history is premium-only).
func (f *AlphaVantageFetcher) FetchDailyBars(symbol string) ([]StockBar, error) {
	u := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s&outputsize=compact",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(f.APIKey))

	body, err := getWithRetry(f.Client, u, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch %s: %w", symbol, err)
	}

	var series avTimeSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("alphavantage decode %s: %w", symbol, err)
	}
	if series.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage api error for %s: %s", symbol, series.ErrorMessage)
	}
	if series.Note != "" {
		return nil, fmt.Errorf("alphavantage rate limited: %s", series.Note)
	}
	if len(series.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage: no daily series for %s", symbol)
	}

	bars := make([]StockBar, 0, len(series.TimeSeries))
	for dateStr, v := range series.TimeSeries {
		bar, err := parseStockBar(dateStr, v)
		if err != nil {
			log.Printf("[WARN] alphavantage: skip %s %s: %v", symbol, dateStr, err)
			continue
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func parseStockBar(dateStr string, v avDailyBar) (StockBar, error) {
	date, err := dateint.Parse(dateStr)
	if err != nil {
		return StockBar{}, err
	}
	open, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return StockBar{}, fmt.Errorf("open: %w", err)
	}
	high, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return StockBar{}, fmt.Errorf("high: %w", err)
	}
	low, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return StockBar{}, fmt.Errorf("low: %w", err)
	}
	closePrice, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return StockBar{}, fmt.Errorf("close: %w", err)
	}
	volume, err := strconv.ParseInt(v.Volume, 10, 64)
	if err != nil {
		return StockBar{}, fmt.Errorf("volume: %w", err)
	}
	return StockBar{Date: date, Open: open, High: high, Low: low, Close: closePrice, Volume: volume}, nil
}
