package collector

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MarketLens/internal/dateint"
)

// CoinGeckoFetcher implements CryptoFetcher using the CoinGecko market
// chart API. The free tier needs no API key.
type CoinGeckoFetcher struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MaxRetries: 2,
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// geckoMarketChart is the response shape of /coins/{id}/market_chart.
// Every entry is a [timestamp_ms, value] pair.
type geckoMarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

func (f *CoinGeckoFetcher) FetchDailyHistory(coinID string, days int) ([]CryptoBar, error) {
	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		f.BaseURL, url.PathEscape(coinID), days)

	body, err := getWithRetry(f.Client, u, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch %s: %w", coinID, err)
	}

	var chart geckoMarketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("coingecko decode %s: %w", coinID, err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: no prices returned for %s", coinID)
	}

	bars := make([]CryptoBar, 0, len(chart.Prices))
	for i, p := range chart.Prices {
		// Timestamps are midnight UTC in milliseconds.
		date, err := dateint.FromTime(time.UnixMilli(int64(p[0])))
		if err != nil {
			return nil, fmt.Errorf("coingecko: bad timestamp %.0f for %s: %w", p[0], coinID, err)
		}
		bar := CryptoBar{Date: date, PriceUSD: p[1]}
		if i < len(chart.MarketCaps) {
			bar.MarketCap = sql.NullFloat64{Float64: chart.MarketCaps[i][1], Valid: true}
		}
		if i < len(chart.TotalVolumes) {
			bar.Volume = sql.NullFloat64{Float64: chart.TotalVolumes[i][1], Valid: true}
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}
