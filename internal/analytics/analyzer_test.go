package analytics

import (
	"errors"
	"testing"

	"MarketLens/internal/dateint"
	"MarketLens/internal/model"
)

func TestGroupBySymbol(t *testing.T) {
	rows := []model.CryptoPrice{
		{Date: 20250102, Symbol: "BTC", PriceUSD: 100},
		{Date: 20250102, Symbol: "ETH", PriceUSD: 50},
		{Date: 20250103, Symbol: "BTC", PriceUSD: 110},
	}
	groups := GroupBySymbol(rows, func(r model.CryptoPrice) string { return r.Symbol })
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	btc := groups["BTC"]
	if len(btc) != 2 || btc[0].Date != 20250102 || btc[1].Date != 20250103 {
		t.Errorf("BTC group out of order: %v", btc)
	}
	if len(groups["ETH"]) != 1 {
		t.Errorf("expected 1 ETH row, got %d", len(groups["ETH"]))
	}
}

func TestGroupBySymbol_Empty(t *testing.T) {
	groups := GroupBySymbol(nil, func(r model.CryptoPrice) string { return r.Symbol })
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty map, got %v", groups)
	}
}

func TestPairKey(t *testing.T) {
	key := PairKey("BTC", "NVDA")
	if key != "BTC-NVDA" {
		t.Fatalf("expected BTC-NVDA, got %s", key)
	}
	c, s, ok := SplitPairKey(key)
	if !ok || c != "BTC" || s != "NVDA" {
		t.Errorf("expected (BTC, NVDA), got (%s, %s, %v)", c, s, ok)
	}
	if _, _, ok := SplitPairKey("BTC"); ok {
		t.Error("expected no split for key without dash")
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	crypto := []model.CryptoPrice{{Date: 20250102, Symbol: "BTC", PriceUSD: 100}}
	stocks := []model.StockPrice{{Date: 20250102, Symbol: "NVDA", Close: 100}}

	if res, err := Analyze(nil, stocks, Config{}); !errors.Is(err, ErrInsufficientData) || res != nil {
		t.Errorf("no crypto rows: expected ErrInsufficientData, got (%v, %v)", res, err)
	}
	if res, err := Analyze(crypto, nil, Config{}); !errors.Is(err, ErrInsufficientData) || res != nil {
		t.Errorf("no stock rows: expected ErrInsufficientData, got (%v, %v)", res, err)
	}
}

func TestAnalyze(t *testing.T) {
	// BTC: +10%, +10%, -10% days. NVDA closes: +5%, +5%, -10% days with a
	// 10%-of-close range every bar, so the two return series correlate to
	// exactly 1.0 and both average volatilities come out to round numbers.
	crypto := []model.CryptoPrice{
		{Date: 20250102, Symbol: "BTC", PriceUSD: 100},
		{Date: 20250103, Symbol: "BTC", PriceUSD: 110},
		{Date: 20250104, Symbol: "BTC", PriceUSD: 121},
		{Date: 20250105, Symbol: "BTC", PriceUSD: 108.9},
		{Date: 20250102, Symbol: "ETH", PriceUSD: 50},
		{Date: 20250103, Symbol: "ETH", PriceUSD: 60},
	}
	stocks := []model.StockPrice{
		{Date: 20250102, Symbol: "NVDA", High: 105, Low: 95, Close: 100},
		{Date: 20250103, Symbol: "NVDA", High: 110.25, Low: 99.75, Close: 105},
		{Date: 20250104, Symbol: "NVDA", High: 115.7625, Low: 104.7375, Close: 110.25},
		{Date: 20250105, Symbol: "NVDA", High: 104.18625, Low: 94.26375, Close: 99.225},
		{Date: 20250102, Symbol: "AMD", High: 210, Low: 190, Close: 200},
		{Date: 20250103, Symbol: "AMD", High: 220, Low: 180, Close: 200},
	}

	res, err := Analyze(crypto, stocks, Config{MomentumWindow: 2, TopMovers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Correlations) != 4 {
		t.Fatalf("expected 4 pairs, got %d: %v", len(res.Correlations), res.Correlations)
	}
	if got := res.Correlations["BTC-NVDA"]; !almostEqual(got, 1) {
		t.Errorf("BTC-NVDA: expected 1.0, got %.6f", got)
	}
	for _, key := range []string{"BTC-AMD", "ETH-NVDA", "ETH-AMD"} {
		if got, ok := res.Correlations[key]; !ok || got != 0 {
			t.Errorf("%s: expected 0 for too few shared return days, got (%.6f, %v)", key, got, ok)
		}
	}

	if got := res.AvgCryptoVolatility["BTC"]; !almostEqual(got, 10) {
		t.Errorf("BTC volatility: expected 10, got %.4f", got)
	}
	if got := res.AvgCryptoVolatility["ETH"]; !almostEqual(got, 20) {
		t.Errorf("ETH volatility: expected 20, got %.4f", got)
	}
	if got := res.AvgStockVolatility["NVDA"]; !almostEqual(got, 10) {
		t.Errorf("NVDA volatility: expected 10, got %.4f", got)
	}
	if got := res.AvgStockVolatility["AMD"]; !almostEqual(got, 15) {
		t.Errorf("AMD volatility: expected 15, got %.4f", got)
	}

	// Momentum over a 2-day window: (121-100)/100 then (108.9-110)/110.
	btcTop := res.TopCryptoMomentum["BTC"]
	if len(btcTop) != 2 {
		t.Fatalf("BTC momentum: expected 2 values, got %d", len(btcTop))
	}
	if btcTop[0].Date != 20250104 || !almostEqual(btcTop[0].Value, 21) {
		t.Errorf("BTC top momentum: expected (20250104, 21), got (%v, %.4f)", btcTop[0].Date, btcTop[0].Value)
	}
	if btcTop[1].Date != 20250105 || !almostEqual(btcTop[1].Value, -1) {
		t.Errorf("BTC second momentum: expected (20250105, -1), got (%v, %.4f)", btcTop[1].Date, btcTop[1].Value)
	}
	if got := len(res.TopCryptoMomentum["ETH"]); got != 0 {
		t.Errorf("ETH momentum: expected none for 2 observations, got %d", got)
	}

	if got := len(res.CryptoReturns["BTC"]); got != 3 {
		t.Errorf("BTC returns: expected 3 values, got %d", got)
	}
	if got := len(res.StockReturns["AMD"]); got != 1 {
		t.Errorf("AMD returns: expected 1 value, got %d", got)
	}
}

func TestAnalyze_SinglePairDefaults(t *testing.T) {
	// Ten fully overlapping days for one instrument per class, analyzed
	// with the default 7-day window and top-5 cut.
	var (
		crypto []model.CryptoPrice
		stocks []model.StockPrice
	)
	for i := 0; i < 10; i++ {
		day := dateint.Key(20250101 + i)
		crypto = append(crypto, model.CryptoPrice{Date: day, Symbol: "BTC", PriceUSD: 100 + float64(i)})
		px := 200 + 2*float64(i)
		stocks = append(stocks, model.StockPrice{Date: day, Symbol: "NVDA", High: px + 1, Low: px - 1, Close: px})
	}

	res, err := Analyze(crypto, stocks, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MomentumWindow != DefaultMomentumWindow || res.TopMovers != DefaultTopMovers {
		t.Errorf("defaults not applied: window %d, movers %d", res.MomentumWindow, res.TopMovers)
	}
	if len(res.Correlations) != 1 {
		t.Fatalf("expected exactly one pair, got %v", res.Correlations)
	}
	if _, ok := res.Correlations["BTC-NVDA"]; !ok {
		t.Errorf("missing BTC-NVDA key: %v", res.Correlations)
	}
	if len(res.AvgCryptoVolatility) != 1 || len(res.AvgStockVolatility) != 1 {
		t.Errorf("expected one volatility entry per class, got %d and %d",
			len(res.AvgCryptoVolatility), len(res.AvgStockVolatility))
	}
	// Ten observations minus the 7-day window leaves three momentum days,
	// all kept by the top-5 cut.
	if got := len(res.TopCryptoMomentum["BTC"]); got != 3 {
		t.Errorf("BTC momentum days = %d, want 3", got)
	}
	if got := len(res.TopStockMomentum["NVDA"]); got != 3 {
		t.Errorf("NVDA momentum days = %d, want 3", got)
	}
}

func TestAnalyze_DefaultConfig(t *testing.T) {
	crypto := make([]model.CryptoPrice, 0, 8)
	for i := 0; i < 8; i++ {
		crypto = append(crypto, model.CryptoPrice{
			Date:     dateint.Key(20250102 + i), // Jan 2 through Jan 9
			Symbol:   "BTC",
			PriceUSD: 100 + float64(i)*10,
		})
	}
	stocks := []model.StockPrice{
		{Date: 20250102, Symbol: "NVDA", High: 105, Low: 95, Close: 100},
		{Date: 20250103, Symbol: "NVDA", High: 106, Low: 96, Close: 101},
	}

	res, err := Analyze(crypto, stocks, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Eight observations minus the default 7-day window leaves one value.
	top := res.TopCryptoMomentum["BTC"]
	if len(top) != 1 {
		t.Fatalf("expected 1 momentum value, got %d", len(top))
	}
	if top[0].Date != 20250109 || !almostEqual(top[0].Value, 70) {
		t.Errorf("expected (20250109, 70), got (%v, %.4f)", top[0].Date, top[0].Value)
	}
}
