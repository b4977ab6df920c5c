package scheduler

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"MarketLens/internal/analytics"
	"MarketLens/internal/collector"
	"MarketLens/internal/dateint"
	"MarketLens/internal/store"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	st := store.NewMemoryStore()
	btcID, err := st.EnsureCryptoSymbol("BTC", "Bitcoin")
	if err != nil {
		t.Fatal(err)
	}
	nvdaID, err := st.EnsureStockSymbol("NVDA", "NVIDIA Corporation")
	if err != nil {
		t.Fatal(err)
	}

	// Four overlapping days of history so returns and correlations exist.
	for i := 0; i < 4; i++ {
		day := dateint.Key(20250102 + i)
		err := st.InsertCryptoPrice(store.CryptoPriceRow{
			CryptoID: btcID,
			Date:     day,
			PriceUSD: 100 + float64(i)*10,
			MarketCap: sql.NullFloat64{
				Float64: 2e12,
				Valid:   true,
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		px := 200 + float64(i)*5
		err = st.InsertStockPrice(store.StockPriceRow{
			StockID: nvdaID,
			Date:    day,
			Open:    px - 1,
			High:    px + 2,
			Low:     px - 2,
			Close:   px,
			Volume:  1000,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	outDir := t.TempDir()
	col := &collector.Collector{
		Store: st,
		CryptoSource: &collector.MockCryptoFetcher{
			Bars: map[string][]collector.CryptoBar{
				"bitcoin": {
					{Date: 20250106, PriceUSD: 150},
					{Date: 20250107, PriceUSD: 155},
				},
			},
		},
		StockSource: &collector.MockStockFetcher{
			Bars: map[string][]collector.StockBar{
				"NVDA": {
					{Date: 20250106, Open: 219, High: 222, Low: 218, Close: 220, Volume: 900},
				},
			},
		},
		MaxRowsPerRun: 25,
		HistoryDays:   180,
	}
	opts := Options{
		CryptoTargets:     []collector.CryptoTarget{{Symbol: "BTC", Name: "Bitcoin", CoinGeckoID: "bitcoin"}},
		StockTargets:      []collector.StockTarget{{Symbol: "NVDA", Name: "NVIDIA Corporation"}},
		Analysis:          analytics.Config{MomentumWindow: 2, TopMovers: 3},
		ResultsFile:       filepath.Join(outDir, "analysis_results.txt"),
		VisualizationsDir: filepath.Join(outDir, "visualizations"),
	}
	return NewScheduler(st, col, opts)
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.RegisterAll("0 0 8 * * *", "0 0 22 * * 1-5", "0 30 22 * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if got := len(s.Cron.Entries()); got != 3 {
		t.Errorf("registered %d entries, want 3", got)
	}
}

func TestRegisterAll_InvalidSpec(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.RegisterAll("not a cron spec", "0 0 22 * * 1-5", "0 30 22 * * *"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRunCollectionNow(t *testing.T) {
	s := newTestScheduler(t)

	sum := s.RunCryptoNow()
	if sum.Inserted != 2 || len(sum.Failed) != 0 {
		t.Errorf("crypto run = %+v, want 2 inserted", sum)
	}
	sum = s.RunStocksNow()
	if sum.Inserted != 1 || len(sum.Failed) != 0 {
		t.Errorf("stock run = %+v, want 1 inserted", sum)
	}
}

func TestRunAnalysisNow_WritesReport(t *testing.T) {
	s := newTestScheduler(t)

	res, err := s.RunAnalysisNow()
	if err != nil {
		t.Fatalf("RunAnalysisNow: %v", err)
	}
	if len(res.Correlations) != 1 {
		t.Errorf("correlations = %v, want one BTC-NVDA pair", res.Correlations)
	}
	if _, err := os.Stat(s.Opts.ResultsFile); err != nil {
		t.Errorf("results file missing: %v", err)
	}
}

func TestRunChartsNow_WritesImages(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.RunChartsNow(); err != nil {
		t.Fatalf("RunChartsNow: %v", err)
	}
	for _, name := range []string{PriceChartFile, HeatmapFile} {
		if _, err := os.Stat(filepath.Join(s.Opts.VisualizationsDir, name)); err != nil {
			t.Errorf("chart %s missing: %v", name, err)
		}
	}
}

func TestRunAnalysisNow_EmptyStore(t *testing.T) {
	s := newTestScheduler(t)
	s.Store = store.NewMemoryStore()

	if _, err := s.RunAnalysisNow(); err == nil {
		t.Fatal("expected error when store holds no prices")
	}
}
