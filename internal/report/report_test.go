package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MarketLens/internal/analytics"
	"MarketLens/internal/model"
)

func sampleResult() *analytics.Result {
	return &analytics.Result{
		MomentumWindow: 7,
		TopMovers:      5,
		Correlations: map[string]float64{
			"ETH-NVDA": 0.5,
			"BTC-NVDA": 1.0,
			"BTC-AMD":  -0.25,
		},
		AvgCryptoVolatility: map[string]float64{
			"BTC": 3.5,
			"ETH": 5.25,
		},
		AvgStockVolatility: map[string]float64{
			"NVDA": 2.0,
			"AMD":  2.0,
		},
		TopCryptoMomentum: map[string][]model.Point{
			"BTC": {
				{Date: 20250104, Value: 21.0},
				{Date: 20250105, Value: -1.5},
			},
		},
		TopStockMomentum: map[string][]model.Point{
			"NVDA": {
				{Date: 20250103, Value: 3.0},
			},
		},
	}
}

func TestFormat_Sections(t *testing.T) {
	out := Format(sampleResult())

	headers := []string{
		"CRYPTOCURRENCY & TECH STOCK ANALYSIS RESULTS",
		"CROSS-MARKET CORRELATIONS",
		"AVERAGE VOLATILITY RANKINGS",
		"TOP 5 MOMENTUM DAYS (7-Day Price Change)",
		"Analysis complete. All data calculated from database SELECT queries.",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(out, h)
		if idx < 0 {
			t.Fatalf("missing section %q in report:\n%s", h, out)
		}
		if idx <= last {
			t.Errorf("section %q out of order", h)
		}
		last = idx
	}
}

func TestFormat_CorrelationsSortedByPair(t *testing.T) {
	out := Format(sampleResult())

	lines := []string{
		"  BTC-AMD             : -0.2500",
		"  BTC-NVDA            :  1.0000",
		"  ETH-NVDA            :  0.5000",
	}
	last := -1
	for _, line := range lines {
		idx := strings.Index(out, line)
		if idx < 0 {
			t.Fatalf("missing correlation line %q in report:\n%s", line, out)
		}
		if idx <= last {
			t.Errorf("correlation line %q not in pair-key order", line)
		}
		last = idx
	}
}

func TestFormat_VolatilityRankedDescending(t *testing.T) {
	out := Format(sampleResult())

	eth := strings.Index(out, "  ETH  :   5.25% average daily volatility")
	btc := strings.Index(out, "  BTC  :   3.50% average daily volatility")
	if eth < 0 || btc < 0 {
		t.Fatalf("missing crypto volatility lines in report:\n%s", out)
	}
	if eth >= btc {
		t.Errorf("ETH (5.25%%) should rank above BTC (3.50%%)")
	}

	// Equal volatility falls back to symbol order.
	amd := strings.Index(out, "  AMD  :   2.00% average daily volatility")
	nvda := strings.Index(out, "  NVDA :   2.00% average daily volatility")
	if amd < 0 || nvda < 0 {
		t.Fatalf("missing stock volatility lines in report:\n%s", out)
	}
	if amd >= nvda {
		t.Errorf("tied volatility should list AMD before NVDA")
	}
}

func TestFormat_MomentumLines(t *testing.T) {
	out := Format(sampleResult())

	lines := []string{
		"    2025-01-04:  +21.00%",
		"    2025-01-05:   -1.50%",
		"    2025-01-03:   +3.00%",
	}
	for _, line := range lines {
		if !strings.Contains(out, line) {
			t.Errorf("missing momentum line %q in report:\n%s", line, out)
		}
	}
}

func TestFormat_Deterministic(t *testing.T) {
	res := sampleResult()
	first := Format(res)
	for i := 0; i < 10; i++ {
		if got := Format(res); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}

func TestWriteFile(t *testing.T) {
	res := sampleResult()
	path := filepath.Join(t.TempDir(), "output", "analysis_results.txt")

	if err := WriteFile(path, res); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != Format(res) {
		t.Errorf("file contents differ from Format output")
	}
}
