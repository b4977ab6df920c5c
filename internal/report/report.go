// Package report renders analysis results as a plain-text report file.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"MarketLens/internal/analytics"
	"MarketLens/internal/model"
)

// Format renders the full analysis report. Every section iterates in a
// fixed order, so the same Result always renders identical bytes.
func Format(res *analytics.Result) string {
	var b strings.Builder
	thick := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	b.WriteString(thick + "\n")
	b.WriteString("CRYPTOCURRENCY & TECH STOCK ANALYSIS RESULTS\n")
	b.WriteString(thick + "\n\n")

	b.WriteString("CROSS-MARKET CORRELATIONS\n")
	b.WriteString(thin + "\n")
	b.WriteString("Correlation between cryptocurrency and stock daily returns:\n\n")
	for _, pair := range sortedKeys(res.Correlations) {
		b.WriteString(fmt.Sprintf("  %-20s: %7.4f\n", pair, res.Correlations[pair]))
	}
	b.WriteString("\nInterpretation:\n")
	b.WriteString("  1.0 = Perfect positive correlation\n")
	b.WriteString("  0.0 = No correlation\n")
	b.WriteString(" -1.0 = Perfect negative correlation\n")

	b.WriteString("\n" + thick + "\n")
	b.WriteString("AVERAGE VOLATILITY RANKINGS\n")
	b.WriteString(thin + "\n\n")
	b.WriteString("Cryptocurrencies:\n")
	writeVolatilityRanking(&b, res.AvgCryptoVolatility)
	b.WriteString("\nStocks:\n")
	writeVolatilityRanking(&b, res.AvgStockVolatility)

	b.WriteString("\n" + thick + "\n")
	b.WriteString(fmt.Sprintf("TOP %d MOMENTUM DAYS (%d-Day Price Change)\n", res.TopMovers, res.MomentumWindow))
	b.WriteString(thin + "\n\n")
	b.WriteString("Cryptocurrencies:\n")
	writeMomentumDays(&b, res.TopCryptoMomentum)
	b.WriteString("\nStocks:\n")
	writeMomentumDays(&b, res.TopStockMomentum)

	b.WriteString("\n" + thick + "\n")
	b.WriteString("Analysis complete. All data calculated from database SELECT queries.\n")
	b.WriteString(thick + "\n")
	return b.String()
}

// writeVolatilityRanking lists symbols from most to least volatile, ties
// broken alphabetically.
func writeVolatilityRanking(b *strings.Builder, avg map[string]float64) {
	symbols := sortedKeys(avg)
	sort.SliceStable(symbols, func(i, j int) bool {
		return avg[symbols[i]] > avg[symbols[j]]
	})
	for _, symbol := range symbols {
		b.WriteString(fmt.Sprintf("  %-5s: %6.2f%% average daily volatility\n", symbol, avg[symbol]))
	}
}

func writeMomentumDays(b *strings.Builder, top map[string][]model.Point) {
	for _, symbol := range sortedKeys(top) {
		b.WriteString(fmt.Sprintf("\n  %s:\n", symbol))
		for _, p := range top[symbol] {
			b.WriteString(fmt.Sprintf("    %s: %+7.2f%%\n", p.Date, p.Value))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteFile renders the report and writes it to path, creating parent
// directories as needed.
func WriteFile(path string, res *analytics.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Format(res)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
