package analytics

import "MarketLens/internal/model"

// GroupBySymbol partitions rows into per-symbol groups, preserving each
// symbol's input order. Store reads come back ordered by symbol then date,
// so every group arrives in ascending date order. Empty input yields an
// empty map.
func GroupBySymbol[R any](rows []R, symbol func(R) string) map[string][]R {
	groups := make(map[string][]R)
	for _, row := range rows {
		key := symbol(row)
		groups[key] = append(groups[key], row)
	}
	return groups
}

// CryptoPricePoints extracts the USD price from crypto rows as a dated series.
func CryptoPricePoints(rows []model.CryptoPrice) []model.Point {
	points := make([]model.Point, len(rows))
	for i, r := range rows {
		points[i] = model.Point{Date: r.Date, Value: r.PriceUSD}
	}
	return points
}

// StockClosePoints extracts the daily close from equity bars as a dated series.
func StockClosePoints(rows []model.StockPrice) []model.Point {
	points := make([]model.Point, len(rows))
	for i, r := range rows {
		points[i] = model.Point{Date: r.Date, Value: r.Close}
	}
	return points
}

// CryptoSeries groups crypto rows into per-symbol USD price series.
func CryptoSeries(rows []model.CryptoPrice) map[string][]model.Point {
	series := make(map[string][]model.Point)
	for sym, group := range GroupBySymbol(rows, func(r model.CryptoPrice) string { return r.Symbol }) {
		series[sym] = CryptoPricePoints(group)
	}
	return series
}

// StockSeries groups equity bars into per-symbol close series.
func StockSeries(rows []model.StockPrice) map[string][]model.Point {
	series := make(map[string][]model.Point)
	for sym, group := range GroupBySymbol(rows, func(r model.StockPrice) string { return r.Symbol }) {
		series[sym] = StockClosePoints(group)
	}
	return series
}
