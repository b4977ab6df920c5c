package analytics

import (
	"math"

	"MarketLens/internal/model"
)

// safeRatio returns numerator/denominator*scale, or 0 when the denominator
// is not positive. Every percentage metric in this package routes through it
// so the undefined-denominator convention stays uniform.
func safeRatio(numerator, denominator, scale float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator * scale
}

// RangeVolatility measures each bar's trading range as a percentage of its
// close: (high-low)/close*100. Produces one value per input bar.
func RangeVolatility(bars []model.StockPrice) []model.Point {
	out := make([]model.Point, len(bars))
	for i, b := range bars {
		out[i] = model.Point{Date: b.Date, Value: safeRatio(b.High-b.Low, b.Close, 100)}
	}
	return out
}

// ChangeVolatility approximates volatility from consecutive observations:
// |p[i]-p[i-1]|/p[i-1]*100. Used for instruments that carry a single daily
// price instead of a high/low range. The first observation has no
// predecessor, so the output is one shorter than the input.
func ChangeVolatility(prices []model.Point) []model.Point {
	if len(prices) < 2 {
		return nil
	}
	out := make([]model.Point, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		v := safeRatio(math.Abs(prices[i].Value-prices[i-1].Value), prices[i-1].Value, 100)
		out = append(out, model.Point{Date: prices[i].Date, Value: v})
	}
	return out
}

// Momentum measures the percentage change over a fixed look-back window:
// (p[i]-p[i-window])/p[i-window]*100 for i >= window, dated at the later
// observation. Yields max(0, len-window) values; a window below 1 yields nil.
func Momentum(prices []model.Point, window int) []model.Point {
	if window < 1 || len(prices) <= window {
		return nil
	}
	out := make([]model.Point, 0, len(prices)-window)
	for i := window; i < len(prices); i++ {
		v := safeRatio(prices[i].Value-prices[i-window].Value, prices[i-window].Value, 100)
		out = append(out, model.Point{Date: prices[i].Date, Value: v})
	}
	return out
}

// DailyReturns measures the signed percentage change from the previous
// observation: (p[i]-p[i-1])/p[i-1]*100. Output is one shorter than input.
func DailyReturns(prices []model.Point) []model.Point {
	if len(prices) < 2 {
		return nil
	}
	out := make([]model.Point, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		v := safeRatio(prices[i].Value-prices[i-1].Value, prices[i-1].Value, 100)
		out = append(out, model.Point{Date: prices[i].Date, Value: v})
	}
	return out
}
