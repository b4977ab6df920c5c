package analytics

import (
	"errors"
	"fmt"
	"strings"

	"MarketLens/internal/model"
)

// ErrInsufficientData is returned when an asset class has no rows at the
// start of an analysis pass; reporting has nothing to render from a
// one-sided result.
var ErrInsufficientData = errors.New("analytics: insufficient data")

// Defaults for the analysis tunables.
const (
	DefaultMomentumWindow = 7
	DefaultTopMovers      = 5
)

// Config carries the tunables for one analysis pass. Passing it explicitly
// keeps concurrent passes with different settings independent.
type Config struct {
	MomentumWindow int // look-back days for momentum
	TopMovers      int // momentum days kept per instrument, ranked by magnitude
}

func (c Config) withDefaults() Config {
	if c.MomentumWindow == 0 {
		c.MomentumWindow = DefaultMomentumWindow
	}
	if c.TopMovers == 0 {
		c.TopMovers = DefaultTopMovers
	}
	return c
}

// Result holds every statistic produced by one analysis pass, keyed by
// symbol (or pair key for correlations). Assembled once, never mutated.
type Result struct {
	// MomentumWindow and TopMovers echo the tunables the pass ran with.
	MomentumWindow int
	TopMovers      int

	// Correlations maps PairKey(crypto, stock) to the Pearson coefficient
	// of the two instruments' daily-return series.
	Correlations map[string]float64

	AvgCryptoVolatility map[string]float64
	AvgStockVolatility  map[string]float64

	TopCryptoMomentum map[string][]model.Point
	TopStockMomentum  map[string][]model.Point

	CryptoReturns map[string][]model.Point
	StockReturns  map[string][]model.Point
}

// PairKey builds the composite key naming a crypto/stock pair, e.g. "BTC-NVDA".
func PairKey(cryptoSymbol, stockSymbol string) string {
	return cryptoSymbol + "-" + stockSymbol
}

// SplitPairKey reverses PairKey. Splits on the first dash, so crypto
// symbols must not contain one.
func SplitPairKey(key string) (cryptoSymbol, stockSymbol string, ok bool) {
	return strings.Cut(key, "-")
}

// Analyze runs a full pass over both asset classes: per-symbol volatility
// averages, top momentum days, daily returns, and the cross-class
// correlation matrix of those returns. Rows must be ordered by symbol then
// date, the way store reads return them.
func Analyze(crypto []model.CryptoPrice, stocks []model.StockPrice, cfg Config) (*Result, error) {
	if len(crypto) == 0 || len(stocks) == 0 {
		return nil, fmt.Errorf("%w: %d crypto rows, %d stock rows", ErrInsufficientData, len(crypto), len(stocks))
	}
	cfg = cfg.withDefaults()

	cryptoGroups := GroupBySymbol(crypto, func(r model.CryptoPrice) string { return r.Symbol })
	stockGroups := GroupBySymbol(stocks, func(r model.StockPrice) string { return r.Symbol })

	res := &Result{
		MomentumWindow:      cfg.MomentumWindow,
		TopMovers:           cfg.TopMovers,
		Correlations:        make(map[string]float64, len(cryptoGroups)*len(stockGroups)),
		AvgCryptoVolatility: make(map[string]float64, len(cryptoGroups)),
		AvgStockVolatility:  make(map[string]float64, len(stockGroups)),
		TopCryptoMomentum:   make(map[string][]model.Point, len(cryptoGroups)),
		TopStockMomentum:    make(map[string][]model.Point, len(stockGroups)),
		CryptoReturns:       make(map[string][]model.Point, len(cryptoGroups)),
		StockReturns:        make(map[string][]model.Point, len(stockGroups)),
	}

	for sym, rows := range cryptoGroups {
		prices := CryptoPricePoints(rows)
		res.AvgCryptoVolatility[sym] = Mean(ChangeVolatility(prices))
		res.TopCryptoMomentum[sym] = TopByMagnitude(Momentum(prices, cfg.MomentumWindow), cfg.TopMovers)
		res.CryptoReturns[sym] = DailyReturns(prices)
	}
	for sym, rows := range stockGroups {
		closes := StockClosePoints(rows)
		res.AvgStockVolatility[sym] = Mean(RangeVolatility(rows))
		res.TopStockMomentum[sym] = TopByMagnitude(Momentum(closes, cfg.MomentumWindow), cfg.TopMovers)
		res.StockReturns[sym] = DailyReturns(closes)
	}
	for cryptoSym, cryptoRet := range res.CryptoReturns {
		for stockSym, stockRet := range res.StockReturns {
			res.Correlations[PairKey(cryptoSym, stockSym)] = Correlation(cryptoRet, stockRet)
		}
	}
	return res, nil
}
