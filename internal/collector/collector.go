package collector

import (
	"log"
	"time"

	"MarketLens/internal/store"
)

// MockCryptoFetcher returns canned history for development and testing.
type MockCryptoFetcher struct {
	Bars map[string][]CryptoBar // keyed by coin id
	Err  error
}

func (m *MockCryptoFetcher) Name() string { return "mock" }

func (m *MockCryptoFetcher) FetchDailyHistory(coinID string, _ int) ([]CryptoBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars[coinID], nil
}

// MockStockFetcher returns canned bars for development and testing.
type MockStockFetcher struct {
	Bars map[string][]StockBar // keyed by ticker
	Err  error
}

func (m *MockStockFetcher) Name() string { return "mock" }

func (m *MockStockFetcher) FetchDailyBars(symbol string) ([]StockBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars[symbol], nil
}

// CryptoTarget names one cryptocurrency to collect.
type CryptoTarget struct {
	Symbol      string
	Name        string
	CoinGeckoID string
}

// StockTarget names one equity to collect.
type StockTarget struct {
	Symbol string
	Name   string
}

// RunSummary reports what one collection pass did.
type RunSummary struct {
	Inserted int
	Skipped  int      // rows already present
	Failed   []string // symbols whose fetch or lookup failed
}

// Collector runs quota-bounded collection passes against both market APIs.
// Each pass inserts at most MaxRowsPerRun new rows across all symbols;
// repeated passes grow the history incrementally without re-fetching stored
// days into duplicates.
type Collector struct {
	Store         store.Store
	CryptoSource  CryptoFetcher
	StockSource   StockFetcher
	MaxRowsPerRun int
	HistoryDays   int           // days of crypto history requested per symbol
	CryptoDelay   time.Duration // pause between crypto symbol fetches
	StockDelay    time.Duration // pause between stock symbol fetches
}

// CollectCrypto fetches history for every target and inserts new rows until
// the per-run budget is spent. Symbols must already be registered.
func (c *Collector) CollectCrypto(targets []CryptoTarget) *RunSummary {
	log.Printf("[INFO] starting crypto collection via %s (%d symbols, budget %d rows)",
		c.CryptoSource.Name(), len(targets), c.MaxRowsPerRun)

	sum := &RunSummary{}
	for i, target := range targets {
		id, err := c.Store.CryptoSymbolID(target.Symbol)
		if err != nil {
			log.Printf("[WARN] %s not registered, skipping: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}

		existing, err := c.Store.CryptoRowCount(id)
		if err != nil {
			log.Printf("[ERROR] count rows for %s: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}
		log.Printf("[INFO] %s (%s): %d rows stored", target.Symbol, target.CoinGeckoID, existing)

		remaining := c.MaxRowsPerRun - sum.Inserted
		if remaining <= 0 {
			log.Printf("[INFO] %s: row budget spent this run", target.Symbol)
			continue
		}

		bars, err := c.CryptoSource.FetchDailyHistory(target.CoinGeckoID, c.HistoryDays)
		if err != nil {
			log.Printf("[WARN] fetch %s: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}
		log.Printf("[INFO] %s: %d records from API", target.Symbol, len(bars))

		inserted, skipped := c.insertCryptoBars(id, target.Symbol, bars, remaining)
		sum.Inserted += inserted
		sum.Skipped += skipped

		if sum.Inserted >= c.MaxRowsPerRun {
			log.Printf("[INFO] reached row budget of %d, stopping", c.MaxRowsPerRun)
			break
		}
		if i < len(targets)-1 && c.CryptoDelay > 0 {
			time.Sleep(c.CryptoDelay)
		}
	}

	log.Printf("[INFO] crypto collection done: %d inserted, %d skipped, %d failed",
		sum.Inserted, sum.Skipped, len(sum.Failed))
	return sum
}

func (c *Collector) insertCryptoBars(cryptoID int64, symbol string, bars []CryptoBar, budget int) (inserted, skipped int) {
	for _, bar := range bars {
		exists, err := c.Store.HasCryptoPrice(cryptoID, bar.Date)
		if err != nil {
			log.Printf("[ERROR] check %s %s: %v", symbol, bar.Date, err)
			continue
		}
		if exists {
			skipped++
			continue
		}
		if inserted >= budget {
			break
		}
		err = c.Store.InsertCryptoPrice(store.CryptoPriceRow{
			CryptoID:  cryptoID,
			Date:      bar.Date,
			PriceUSD:  bar.PriceUSD,
			MarketCap: bar.MarketCap,
			Volume:    bar.Volume,
		})
		if err != nil {
			log.Printf("[ERROR] insert %s %s: %v", symbol, bar.Date, err)
			continue
		}
		inserted++
	}
	log.Printf("[INFO] %s: inserted %d rows, skipped %d duplicates", symbol, inserted, skipped)
	return inserted, skipped
}

// CollectStocks fetches recent bars for every target and inserts new rows
// until the per-run budget is spent. The delay between symbols respects the
// free-tier limit of 5 calls per minute.
func (c *Collector) CollectStocks(targets []StockTarget) *RunSummary {
	log.Printf("[INFO] starting stock collection via %s (%d symbols, budget %d rows)",
		c.StockSource.Name(), len(targets), c.MaxRowsPerRun)

	sum := &RunSummary{}
	for i, target := range targets {
		id, err := c.Store.StockSymbolID(target.Symbol)
		if err != nil {
			log.Printf("[WARN] %s not registered, skipping: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}

		existing, err := c.Store.StockRowCount(id)
		if err != nil {
			log.Printf("[ERROR] count rows for %s: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}
		log.Printf("[INFO] %s: %d rows stored", target.Symbol, existing)

		remaining := c.MaxRowsPerRun - sum.Inserted
		if remaining <= 0 {
			log.Printf("[INFO] %s: row budget spent this run", target.Symbol)
			continue
		}

		bars, err := c.StockSource.FetchDailyBars(target.Symbol)
		if err != nil {
			log.Printf("[WARN] fetch %s: %v", target.Symbol, err)
			sum.Failed = append(sum.Failed, target.Symbol)
			continue
		}
		log.Printf("[INFO] %s: %d records from API", target.Symbol, len(bars))

		inserted, skipped := c.insertStockBars(id, target.Symbol, bars, remaining)
		sum.Inserted += inserted
		sum.Skipped += skipped

		if sum.Inserted >= c.MaxRowsPerRun {
			log.Printf("[INFO] reached row budget of %d, stopping", c.MaxRowsPerRun)
			break
		}
		if i < len(targets)-1 && c.StockDelay > 0 {
			log.Printf("[INFO] waiting %v before next symbol (API rate limit)", c.StockDelay)
			time.Sleep(c.StockDelay)
		}
	}

	log.Printf("[INFO] stock collection done: %d inserted, %d skipped, %d failed",
		sum.Inserted, sum.Skipped, len(sum.Failed))
	return sum
}

func (c *Collector) insertStockBars(stockID int64, symbol string, bars []StockBar, budget int) (inserted, skipped int) {
	for _, bar := range bars {
		exists, err := c.Store.HasStockPrice(stockID, bar.Date)
		if err != nil {
			log.Printf("[ERROR] check %s %s: %v", symbol, bar.Date, err)
			continue
		}
		if exists {
			skipped++
			continue
		}
		if inserted >= budget {
			break
		}
		err = c.Store.InsertStockPrice(store.StockPriceRow{
			StockID: stockID,
			Date:    bar.Date,
			Open:    bar.Open,
			High:    bar.High,
			Low:     bar.Low,
			Close:   bar.Close,
			Volume:  bar.Volume,
		})
		if err != nil {
			log.Printf("[ERROR] insert %s %s: %v", symbol, bar.Date, err)
			continue
		}
		inserted++
	}
	log.Printf("[INFO] %s: inserted %d rows, skipped %d duplicates", symbol, inserted, skipped)
	return inserted, skipped
}
