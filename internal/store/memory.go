package store

import (
	"fmt"
	"sort"
	"sync"

	"MarketLens/internal/dateint"
	"MarketLens/internal/model"
)

// MemoryStore keeps everything in process memory. Used when no database
// path is configured and as a fast backend in tests; contents vanish on
// exit.
type MemoryStore struct {
	mu            sync.Mutex
	cryptoSymbols []registryEntry
	stockSymbols  []registryEntry
	cryptoPrices  map[int64]map[dateint.Key]CryptoPriceRow
	stockPrices   map[int64]map[dateint.Key]StockPriceRow
}

type registryEntry struct {
	id     int64
	symbol string
	name   string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cryptoPrices: make(map[int64]map[dateint.Key]CryptoPriceRow),
		stockPrices:  make(map[int64]map[dateint.Key]StockPriceRow),
	}
}

func ensureEntry(entries []registryEntry, symbol, name string) ([]registryEntry, int64) {
	for _, e := range entries {
		if e.symbol == symbol {
			return entries, e.id
		}
	}
	id := int64(len(entries) + 1)
	return append(entries, registryEntry{id: id, symbol: symbol, name: name}), id
}

func findEntry(entries []registryEntry, symbol string) (int64, error) {
	for _, e := range entries {
		if e.symbol == symbol {
			return e.id, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
}

func (m *MemoryStore) EnsureCryptoSymbol(symbol, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var id int64
	m.cryptoSymbols, id = ensureEntry(m.cryptoSymbols, symbol, name)
	return id, nil
}

func (m *MemoryStore) EnsureStockSymbol(symbol, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var id int64
	m.stockSymbols, id = ensureEntry(m.stockSymbols, symbol, name)
	return id, nil
}

func (m *MemoryStore) CryptoSymbolID(symbol string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return findEntry(m.cryptoSymbols, symbol)
}

func (m *MemoryStore) StockSymbolID(symbol string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return findEntry(m.stockSymbols, symbol)
}

func (m *MemoryStore) CryptoRowCount(cryptoID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cryptoPrices[cryptoID]), nil
}

func (m *MemoryStore) StockRowCount(stockID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stockPrices[stockID]), nil
}

func (m *MemoryStore) LastCryptoDate(cryptoID int64) (dateint.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last dateint.Key
	for d := range m.cryptoPrices[cryptoID] {
		if d > last {
			last = d
		}
	}
	return last, nil
}

func (m *MemoryStore) LastStockDate(stockID int64) (dateint.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last dateint.Key
	for d := range m.stockPrices[stockID] {
		if d > last {
			last = d
		}
	}
	return last, nil
}

func (m *MemoryStore) HasCryptoPrice(cryptoID int64, date dateint.Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cryptoPrices[cryptoID][date]
	return ok, nil
}

func (m *MemoryStore) HasStockPrice(stockID int64, date dateint.Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stockPrices[stockID][date]
	return ok, nil
}

func (m *MemoryStore) InsertCryptoPrice(row CryptoPriceRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cryptoPrices[row.CryptoID][row.Date]; ok {
		return fmt.Errorf("insert crypto price (%s, id %d): duplicate row", row.Date, row.CryptoID)
	}
	if m.cryptoPrices[row.CryptoID] == nil {
		m.cryptoPrices[row.CryptoID] = make(map[dateint.Key]CryptoPriceRow)
	}
	m.cryptoPrices[row.CryptoID][row.Date] = row
	return nil
}

func (m *MemoryStore) InsertStockPrice(row StockPriceRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stockPrices[row.StockID][row.Date]; ok {
		return fmt.Errorf("insert stock price (%s, id %d): duplicate row", row.Date, row.StockID)
	}
	if m.stockPrices[row.StockID] == nil {
		m.stockPrices[row.StockID] = make(map[dateint.Key]StockPriceRow)
	}
	m.stockPrices[row.StockID][row.Date] = row
	return nil
}

func (m *MemoryStore) CryptoPrices() ([]model.CryptoPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.CryptoPrice
	for _, e := range sortedBySymbol(m.cryptoSymbols) {
		for _, d := range sortedDates(m.cryptoPrices[e.id]) {
			row := m.cryptoPrices[e.id][d]
			out = append(out, model.CryptoPrice{
				Date:      row.Date,
				Symbol:    e.symbol,
				Name:      e.name,
				PriceUSD:  row.PriceUSD,
				MarketCap: row.MarketCap,
				Volume:    row.Volume,
			})
		}
	}
	return out, nil
}

func (m *MemoryStore) StockPrices() ([]model.StockPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.StockPrice
	for _, e := range sortedBySymbol(m.stockSymbols) {
		for _, d := range sortedDates(m.stockPrices[e.id]) {
			row := m.stockPrices[e.id][d]
			out = append(out, model.StockPrice{
				Date:   row.Date,
				Symbol: e.symbol,
				Name:   e.name,
				Open:   row.Open,
				High:   row.High,
				Low:    row.Low,
				Close:  row.Close,
				Volume: row.Volume,
			})
		}
	}
	return out, nil
}

func (m *MemoryStore) Summary() (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := &Summary{}
	for _, e := range sortedBySymbol(m.cryptoSymbols) {
		st := SymbolStatus{ID: e.id, Symbol: e.symbol, Name: e.name, Rows: len(m.cryptoPrices[e.id])}
		for d := range m.cryptoPrices[e.id] {
			if d > st.LastDate {
				st.LastDate = d
			}
		}
		sum.Crypto = append(sum.Crypto, st)
	}
	for _, e := range sortedBySymbol(m.stockSymbols) {
		st := SymbolStatus{ID: e.id, Symbol: e.symbol, Name: e.name, Rows: len(m.stockPrices[e.id])}
		for d := range m.stockPrices[e.id] {
			if d > st.LastDate {
				st.LastDate = d
			}
		}
		sum.Stocks = append(sum.Stocks, st)
	}
	return sum, nil
}

func (m *MemoryStore) Close() error { return nil }

func sortedBySymbol(entries []registryEntry) []registryEntry {
	out := make([]registryEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].symbol < out[j].symbol })
	return out
}

func sortedDates[R any](rows map[dateint.Key]R) []dateint.Key {
	dates := make([]dateint.Key, 0, len(rows))
	for d := range rows {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}
