package store

import (
	"database/sql"
	"errors"

	"MarketLens/internal/dateint"
	"MarketLens/internal/model"
)

// ErrUnknownSymbol is returned when a symbol has no registry row yet.
var ErrUnknownSymbol = errors.New("store: unknown symbol")

// CryptoPriceRow is one daily crypto observation keyed for insertion.
type CryptoPriceRow struct {
	CryptoID  int64
	Date      dateint.Key
	PriceUSD  float64
	MarketCap sql.NullFloat64
	Volume    sql.NullFloat64
}

// StockPriceRow is one daily equity bar keyed for insertion.
type StockPriceRow struct {
	StockID int64
	Date    dateint.Key
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  int64
}

// SymbolStatus describes one instrument's collection progress.
type SymbolStatus struct {
	ID       int64
	Symbol   string
	Name     string
	Rows     int
	LastDate dateint.Key // zero when no rows exist yet
}

// Summary lists the collection progress of every registered instrument.
type Summary struct {
	Crypto []SymbolStatus
	Stocks []SymbolStatus
}

// Store persists instrument registries and daily price history.
type Store interface {
	// EnsureCryptoSymbol registers a crypto symbol if missing and returns its id.
	EnsureCryptoSymbol(symbol, name string) (int64, error)
	// EnsureStockSymbol registers a stock symbol if missing and returns its id.
	EnsureStockSymbol(symbol, name string) (int64, error)

	// CryptoSymbolID resolves a registered crypto symbol, or ErrUnknownSymbol.
	CryptoSymbolID(symbol string) (int64, error)
	// StockSymbolID resolves a registered stock symbol, or ErrUnknownSymbol.
	StockSymbolID(symbol string) (int64, error)

	CryptoRowCount(cryptoID int64) (int, error)
	StockRowCount(stockID int64) (int, error)
	LastCryptoDate(cryptoID int64) (dateint.Key, error)
	LastStockDate(stockID int64) (dateint.Key, error)
	HasCryptoPrice(cryptoID int64, date dateint.Key) (bool, error)
	HasStockPrice(stockID int64, date dateint.Key) (bool, error)

	InsertCryptoPrice(row CryptoPriceRow) error
	InsertStockPrice(row StockPriceRow) error

	// CryptoPrices returns all crypto rows joined with their registry entry,
	// ordered by symbol then date.
	CryptoPrices() ([]model.CryptoPrice, error)
	// StockPrices returns all stock rows joined with their registry entry,
	// ordered by symbol then date.
	StockPrices() ([]model.StockPrice, error)

	Summary() (*Summary, error)
	Close() error
}
