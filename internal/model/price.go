package model

import (
	"database/sql"

	"MarketLens/internal/dateint"
)

// CryptoPrice is one daily cryptocurrency observation joined with its
// symbol registry row. MarketCap and Volume are nullable in the store.
type CryptoPrice struct {
	Date      dateint.Key
	Symbol    string
	Name      string
	PriceUSD  float64
	MarketCap sql.NullFloat64
	Volume    sql.NullFloat64
}

// StockPrice is one daily equity bar joined with its symbol registry row.
type StockPrice struct {
	Date   dateint.Key
	Symbol string
	Name   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Point is a single dated metric observation. A []Point holds one
// instrument's series in ascending date order with unique dates.
type Point struct {
	Date  dateint.Key
	Value float64
}
