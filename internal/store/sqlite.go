package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"MarketLens/internal/dateint"
	"MarketLens/internal/model"
)

// SQLiteStore persists price history to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
// The parent directory is created if missing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis reads don't block collection writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS crypto_symbol (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT UNIQUE NOT NULL,
			name   TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS crypto_price (
			date       INTEGER NOT NULL,
			crypto_id  INTEGER NOT NULL,
			price_usd  REAL NOT NULL,
			market_cap REAL,
			volume     REAL,
			PRIMARY KEY (date, crypto_id),
			FOREIGN KEY (crypto_id) REFERENCES crypto_symbol(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crypto_price_symbol ON crypto_price(crypto_id, date)`,

		`CREATE TABLE IF NOT EXISTS stock_symbol (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT UNIQUE NOT NULL,
			name   TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS stock_price (
			date     INTEGER NOT NULL,
			stock_id INTEGER NOT NULL,
			open     REAL NOT NULL,
			high     REAL NOT NULL,
			low      REAL NOT NULL,
			close    REAL NOT NULL,
			volume   INTEGER NOT NULL,
			PRIMARY KEY (date, stock_id),
			FOREIGN KEY (stock_id) REFERENCES stock_symbol(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_price_symbol ON stock_price(stock_id, date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) EnsureCryptoSymbol(symbol, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSymbol("crypto_symbol", symbol, name)
}

func (s *SQLiteStore) EnsureStockSymbol(symbol, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSymbol("stock_symbol", symbol, name)
}

func (s *SQLiteStore) ensureSymbol(table, symbol, name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(fmt.Sprintf("SELECT id FROM %s WHERE symbol = ?", table), symbol).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup %s %s: %w", table, symbol, err)
	}

	res, err := s.db.Exec(fmt.Sprintf("INSERT INTO %s (symbol, name) VALUES (?, ?)", table), symbol, name)
	if err != nil {
		return 0, fmt.Errorf("register %s %s: %w", table, symbol, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("register %s %s: %w", table, symbol, err)
	}
	return id, nil
}

func (s *SQLiteStore) CryptoSymbolID(symbol string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbolID("crypto_symbol", symbol)
}

func (s *SQLiteStore) StockSymbolID(symbol string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbolID("stock_symbol", symbol)
}

func (s *SQLiteStore) symbolID(table, symbol string) (int64, error) {
	var id int64
	err := s.db.QueryRow(fmt.Sprintf("SELECT id FROM %s WHERE symbol = ?", table), symbol).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s %s: %w", table, symbol, err)
	}
	return id, nil
}

func (s *SQLiteStore) CryptoRowCount(cryptoID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowCount("crypto_price", "crypto_id", cryptoID)
}

func (s *SQLiteStore) StockRowCount(stockID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowCount("stock_price", "stock_id", stockID)
}

func (s *SQLiteStore) rowCount(table, idCol string, id int64) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, idCol)
	if err := s.db.QueryRow(query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *SQLiteStore) LastCryptoDate(cryptoID int64) (dateint.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDate("crypto_price", "crypto_id", cryptoID)
}

func (s *SQLiteStore) LastStockDate(stockID int64) (dateint.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDate("stock_price", "stock_id", stockID)
}

func (s *SQLiteStore) lastDate(table, idCol string, id int64) (dateint.Key, error) {
	var last sql.NullInt64
	query := fmt.Sprintf("SELECT MAX(date) FROM %s WHERE %s = ?", table, idCol)
	if err := s.db.QueryRow(query, id).Scan(&last); err != nil {
		return 0, fmt.Errorf("last date %s: %w", table, err)
	}
	if !last.Valid {
		return 0, nil
	}
	return dateint.Key(last.Int64), nil
}

func (s *SQLiteStore) HasCryptoPrice(cryptoID int64, date dateint.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasRow("crypto_price", "crypto_id", cryptoID, date)
}

func (s *SQLiteStore) HasStockPrice(stockID int64, date dateint.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasRow("stock_price", "stock_id", stockID, date)
}

func (s *SQLiteStore) hasRow(table, idCol string, id int64, date dateint.Key) (bool, error) {
	var one int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? AND date = ?", table, idCol)
	err := s.db.QueryRow(query, id, int64(date)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return true, nil
}

func (s *SQLiteStore) InsertCryptoPrice(row CryptoPriceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO crypto_price
		(date, crypto_id, price_usd, market_cap, volume)
		VALUES (?,?,?,?,?)`,
		int64(row.Date), row.CryptoID, row.PriceUSD, row.MarketCap, row.Volume,
	)
	if err != nil {
		return fmt.Errorf("insert crypto price (%s, id %d): %w", row.Date, row.CryptoID, err)
	}
	return nil
}

func (s *SQLiteStore) InsertStockPrice(row StockPriceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO stock_price
		(date, stock_id, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`,
		int64(row.Date), row.StockID, row.Open, row.High, row.Low, row.Close, row.Volume,
	)
	if err != nil {
		return fmt.Errorf("insert stock price (%s, id %d): %w", row.Date, row.StockID, err)
	}
	return nil
}

func (s *SQLiteStore) CryptoPrices() ([]model.CryptoPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT cp.date, cs.symbol, cs.name, cp.price_usd, cp.market_cap, cp.volume
		FROM crypto_price cp
		JOIN crypto_symbol cs ON cp.crypto_id = cs.id
		ORDER BY cs.symbol, cp.date`)
	if err != nil {
		return nil, fmt.Errorf("query crypto prices: %w", err)
	}
	defer rows.Close()

	var out []model.CryptoPrice
	for rows.Next() {
		var (
			r    model.CryptoPrice
			date int64
		)
		if err := rows.Scan(&date, &r.Symbol, &r.Name, &r.PriceUSD, &r.MarketCap, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan crypto price: %w", err)
		}
		r.Date = dateint.Key(date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crypto prices: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) StockPrices() ([]model.StockPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT sp.date, ss.symbol, ss.name, sp.open, sp.high, sp.low, sp.close, sp.volume
		FROM stock_price sp
		JOIN stock_symbol ss ON sp.stock_id = ss.id
		ORDER BY ss.symbol, sp.date`)
	if err != nil {
		return nil, fmt.Errorf("query stock prices: %w", err)
	}
	defer rows.Close()

	var out []model.StockPrice
	for rows.Next() {
		var (
			r    model.StockPrice
			date int64
		)
		if err := rows.Scan(&date, &r.Symbol, &r.Name, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan stock price: %w", err)
		}
		r.Date = dateint.Key(date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock prices: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Summary() (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	crypto, err := s.symbolStatuses("crypto_symbol", "crypto_price", "crypto_id")
	if err != nil {
		return nil, err
	}
	stocks, err := s.symbolStatuses("stock_symbol", "stock_price", "stock_id")
	if err != nil {
		return nil, err
	}
	return &Summary{Crypto: crypto, Stocks: stocks}, nil
}

func (s *SQLiteStore) symbolStatuses(symbolTable, priceTable, idCol string) ([]SymbolStatus, error) {
	query := fmt.Sprintf(`SELECT sym.id, sym.symbol, sym.name,
			COUNT(p.date), COALESCE(MAX(p.date), 0)
		FROM %s sym
		LEFT JOIN %s p ON p.%s = sym.id
		GROUP BY sym.id
		ORDER BY sym.symbol`, symbolTable, priceTable, idCol)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query %s summary: %w", symbolTable, err)
	}
	defer rows.Close()

	var out []SymbolStatus
	for rows.Next() {
		var (
			st   SymbolStatus
			last int64
		)
		if err := rows.Scan(&st.ID, &st.Symbol, &st.Name, &st.Rows, &last); err != nil {
			return nil, fmt.Errorf("scan %s summary: %w", symbolTable, err)
		}
		st.LastDate = dateint.Key(last)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s summary: %w", symbolTable, err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
