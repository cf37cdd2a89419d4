package store

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockTrader/internal/model"
)

// Default policy values seeded into a fresh database.
const (
	defaultBuyStepPercentage = "0.05"
	defaultAnnualReturnRate  = "0.20"
)

// SQLiteStore persists all application data to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database, runs migrations, and
// seeds default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads don't block the scheduler's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			stock_code TEXT NOT NULL,
			stock_name TEXT NOT NULL,
			buy_price  REAL NOT NULL,
			buy_time   INTEGER NOT NULL,
			quantity   INTEGER NOT NULL,
			notes      TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_code ON trades(stock_code)`,

		`CREATE TABLE IF NOT EXISTS stocks (
			code          TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			current_price REAL,
			last_updated  INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp               INTEGER NOT NULL,
			run_id                  TEXT,
			total_investment        REAL,
			total_current_value     REAL,
			total_unrealized_gain   REAL,
			unrealized_gain_percent REAL,
			sell_signals            INTEGER,
			buy_signals             INTEGER,
			total_trades            INTEGER,
			total_stocks            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON portfolio_snapshots(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) seedDefaults() error {
	defaults := [][2]string{
		{KeyBuyStepPercentage, defaultBuyStepPercentage},
		{KeyAnnualReturnRate, defaultAnnualReturnRate},
		{KeyNotificationEnabled, "true"},
	}
	for _, kv := range defaults {
		if _, err := s.db.Exec(
			"INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", kv[0], kv[1],
		); err != nil {
			return err
		}
	}
	return nil
}

// CreateTrade inserts a trade and returns its assigned id.
func (s *SQLiteStore) CreateTrade(trade *model.Trade) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := trade.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.Exec(`INSERT INTO trades
		(stock_code, stock_name, buy_price, buy_time, quantity, notes, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		trade.StockCode, trade.StockName, trade.BuyPrice,
		trade.BuyTime.Unix(), trade.Quantity, trade.Notes, createdAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert trade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListTrades returns all trades, newest purchase first.
func (s *SQLiteStore) ListTrades() ([]*model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, stock_code, stock_name, buy_price,
		buy_time, quantity, notes, created_at
		FROM trades ORDER BY buy_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*model.Trade
	for rows.Next() {
		var t model.Trade
		var buyTime, createdAt int64
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.StockCode, &t.StockName, &t.BuyPrice,
			&buyTime, &t.Quantity, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.BuyTime = time.Unix(buyTime, 0)
		t.CreatedAt = time.Unix(createdAt, 0)
		t.Notes = notes.String
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

// UpdateTrade replaces every field of the trade except id and created_at.
func (s *SQLiteStore) UpdateTrade(trade *model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trade.ID == 0 {
		return fmt.Errorf("update trade: missing id")
	}
	_, err := s.db.Exec(`UPDATE trades
		SET stock_code = ?, stock_name = ?, buy_price = ?, buy_time = ?, quantity = ?, notes = ?
		WHERE id = ?`,
		trade.StockCode, trade.StockName, trade.BuyPrice,
		trade.BuyTime.Unix(), trade.Quantity, trade.Notes, trade.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	return nil
}

// DeleteTrade removes a trade by id. Calculations are derived, never stored,
// so nothing else needs cleaning up.
func (s *SQLiteStore) DeleteTrade(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM trades WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	return nil
}

// UpsertStock caches the latest known price for a stock code.
func (s *SQLiteStore) UpsertStock(stock *model.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var price any
	if stock.CurrentPrice != nil {
		price = *stock.CurrentPrice
	}
	var updated any
	if stock.LastUpdated != nil {
		updated = stock.LastUpdated.Unix()
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO stocks (code, name, current_price, last_updated)
		VALUES (?,?,?,?)`,
		stock.Code, stock.Name, price, updated,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListStocks returns the cached stock table ordered by code.
func (s *SQLiteStore) ListStocks() ([]*model.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT code, name, current_price, last_updated FROM stocks ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []*model.Stock
	for rows.Next() {
		var st model.Stock
		var price sql.NullFloat64
		var updated sql.NullInt64
		if err := rows.Scan(&st.Code, &st.Name, &price, &updated); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		if price.Valid {
			p := price.Float64
			st.CurrentPrice = &p
		}
		if updated.Valid {
			u := time.Unix(updated.Int64, 0)
			st.LastUpdated = &u
		}
		stocks = append(stocks, &st)
	}
	return stocks, rows.Err()
}

// GetSetting reads a settings value. The bool reports whether the key exists.
func (s *SQLiteStore) GetSetting(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting writes a settings value, replacing any previous one.
func (s *SQLiteStore) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// LoadPolicy reads the two calculation parameters from settings, falling back
// to the seeded defaults for missing or malformed values.
func (s *SQLiteStore) LoadPolicy() (model.Policy, error) {
	policy := model.Policy{}

	step, ok, err := s.GetSetting(KeyBuyStepPercentage)
	if err != nil {
		return policy, err
	}
	if !ok {
		step = defaultBuyStepPercentage
	}
	rate, ok, err := s.GetSetting(KeyAnnualReturnRate)
	if err != nil {
		return policy, err
	}
	if !ok {
		rate = defaultAnnualReturnRate
	}

	policy.BuyStepPercentage, err = strconv.ParseFloat(step, 64)
	if err != nil {
		return policy, fmt.Errorf("parse %s: %w", KeyBuyStepPercentage, err)
	}
	policy.AnnualReturnRate, err = strconv.ParseFloat(rate, 64)
	if err != nil {
		return policy, fmt.Errorf("parse %s: %w", KeyAnnualReturnRate, err)
	}
	return policy, nil
}

// SavePolicy writes the two calculation parameters to settings.
func (s *SQLiteStore) SavePolicy(policy model.Policy) error {
	if err := s.SetSetting(KeyBuyStepPercentage, strconv.FormatFloat(policy.BuyStepPercentage, 'f', -1, 64)); err != nil {
		return err
	}
	return s.SetSetting(KeyAnnualReturnRate, strconv.FormatFloat(policy.AnnualReturnRate, 'f', -1, 64))
}

// RecordSnapshot appends one portfolio history row.
func (s *SQLiteStore) RecordSnapshot(snap *PortfolioSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO portfolio_snapshots
		(timestamp, run_id, total_investment, total_current_value, total_unrealized_gain,
		 unrealized_gain_percent, sell_signals, buy_signals, total_trades, total_stocks)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.RunID,
		snap.TotalInvestment, snap.TotalCurrentValue, snap.TotalUnrealizedGain,
		snap.UnrealizedGainPercent, snap.SellSignals, snap.BuySignals,
		snap.TotalTrades, snap.TotalStocks,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
