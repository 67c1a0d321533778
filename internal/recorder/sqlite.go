package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FundPulse/internal/common"
)

// SQLiteRecorder persists analysis snapshots to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *common.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *common.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_requests (
			request_id  TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			total_funds INTEGER NOT NULL,
			analyzed_ok INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_ts ON analysis_requests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_results (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id            TEXT NOT NULL,
			timestamp             INTEGER NOT NULL,
			fund_code             TEXT NOT NULL,
			fund_name             TEXT,
			holding_amount        REAL,
			estimated_change_pct  REAL,
			profit                REAL,
			drawdown_pct          REAL,
			forecast_drawdown_pct REAL,
			error                 TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_req ON analysis_results(request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_ts ON analysis_results(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis writes the run header and all fund rows in one transaction.
func (r *SQLiteRecorder) RecordAnalysis(summary RequestSummary, rows []AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ts := summary.Timestamp.Unix()
	if _, err := tx.Exec(`INSERT INTO analysis_requests
		(request_id, timestamp, total_funds, analyzed_ok)
		VALUES (?,?,?,?)`,
		summary.RequestID, ts, summary.TotalFunds, summary.AnalyzedSuccessfully,
	); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	for _, row := range rows {
		if _, err := tx.Exec(`INSERT INTO analysis_results
			(request_id, timestamp, fund_code, fund_name, holding_amount,
			 estimated_change_pct, profit, drawdown_pct, forecast_drawdown_pct, error)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			row.RequestID, ts, row.FundCode, row.FundName, row.HoldingAmount,
			row.EstimatedChangePct, row.Profit, row.DrawdownPct,
			row.ForecastDrawdownPct, row.Error,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", row.FundCode, err)
		}
	}

	return tx.Commit()
}

// Prune deletes rows older than the cutoff from both tables.
func (r *SQLiteRecorder) Prune(olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := olderThan.Unix()
	res, err := r.db.Exec(`DELETE FROM analysis_results WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	deleted, _ := res.RowsAffected()

	res, err = r.db.Exec(`DELETE FROM analysis_requests WHERE timestamp < ?`, cutoff)
	if err != nil {
		return deleted, fmt.Errorf("prune requests: %w", err)
	}
	n, _ := res.RowsAffected()
	return deleted + n, nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
