package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"AvalancheForecaster/internal/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast history to a SQLite database. Amounts
// are stored as decimal text so nothing is lost to floating point.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log logrus.FieldLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log logrus.FieldLogger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			run_trigger      TEXT,
			start_date       TEXT NOT NULL,
			days             INTEGER NOT NULL,
			starting_balance TEXT NOT NULL,
			debug            INTEGER NOT NULL,
			negative_on      TEXT,
			error            TEXT,
			ending_balance   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON simulation_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS schedule_entries (
			run_id      TEXT NOT NULL REFERENCES simulation_runs(id),
			seq         INTEGER NOT NULL,
			date        TEXT NOT NULL,
			kind        TEXT NOT NULL,
			description TEXT,
			amount      TEXT NOT NULL,
			balance     TEXT NOT NULL,
			debt_delta  TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,

		`CREATE TABLE IF NOT EXISTS debt_results (
			run_id            TEXT NOT NULL REFERENCES simulation_runs(id),
			name              TEXT NOT NULL,
			balance           TEXT NOT NULL,
			next_due_date     TEXT,
			paid_off_date     TEXT,
			interest_charges  TEXT NOT NULL,
			unbilled_interest TEXT NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS balance_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			source         TEXT,
			balance_before TEXT NOT NULL,
			balance_after  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_balance_ts ON balance_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullDate(d calendar.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// RecordRun writes the run, its ledger and its debt results in one
// transaction.
func (r *SQLiteRecorder) RecordRun(run *Run) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	ending := sql.NullString{}
	if n := len(run.Schedule); n > 0 {
		ending = sql.NullString{String: run.Schedule[n-1].Balance.String(), Valid: true}
	}
	errText := sql.NullString{String: run.Err, Valid: run.Err != ""}

	tx, err := r.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO simulation_runs
		(id, timestamp, run_trigger, start_date, days, starting_balance, debug, negative_on, error, ending_balance)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, time.Now().Unix(), run.Trigger, run.Start.String(), run.Days,
		run.StartingBalance.String(), run.Debug, nullDate(run.NegativeOn), errText, ending,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, e := range run.Schedule {
		if _, err := tx.Exec(`INSERT INTO schedule_entries
			(run_id, seq, date, kind, description, amount, balance, debt_delta)
			VALUES (?,?,?,?,?,?,?,?)`,
			id, i, e.Date.String(), string(e.Kind), e.Description,
			e.Amount.String(), e.Balance.String(), e.DebtDelta.String(),
		); err != nil {
			return "", fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	for _, d := range run.Debts {
		if _, err := tx.Exec(`INSERT INTO debt_results
			(run_id, name, balance, next_due_date, paid_off_date, interest_charges, unbilled_interest)
			VALUES (?,?,?,?,?,?,?)`,
			id, d.Name, d.Balance.String(), nullDate(d.NextDueDate), nullDate(d.PaidOffDate),
			d.InterestCharged.String(), d.UnbilledInterest.String(),
		); err != nil {
			return "", fmt.Errorf("insert debt %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRecorder) RecordBalance(evt *BalanceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO balance_history
		(timestamp, source, balance_before, balance_after)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Source, evt.Before.String(), evt.After.String(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
