package recorder

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"

	"github.com/shopspring/decimal"
)

// Run is one completed or failed forecast.
type Run struct {
	Trigger         string // "cli", "daily", "command", "monthly"
	Start           calendar.Date
	Days            int
	StartingBalance decimal.Decimal
	Debug           bool
	// NegativeOn is the shortfall date, from the error or from a debug run.
	NegativeOn calendar.Date
	Err        string
	Schedule   []model.ScheduleEntry
	Debts      []model.DebtResult
}

// BalanceEvent records a change to the stored account balance.
type BalanceEvent struct {
	Source string // "command", "cli"
	Before decimal.Decimal
	After  decimal.Decimal
}

// Recorder persists forecast history for later analysis.
type Recorder interface {
	// RecordRun stores a run and returns its identifier.
	RecordRun(run *Run) (string, error)
	RecordBalance(evt *BalanceEvent) error
	Close() error
}
