package recorder

import (
	"io"
	"path/filepath"
	"testing"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	day := calendar.MustParse("2025-01-01")
	run := &Run{
		Trigger:         "cli",
		Start:           day,
		Days:            30,
		StartingBalance: money.MustParse("100.10"),
		Schedule: []model.ScheduleEntry{
			{Date: day, Kind: model.KindIncome, Description: "Job", Amount: money.MustParse("50"), Balance: money.MustParse("150.10")},
			{Date: day, Kind: model.KindExtra, Description: "Extra payment to Card", Amount: money.MustParse("-150.10"), Balance: money.Zero, DebtDelta: money.MustParse("-150.10")},
		},
		Debts: []model.DebtResult{
			{Name: "Card", Balance: money.MustParse("49.90"), NextDueDate: day.AddDays(40)},
			{Name: "Loan", PaidOffDate: day},
		},
	}
	id, err := r.RecordRun(run)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id == "" {
		t.Fatal("expected a run id")
	}

	var entries, debts int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM schedule_entries WHERE run_id = ?`, id).Scan(&entries); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM debt_results WHERE run_id = ?`, id).Scan(&debts); err != nil {
		t.Fatal(err)
	}
	if entries != 2 || debts != 2 {
		t.Errorf("expected 2 entries and 2 debts, got %d and %d", entries, debts)
	}

	var ending, amount string
	if err := r.db.QueryRow(`SELECT ending_balance FROM simulation_runs WHERE id = ?`, id).Scan(&ending); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow(`SELECT amount FROM schedule_entries WHERE run_id = ? AND seq = 1`, id).Scan(&amount); err != nil {
		t.Fatal(err)
	}
	if ending != "0" || amount != "-150.1" {
		t.Errorf("amounts should round-trip as decimal text, got %q and %q", ending, amount)
	}

	second, err := r.RecordRun(&Run{Trigger: "daily", Start: day, Err: "insufficient funds", NegativeOn: day.AddDays(3)})
	if err != nil || second == id {
		t.Errorf("expected a distinct second run, got %q (%v)", second, err)
	}
}

func TestSQLiteRecorder_RecordBalance(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if err := r.RecordBalance(&BalanceEvent{Source: "command", Before: money.MustParse("10"), After: money.MustParse("25.50")}); err != nil {
		t.Fatal(err)
	}
	var after string
	if err := r.db.QueryRow(`SELECT balance_after FROM balance_history`).Scan(&after); err != nil {
		t.Fatal(err)
	}
	if after != "25.5" {
		t.Errorf("expected 25.5, got %q", after)
	}
}
