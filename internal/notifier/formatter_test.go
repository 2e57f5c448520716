package notifier

import (
	"strings"
	"testing"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"
	"AvalancheForecaster/internal/simulator"
)

func entry(date string, kind model.Kind, desc, amount, balance, delta string) model.ScheduleEntry {
	return model.ScheduleEntry{
		Date:        calendar.MustParse(date),
		Kind:        kind,
		Description: desc,
		Amount:      money.MustParse(amount),
		Balance:     money.MustParse(balance),
		DebtDelta:   money.MustParse(delta),
	}
}

func sampleResult() *simulator.Result {
	return &simulator.Result{
		Schedule: []model.ScheduleEntry{
			entry("2024-01-01", model.KindIncome, "Job", "500", "500", "0"),
			entry("2024-01-01", model.KindBill, "Rent", "-300", "200", "0"),
			entry("2024-01-01", model.KindExtra, "Extra payment to Card", "-150", "50", "-150"),
			entry("2024-01-05", model.KindDebtAdd, "Phone", "0", "50", "40"),
			entry("2024-01-10", model.KindGoal, "Trip", "-80", "-30", "0"),
		},
		Debts: []model.DebtResult{
			{Name: "Card", Balance: money.MustParse("0"), PaidOffDate: calendar.MustParse("2024-01-01"), InterestCharged: money.MustParse("1.25")},
			{Name: "Loan", Balance: money.MustParse("900"), NextDueDate: calendar.MustParse("2024-02-15"), InterestCharged: money.MustParse("0")},
		},
		NegativeOn: calendar.MustParse("2024-01-10"),
		Snapshots: []model.Snapshot{{
			Date:  calendar.MustParse("2024-01-05"),
			Debts: []model.DebtSnapshot{{Name: "Card", Balance: money.MustParse("40"), InterestCharged: money.MustParse("1.25")}},
		}},
	}
}

func TestFormatSchedule(t *testing.T) {
	out := FormatSchedule(sampleResult(), 30)
	lines := strings.Split(out, "\n")

	wantLines := []string{
		"2024-01-01: balance=$50.00",
		"  Income: Job $500.00",
		"  Bills: Rent $300.00",
		"  Extra: Extra payment to Card $150.00",
		"2024-01-05: balance=$50.00 | debts: Card=$40.00 (interest=$1.25)",
		"  Debt additions: Phone $40.00",
		"2024-01-10: balance=$-30.00" + LowBalanceMarker,
		"  Goals: Trip $80.00",
	}
	for i, want := range wantLines {
		if i >= len(lines) || lines[i] != want {
			t.Fatalf("line %d: expected %q, got output:\n%s", i, want, out)
		}
	}
	if !strings.Contains(out, "Remaining debt balances after 30 days:") {
		t.Error("missing debt section")
	}
	if !strings.Contains(out, "Card: $0.00 (paid off 2024-01-01, total interest $1.25)") {
		t.Error("missing paid off line")
	}
	if !strings.Contains(out, "Loan: $900.00 (next due 2024-02-15, total interest $0.00)") {
		t.Error("missing open debt line")
	}
}

func TestFormatForecastSummary(t *testing.T) {
	out := FormatForecastSummary(sampleResult(), calendar.MustParse("2024-01-01"), 30)
	for _, want := range []string{
		"Ending cash: $-30.00",
		"Lowest cash: $-30.00 on 2024-01-10",
		"Extra payments: $150.00",
		"Cash goes negative on 2024-01-10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	empty := FormatForecastSummary(&simulator.Result{}, calendar.MustParse("2024-01-01"), 30)
	if !strings.Contains(empty, "No activity") {
		t.Errorf("unexpected empty summary %q", empty)
	}
}

func TestFormatPayoffSummary(t *testing.T) {
	out := FormatPayoffSummary(sampleResult(), calendar.MustParse("2024-01-01"), 30)
	if !strings.Contains(out, "✅ Card paid off 2024-01-01") || !strings.Contains(out, "⏳ Loan still owes $900.00") {
		t.Errorf("unexpected payoff summary:\n%s", out)
	}
	if !strings.Contains(out, "Interest over the horizon: $1.25") {
		t.Errorf("unexpected interest total:\n%s", out)
	}
}

func TestFormatShortfall(t *testing.T) {
	err := &simulator.ShortfallError{Date: calendar.MustParse("2024-03-01"), Balance: money.MustParse("-12.5"), Projected: true}
	out := FormatShortfall(err)
	if !strings.Contains(out, "is projected to be $-12.50 on 2024-03-01") {
		t.Errorf("unexpected shortfall text %q", out)
	}
}

func TestFormatRecords(t *testing.T) {
	off := false
	goals := FormatGoals([]model.GoalSpec{
		{Name: "Trip", Amount: money.MustParse("300"), TargetDate: calendar.MustParse("2024-06-01")},
		{Name: "TV <big>", Amount: money.MustParse("900"), TargetDate: calendar.MustParse("2024-07-01"), Enabled: &off},
	})
	if !strings.Contains(goals, "1. [on] Trip $300.00 on 2024-06-01") || !strings.Contains(goals, "2. [off] TV &lt;big&gt;") {
		t.Errorf("unexpected goals:\n%s", goals)
	}
	debts := FormatDebts([]model.DebtSpec{{
		Name:           "Card",
		Balance:        money.MustParse("1000"),
		APR:            money.MustParse("24.99"),
		MinimumPayment: money.MustParse("35"),
	}})
	if !strings.Contains(debts, "1. Card balance $1000.00 min $35.00 APR 24.99% due N/A") {
		t.Errorf("unexpected debts:\n%s", debts)
	}
	if FormatDebts(nil) != "No debts recorded." {
		t.Error("unexpected empty debts text")
	}
}
