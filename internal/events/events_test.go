package events

import (
	"testing"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"
)

func dates(q *Queue, kind model.Kind) []string {
	var out []string
	for _, ev := range q.All() {
		if ev.Kind == kind {
			out = append(out, ev.Date.String())
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGenerate_IncomeFrequencies(t *testing.T) {
	start := calendar.MustParse("2025-01-10")
	tests := []struct {
		name  string
		first string
		freq  model.Frequency
		end   string
		want  []string
	}{
		{"weekly", "2025-01-10", model.Weekly, "2025-02-07", []string{"2025-01-10", "2025-01-17", "2025-01-24", "2025-01-31", "2025-02-07"}},
		{"biweekly resumes after start", "2024-12-20", model.Biweekly, "2025-02-20", []string{"2025-01-17", "2025-01-31", "2025-02-14"}},
		{"monthly clamps", "2024-12-31", "", "2025-03-31", []string{"2025-01-31", "2025-02-28", "2025-03-31"}},
		{"semi-monthly", "2025-01-10", model.SemiMonthly, "2025-03-09", []string{"2025-01-10", "2025-01-25", "2025-02-10", "2025-02-25"}},
		{"semi-monthly late anchor", "2025-01-20", model.SemiMonthly, "2025-02-28", []string{"2025-01-20", "2025-01-31", "2025-02-20", "2025-02-28"}},
		{"semi-monthly collision collapses", "2025-01-31", model.SemiMonthly, "2025-02-28", []string{"2025-01-31", "2025-02-28"}},
	}
	for _, tt := range tests {
		src := Sources{Incomes: []model.IncomeSpec{{
			Name:      "Job",
			Amount:    money.MustParse("100"),
			FirstDate: calendar.MustParse(tt.first),
			Frequency: tt.freq,
		}}}
		q := Generate(src, start, calendar.MustParse(tt.end))
		if got := dates(q, model.KindIncome); !equal(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestGenerate_BillsGoalsAndMinimums(t *testing.T) {
	start := calendar.MustParse("2025-01-01")
	end := calendar.MustParse("2025-04-30")
	off := false
	card := model.NewDebt(model.DebtSpec{
		Name:           "Card",
		Balance:        money.MustParse("500"),
		MinimumPayment: money.MustParse("25"),
		DueDate:        calendar.MustParse("2024-12-15"),
	})
	noDue := model.NewDebt(model.DebtSpec{Name: "Family", Balance: money.MustParse("100")})

	src := Sources{
		Bills: []model.BillSpec{
			{Name: "Rent", Amount: money.MustParse("900"), FirstDate: calendar.MustParse("2025-01-01")},
			{Name: "Phone", Amount: money.MustParse("40"), FirstDate: calendar.MustParse("2024-12-20"), TermMonths: 3},
			{Name: "Gym", Amount: money.MustParse("30"), FirstDate: calendar.MustParse("2025-01-05"), Debt: "Card"},
		},
		Goals: []model.GoalSpec{
			{Name: "Trip", Amount: money.MustParse("300"), TargetDate: calendar.MustParse("2025-03-01")},
			{Name: "TV", Amount: money.MustParse("800"), TargetDate: calendar.MustParse("2025-03-02"), Enabled: &off},
			{Name: "Late", Amount: money.MustParse("10"), TargetDate: calendar.MustParse("2025-06-01")},
		},
		Debts: []*model.Debt{card, noDue},
	}
	q := Generate(src, start, end)

	if got := dates(q, model.KindBill); len(got) != 6 {
		// rent x4 plus phone on 2025-01-20 and 2025-02-20 (term ends after three)
		t.Errorf("expected 6 bills, got %v", got)
	}
	if got, want := dates(q, model.KindDebtAdd), []string{"2025-01-05", "2025-02-05", "2025-03-05", "2025-04-05"}; !equal(got, want) {
		t.Errorf("expected linked bill charges %v, got %v", want, got)
	}
	if got, want := dates(q, model.KindGoal), []string{"2025-03-01"}; !equal(got, want) {
		t.Errorf("expected goals %v, got %v", want, got)
	}
	if got, want := dates(q, model.KindMinimum), []string{"2025-01-15", "2025-02-15", "2025-03-15", "2025-04-15"}; !equal(got, want) {
		t.Errorf("expected minimums %v, got %v", want, got)
	}
	for _, ev := range q.All() {
		if ev.Kind == model.KindDebtAdd && ev.Debt != 0 {
			t.Errorf("linked bill should reference debt 0, got %d", ev.Debt)
		}
	}
}

func TestQueue_SameDayOrdering(t *testing.T) {
	day := calendar.MustParse("2025-01-01")
	q := NewQueue()
	q.Push(model.Event{Date: day, Kind: model.KindMinimum, Description: "min"})
	q.Push(model.Event{Date: day, Kind: model.KindBill, Description: "bill-a"})
	q.Push(model.Event{Date: day.AddDays(-1), Kind: model.KindGoal, Description: "yesterday"})
	q.Push(model.Event{Date: day, Kind: model.KindIncome, Description: "pay"})
	q.Push(model.Event{Date: day, Kind: model.KindDebtAdd, Description: "charge"})
	q.Push(model.Event{Date: day, Kind: model.KindBill, Description: "bill-b"})
	q.Push(model.Event{Date: day, Kind: model.KindGoal, Description: "goal"})

	var got []string
	for _, ev := range q.On(day) {
		got = append(got, ev.Description)
	}
	want := []string{"pay", "charge", "bill-a", "bill-b", "goal", "min"}
	if !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if n := len(q.Between(day.AddDays(-1), day)); n != 7 {
		t.Errorf("expected 7 events in range, got %d", n)
	}
	if q.Between(day, day.AddDays(-1)) != nil {
		t.Error("inverted range should be empty")
	}
}

func TestQueue_UpsertMinimum(t *testing.T) {
	due := calendar.MustParse("2025-02-15")
	q := NewQueue()
	q.Push(model.Event{Date: due, Kind: model.KindMinimum, Amount: money.MustParse("25"), Debt: 0})
	q.Push(model.Event{Date: due, Kind: model.KindMinimum, Amount: money.MustParse("40"), Debt: 1})

	ev := q.UpsertMinimum(due, 1, money.MustParse("55"), "Loan minimum")
	if ev == nil || !ev.Amount.Equal(money.MustParse("55")) || q.Len() != 2 {
		t.Fatalf("expected in-place patch, got %+v (len %d)", ev, q.Len())
	}
	if got := q.FindMinimum(due, 1); got != ev {
		t.Error("patched event should be the stored one")
	}

	other := calendar.MustParse("2025-02-10")
	q.Push(model.Event{Date: other.AddDays(1), Kind: model.KindBill, Debt: model.NoDebt})
	if q.UpsertMinimum(other, 2, money.Zero, "Car minimum") != nil {
		t.Error("a zero minimum must not create an event")
	}
	ins := q.UpsertMinimum(other, 2, money.MustParse("10"), "Car minimum")
	if ins == nil || q.Len() != 4 || q.All()[0] != ins {
		t.Errorf("expected insertion in sorted position, got %+v", q.All())
	}
}
