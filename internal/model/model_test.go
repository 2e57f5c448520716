package model

import (
	"errors"
	"testing"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"
)

func TestApplyPayment_Order(t *testing.T) {
	d := &Debt{
		Name:           "Card",
		BilledInterest: money.MustParse("10"),
		Principal:      money.MustParse("50"),
		Pending: []Charge{
			{Date: calendar.MustParse("2025-01-02"), Amount: money.MustParse("20")},
			{Date: calendar.MustParse("2025-01-05"), Amount: money.MustParse("30")},
		},
	}
	d.ApplyPayment(money.MustParse("75"))

	if !d.BilledInterest.IsZero() {
		t.Errorf("billed interest should be paid first, got %s", d.BilledInterest)
	}
	if !d.Principal.IsZero() {
		t.Errorf("principal should be paid second, got %s", d.Principal)
	}
	if len(d.Pending) != 2 || !d.Pending[0].Amount.Equal(money.MustParse("5")) {
		t.Fatalf("oldest pending charge should be reduced to 5, got %+v", d.Pending)
	}
	if !d.Balance().Equal(money.MustParse("35")) {
		t.Errorf("expected balance 35, got %s", d.Balance())
	}

	d.ApplyPayment(money.MustParse("100"))
	if !d.Balance().IsZero() || len(d.Pending) != 0 {
		t.Errorf("overpayment should clear the debt, got balance %s pending %d", d.Balance(), len(d.Pending))
	}
}

func TestMarkPaidOff_StampsOnceUntilReopened(t *testing.T) {
	first := calendar.MustParse("2025-03-01")
	second := calendar.MustParse("2025-04-01")
	d := &Debt{Name: "Loan"}

	if !d.MarkPaidOff(first) || !d.PaidOff.Equal(first) {
		t.Fatalf("expected stamp on %s, got %s", first, d.PaidOff)
	}
	if d.MarkPaidOff(second) {
		t.Error("a paid-off debt must not be re-stamped")
	}

	d.Principal = money.MustParse("10")
	d.Reopened = true
	if d.MarkPaidOff(second) {
		t.Error("an active debt must not be stamped")
	}
	if !d.PaidOff.Equal(first) {
		t.Errorf("reopened debt keeps its old stamp, got %s", d.PaidOff)
	}

	d.ApplyPayment(money.MustParse("10"))
	if !d.MarkPaidOff(second) || !d.PaidOff.Equal(second) {
		t.Errorf("reopened debt should be re-stamped on %s, got %s", second, d.PaidOff)
	}
}

func TestNewDebt_CarvesBilledInterest(t *testing.T) {
	spec := DebtSpec{Name: "Card", Balance: money.MustParse("1000")}
	spec.InterestBilled = money.MustParse("90")
	d := NewDebt(spec)
	if !d.BilledInterest.Equal(money.MustParse("90")) || !d.Principal.Equal(money.MustParse("910")) {
		t.Errorf("unexpected split: billed %s principal %s", d.BilledInterest, d.Principal)
	}
	if !d.Balance().Equal(money.MustParse("1000")) {
		t.Errorf("balance must be preserved, got %s", d.Balance())
	}
}

func TestClone_IsIndependent(t *testing.T) {
	d := &Debt{Pending: []Charge{{Amount: money.MustParse("5")}}}
	c := d.Clone()
	c.Pending[0].Amount = money.MustParse("1")
	if !d.Pending[0].Amount.Equal(money.MustParse("5")) {
		t.Error("clone shares pending charges with the original")
	}
}

func TestValidateAll(t *testing.T) {
	day := calendar.MustParse("2025-01-01")
	debts := []DebtSpec{{Name: "Card", DueDate: day}}

	tests := []struct {
		name    string
		incomes []IncomeSpec
		bills   []BillSpec
		debts   []DebtSpec
		goals   []GoalSpec
		wantErr bool
	}{
		{"valid", []IncomeSpec{{Name: "Job", FirstDate: day, Frequency: Biweekly}}, nil, debts, nil, false},
		{"bad frequency", []IncomeSpec{{Name: "Job", FirstDate: day, Frequency: "daily"}}, nil, debts, nil, true},
		{"missing name", []IncomeSpec{{FirstDate: day}}, nil, debts, nil, true},
		{"unknown debt link", nil, []BillSpec{{Name: "Phone", FirstDate: day, Debt: "Nope"}}, debts, nil, true},
		{"duplicate debt", nil, nil, append(debts, debts[0]), nil, true},
		{"minimum without due date", nil, nil, []DebtSpec{{Name: "Loan", MinimumPayment: money.MustParse("10")}}, nil, true},
		{"negative apr", nil, nil, []DebtSpec{{Name: "Loan", APR: money.MustParse("-1")}}, nil, true},
		{"goal without date", nil, nil, nil, []GoalSpec{{Name: "Trip"}}, true},
	}
	for _, tt := range tests {
		err := ValidateAll(tt.incomes, tt.bills, tt.debts, tt.goals)
		if tt.wantErr && !errors.Is(err, ErrMalformedSpec) {
			t.Errorf("%s: expected ErrMalformedSpec, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}
