package cashflow

import (
	"testing"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"
)

func flow(date, amount string) Flow {
	return Flow{Date: calendar.MustParse(date), Amount: money.MustParse(amount)}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		balance  string
		outflows []Flow
		incomes  []Flow
		wantMin  string
		wantNeg  string
		wantSafe string
	}{
		{
			name:     "covered bills",
			balance:  "1000",
			outflows: []Flow{flow("2025-06-15", "300"), flow("2025-06-20", "200")},
			incomes:  []Flow{flow("2025-06-25", "1000")},
			wantMin:  "500",
			wantSafe: "500",
		},
		{
			name:     "income lands before same-day bill",
			balance:  "0",
			outflows: []Flow{flow("2025-06-10", "100")},
			incomes:  []Flow{flow("2025-06-10", "100")},
			wantMin:  "0",
			wantSafe: "0",
		},
		{
			name:     "shortfall",
			balance:  "50",
			outflows: []Flow{flow("2025-06-11", "100"), flow("2025-06-12", "10")},
			wantMin:  "-60",
			wantNeg:  "2025-06-11",
			wantSafe: "0",
		},
		{
			name:     "amounts rounded to cents",
			balance:  "10.004",
			outflows: []Flow{flow("2025-06-11", "0.005")},
			wantMin:  "9.99",
			wantSafe: "9.99",
		},
		{
			name:     "nothing ahead",
			balance:  "42.50",
			wantMin:  "42.50",
			wantSafe: "42.50",
		},
	}
	for _, tt := range tests {
		p := Project(money.MustParse(tt.balance), tt.outflows, tt.incomes)
		if !p.MinBalance.Equal(money.MustParse(tt.wantMin)) {
			t.Errorf("%s: expected min %s, got %s", tt.name, tt.wantMin, p.MinBalance)
		}
		if tt.wantNeg == "" && p.GoesNegative() {
			t.Errorf("%s: unexpected negative date %s", tt.name, p.NegativeOn)
		}
		if tt.wantNeg != "" && !p.NegativeOn.Equal(calendar.MustParse(tt.wantNeg)) {
			t.Errorf("%s: expected negative on %s, got %s", tt.name, tt.wantNeg, p.NegativeOn)
		}
		if got := MaxSafePayment(money.MustParse(tt.balance), tt.outflows, tt.incomes); !got.Equal(money.MustParse(tt.wantSafe)) {
			t.Errorf("%s: expected safe %s, got %s", tt.name, tt.wantSafe, got)
		}
	}
}
