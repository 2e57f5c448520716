package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialData is the persisted record collection the forecaster reads from.
type FinancialData struct {
	Balance   decimal.Decimal `json:"balance"`
	Paychecks []IncomeSpec    `json:"paychecks"`
	Bills     []BillSpec      `json:"bills"`
	Debts     []DebtSpec      `json:"debts"`
	Goals     []GoalSpec      `json:"goals"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EnabledGoals filters out goals that were switched off.
func (f *FinancialData) EnabledGoals() []GoalSpec {
	out := make([]GoalSpec, 0, len(f.Goals))
	for _, g := range f.Goals {
		if g.IsEnabled() {
			out = append(out, g)
		}
	}
	return out
}
