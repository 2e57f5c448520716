package model

import (
	"AvalancheForecaster/internal/calendar"

	"github.com/shopspring/decimal"
)

// Kind classifies events and schedule entries.
type Kind string

const (
	KindIncome  Kind = "income"
	KindDebtAdd Kind = "debt_add"
	KindBill    Kind = "bill"
	KindGoal    Kind = "goal"
	KindMinimum Kind = "debt_minimum"
	KindExtra   Kind = "extra"
)

// Priority orders events that fall on the same day. Income always comes
// first; charges land before the day's minimum payments see them.
func (k Kind) Priority() int {
	switch k {
	case KindIncome:
		return 0
	case KindDebtAdd:
		return 1
	case KindBill:
		return 2
	case KindGoal:
		return 3
	case KindMinimum:
		return 4
	default:
		return 5
	}
}

// NoDebt marks events that do not target a debt.
const NoDebt = -1

// Event is one dated occurrence. Only minimum-payment amounts change after
// the event is created.
type Event struct {
	Date        calendar.Date
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	Debt        int
	Seq         int
}
