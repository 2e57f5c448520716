package model

import (
	"AvalancheForecaster/internal/calendar"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one line of the simulated ledger. Amount is the signed
// cash effect; DebtDelta is the change to the target debt's principal for
// entries that move debt without moving cash.
type ScheduleEntry struct {
	Date        calendar.Date   `json:"date"`
	Kind        Kind            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	DebtDelta   decimal.Decimal `json:"debt_delta"`
}

// DebtResult summarises a debt at the end of the horizon.
type DebtResult struct {
	Name             string          `json:"name"`
	Balance          decimal.Decimal `json:"balance"`
	NextDueDate      calendar.Date   `json:"next_due_date"`
	PaidOffDate      calendar.Date   `json:"paid_off_date"`
	InterestCharged  decimal.Decimal `json:"interest_charges"`
	UnbilledInterest decimal.Decimal `json:"unbilled_interest"`
}

// DebtSnapshot is one debt's state at the close of a simulated day.
type DebtSnapshot struct {
	Name            string          `json:"name"`
	Balance         decimal.Decimal `json:"balance"`
	Principal       decimal.Decimal `json:"principal"`
	BilledInterest  decimal.Decimal `json:"billed_interest"`
	Pending         decimal.Decimal `json:"pending"`
	Unbilled        decimal.Decimal `json:"unbilled"`
	InterestCharged decimal.Decimal `json:"interest_charges"`
}

// Snapshot captures cash and debts at the close of a simulated day.
type Snapshot struct {
	Date  calendar.Date   `json:"date"`
	Cash  decimal.Decimal `json:"cash"`
	Debts []DebtSnapshot  `json:"debts"`
}
