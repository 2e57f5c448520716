package model

import (
	"AvalancheForecaster/internal/calendar"

	"github.com/shopspring/decimal"
)

// Frequency is how often an income repeats.
type Frequency string

const (
	Weekly      Frequency = "weekly"
	Biweekly    Frequency = "biweekly"
	SemiMonthly Frequency = "semi-monthly"
	Monthly     Frequency = "monthly"
)

// IncomeSpec is a recurring paycheck.
type IncomeSpec struct {
	Name      string          `json:"name" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	FirstDate calendar.Date   `json:"date"`
	Frequency Frequency       `json:"frequency,omitempty" validate:"omitempty,oneof=weekly biweekly semi-monthly monthly"`
}

// EffectiveFrequency defaults a blank frequency to monthly.
func (s IncomeSpec) EffectiveFrequency() Frequency {
	if s.Frequency == "" {
		return Monthly
	}
	return s.Frequency
}

// BillSpec is a monthly bill. When Debt names a debt, each occurrence is a
// charge on that debt instead of a cash outflow.
type BillSpec struct {
	Name       string          `json:"name" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	FirstDate  calendar.Date   `json:"date"`
	Debt       string          `json:"debt,omitempty"`
	TermMonths int             `json:"term_months,omitempty" validate:"gte=0"`
}

// GoalSpec is a one-off purchase on a target date.
type GoalSpec struct {
	Name       string          `json:"name" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	TargetDate calendar.Date   `json:"date"`
	Enabled    *bool           `json:"enabled,omitempty"`
}

// IsEnabled treats a missing flag as enabled.
func (g GoalSpec) IsEnabled() bool {
	return g.Enabled == nil || *g.Enabled
}

// CardTerms carries the inputs of statement-based minimum payment formulas.
type CardTerms struct {
	StatementBalance decimal.NullDecimal `json:"statement_balance,omitempty"`
	UnpaidDailyCash  decimal.Decimal     `json:"unpaid_daily_cash,omitempty"`
	InterestBilled   decimal.Decimal     `json:"interest_billed,omitempty"`
	PastDue          decimal.Decimal     `json:"past_due,omitempty"`
	FinancingBalance decimal.Decimal     `json:"financing_balance,omitempty"`
	InstallmentDue   decimal.Decimal     `json:"installment_due,omitempty"`
}

// DebtSpec describes a debt as stored.
type DebtSpec struct {
	Name              string          `json:"name" validate:"required"`
	Balance           decimal.Decimal `json:"balance"`
	APR               decimal.Decimal `json:"apr"`
	MinimumPayment    decimal.Decimal `json:"minimum_payment"`
	DueDate           calendar.Date   `json:"due_date"`
	InterestMethod    string          `json:"interest_method,omitempty"`
	MinPaymentFormula string          `json:"min_payment_formula,omitempty"`
	CardTerms
}
