package strategy

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// MinimumFormula computes the required payment for a debt as of a date.
type MinimumFormula interface {
	Name() string
	Compute(d *model.Debt, asOf calendar.Date) decimal.Decimal
}

// Fixed keeps the minimum payment stored with the debt, capped at the
// balance.
type Fixed struct {
	Amount decimal.Decimal
}

func (Fixed) Name() string { return "fixed" }

func (f Fixed) Compute(d *model.Debt, _ calendar.Date) decimal.Decimal {
	return bound(f.Amount, d.Balance())
}

// GenericCard is 1% of the balance projected to the next due date plus one
// month of interest.
type GenericCard struct{}

func (GenericCard) Name() string { return TagCreditCard }

func (GenericCard) Compute(d *model.Debt, asOf calendar.Date) decimal.Decimal {
	balance := d.Balance()
	projected := balance
	if next, ok := d.NextDue(asOf.AddDays(1)); ok && d.APR.IsPositive() {
		days := decimal.NewFromInt(int64(asOf.DaysUntil(next)))
		projected = projected.Add(balance.Mul(money.PerDiem(d.APR)).Mul(days))
	}
	onePercent := decimal.New(1, -2)
	payment := projected.Mul(money.MonthlyRate(d.APR).Add(onePercent))
	return bound(money.Cents(payment), balance)
}

// StatementCard follows published statement-card rules: 1% of the regular
// statement balance net of unpaid daily cash, plus that daily cash, rounded
// up to whole units with a floor, then billed interest, installments and past
// due amounts on top.
type StatementCard struct {
	Floor decimal.Decimal
}

func (StatementCard) Name() string { return TagAppleCard }

func (s StatementCard) Compute(d *model.Debt, _ calendar.Date) decimal.Decimal {
	balance := d.Balance()
	terms := d.Terms

	regular := balance.Sub(terms.FinancingBalance)
	if terms.StatementBalance.Valid {
		regular = terms.StatementBalance.Decimal
	}
	base := money.Percent(regular.Sub(terms.UnpaidDailyCash), 1).Add(terms.UnpaidDailyCash)
	base = money.Max(s.Floor, money.CeilUnits(base))

	payment := base.
		Add(d.BilledInterest).
		Add(terms.InstallmentDue).
		Add(terms.PastDue)
	return bound(payment, balance)
}

// bound keeps a payment between zero and the outstanding balance.
func bound(payment, balance decimal.Decimal) decimal.Decimal {
	return money.Max(decimal.Zero, money.Min(payment, balance))
}
