package strategy

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// InterestMethod decides when charges start bearing interest and how daily
// accrual turns into billed interest.
type InterestMethod interface {
	Name() string
	OnCharge(d *model.Debt, amount decimal.Decimal, on calendar.Date)
	OnDayClose(d *model.Debt, on calendar.Date)
	// OnMonthEnd returns the interest to bill and clears the unbilled buffer.
	OnMonthEnd(d *model.Debt, on calendar.Date) decimal.Decimal
}

// Revolving is a generic credit card: every charge bears interest at once and
// interest accrues daily on principal without compounding until billed.
type Revolving struct{}

func (Revolving) Name() string { return TagCreditCard }

func (Revolving) OnCharge(d *model.Debt, amount decimal.Decimal, _ calendar.Date) {
	d.Principal = d.Principal.Add(amount)
}

func (Revolving) OnDayClose(d *model.Debt, _ calendar.Date) {
	accrue(d, d.Principal, 1)
}

func (Revolving) OnMonthEnd(d *model.Debt, _ calendar.Date) decimal.Decimal {
	if !d.Unbilled.IsPositive() {
		return decimal.Zero
	}
	billed := money.Cents(d.Unbilled)
	d.Unbilled = decimal.Zero
	return billed
}

// GracePeriod holds new purchases interest-free while the card carries no
// interest-bearing balance. When the statement date passes, held purchases
// are charged interest back to their purchase date and start bearing it.
type GracePeriod struct {
	Revolving
}

func (GracePeriod) Name() string { return TagAppleCard }

func (g GracePeriod) OnCharge(d *model.Debt, amount decimal.Decimal, on calendar.Date) {
	if d.Principal.IsZero() {
		d.Pending = append(d.Pending, model.Charge{Date: on, Amount: amount})
		return
	}
	g.Revolving.OnCharge(d, amount, on)
}

func (g GracePeriod) OnDayClose(d *model.Debt, on calendar.Date) {
	g.Revolving.OnDayClose(d, on)
	if d.StatementDate.IsZero() || on.Before(d.StatementDate) {
		return
	}
	for _, c := range d.Pending {
		accrue(d, c.Amount, c.Date.DaysUntil(on)+1)
		d.Principal = d.Principal.Add(c.Amount)
	}
	d.Pending = nil
	for !on.Before(d.StatementDate) {
		d.StatementDate = d.StatementDate.AddMonth()
	}
}

func accrue(d *model.Debt, base decimal.Decimal, days int) {
	if !base.IsPositive() || !d.APR.IsPositive() || days <= 0 {
		return
	}
	interest := base.Mul(money.PerDiem(d.APR)).Mul(decimal.NewFromInt(int64(days)))
	d.Unbilled = d.Unbilled.Add(interest)
	d.AccruedInterest = d.AccruedInterest.Add(interest)
}
