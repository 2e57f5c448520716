package model

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// Charge is a purchase still inside its grace period.
type Charge struct {
	Date   calendar.Date
	Amount decimal.Decimal
}

// Debt is the mutable state of one debt during a simulation run.
// Its balance is the sum of billed interest, principal and pending charges.
type Debt struct {
	Name string
	APR  decimal.Decimal

	// DueAnchor is the first due date; later due dates recur monthly from it.
	DueAnchor calendar.Date
	// StatementDate is the grace-period boundary, advanced monthly by the
	// grace interest method.
	StatementDate calendar.Date

	BilledInterest decimal.Decimal
	Principal      decimal.Decimal
	Pending        []Charge

	Unbilled        decimal.Decimal // accrued since the last statement
	AccruedInterest decimal.Decimal // every accrual, billed or not
	InterestCharged decimal.Decimal // every billed amount

	Minimum decimal.Decimal
	Terms   CardTerms

	PaidOff  calendar.Date
	Reopened bool
}

// NewDebt builds runtime state from a spec. Billed interest declared on a
// card statement is carved out of the opening balance.
func NewDebt(spec DebtSpec) *Debt {
	billed := money.Max(decimal.Zero, money.Min(spec.InterestBilled, spec.Balance))
	return &Debt{
		Name:           spec.Name,
		APR:            spec.APR,
		DueAnchor:      spec.DueDate,
		StatementDate:  spec.DueDate,
		BilledInterest: billed,
		Principal:      spec.Balance.Sub(billed),
		Minimum:        spec.MinimumPayment,
		Terms:          spec.CardTerms,
	}
}

// Balance is everything owed, billed or not yet interest-bearing.
func (d *Debt) Balance() decimal.Decimal {
	return d.BilledInterest.Add(d.Principal).Add(d.PendingTotal())
}

// PendingTotal sums charges still in their grace period.
func (d *Debt) PendingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range d.Pending {
		total = total.Add(c.Amount)
	}
	return total
}

// Active reports whether anything is owed.
func (d *Debt) Active() bool {
	return d.Balance().IsPositive()
}

// HasSchedule reports whether the debt has due dates.
func (d *Debt) HasSchedule() bool {
	return !d.DueAnchor.IsZero()
}

// NextDue returns the first due date on or after from.
func (d *Debt) NextDue(from calendar.Date) (calendar.Date, bool) {
	if !d.HasSchedule() {
		return calendar.Date{}, false
	}
	occ, _ := calendar.NextOccurrence(d.DueAnchor, from)
	return occ, true
}

// BillInterest moves a statement's interest into the balance.
func (d *Debt) BillInterest(amount decimal.Decimal) {
	d.BilledInterest = d.BilledInterest.Add(amount)
	d.InterestCharged = d.InterestCharged.Add(amount)
}

// ApplyPayment pays billed interest first, then principal, then the oldest
// pending charges. Anything beyond the balance is dropped.
func (d *Debt) ApplyPayment(amount decimal.Decimal) {
	remaining := amount
	take := func(part *decimal.Decimal) {
		if !remaining.IsPositive() || !part.IsPositive() {
			return
		}
		paid := money.Min(remaining, *part)
		*part = part.Sub(paid)
		remaining = remaining.Sub(paid)
	}
	take(&d.BilledInterest)
	take(&d.Principal)
	for i := range d.Pending {
		take(&d.Pending[i].Amount)
	}
	kept := d.Pending[:0]
	for _, c := range d.Pending {
		if c.Amount.IsPositive() {
			kept = append(kept, c)
		}
	}
	d.Pending = kept
}

// MarkPaidOff stamps the payoff date when the balance reaches zero. A debt
// reopened by a new charge keeps its old stamp until it is paid off again.
func (d *Debt) MarkPaidOff(on calendar.Date) bool {
	if d.Active() {
		return false
	}
	if d.PaidOff.IsZero() || d.Reopened {
		d.PaidOff = on
		d.Reopened = false
		return true
	}
	return false
}

// Clone returns an independent copy for forward projections.
func (d *Debt) Clone() *Debt {
	c := *d
	c.Pending = append([]Charge(nil), d.Pending...)
	return &c
}
