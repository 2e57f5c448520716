package cashflow

import (
	"sort"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// Flow is a dated cash movement. Amounts are positive in both directions;
// the slice a flow is passed in decides its sign.
type Flow struct {
	Date   calendar.Date
	Amount decimal.Decimal
}

// Projection is the outcome of running known flows against a balance.
type Projection struct {
	MinBalance decimal.Decimal
	// NegativeOn is the first date the running balance drops below zero, or
	// the zero date when it never does.
	NegativeOn calendar.Date
}

// GoesNegative reports whether the balance ever drops below zero.
func (p Projection) GoesNegative() bool {
	return !p.NegativeOn.IsZero()
}

// MaxSafe is the largest payment that can leave today without any later
// flow overdrawing the account.
func (p Projection) MaxSafe() decimal.Decimal {
	return money.Max(decimal.Zero, money.Cents(p.MinBalance))
}

type signed struct {
	date   calendar.Date
	amount decimal.Decimal
	inflow bool
}

// Project walks the flows in date order from balance, applying same-day
// incomes before outflows. Every amount and the running balance are kept in
// cents.
func Project(balance decimal.Decimal, outflows, incomes []Flow) Projection {
	all := make([]signed, 0, len(outflows)+len(incomes))
	for _, f := range incomes {
		all = append(all, signed{date: f.Date, amount: money.Cents(f.Amount), inflow: true})
	}
	for _, f := range outflows {
		all = append(all, signed{date: f.Date, amount: money.Cents(f.Amount).Neg()})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if c := all[i].date.Compare(all[j].date); c != 0 {
			return c < 0
		}
		return all[i].inflow && !all[j].inflow
	})

	running := money.Cents(balance)
	p := Projection{MinBalance: running}
	for _, f := range all {
		running = money.Cents(running.Add(f.amount))
		if running.LessThan(p.MinBalance) {
			p.MinBalance = running
		}
		if p.NegativeOn.IsZero() && running.IsNegative() {
			p.NegativeOn = f.date
		}
	}
	return p
}

// MaxSafePayment is shorthand for Project(...).MaxSafe().
func MaxSafePayment(balance decimal.Decimal, outflows, incomes []Flow) decimal.Decimal {
	return Project(balance, outflows, incomes).MaxSafe()
}
