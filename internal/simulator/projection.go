package simulator

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/cashflow"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// pendingMinimum is a recomputed minimum the forward view has not paid yet.
type pendingMinimum struct {
	due    calendar.Date
	amount decimal.Decimal
	set    bool
}

// project runs the events dated in (today, today+lookahead] against copies
// of the debts, so charges, interest billing and recomputed minimums ahead
// are priced the way the real run will price them. Only the cash flows are
// kept; the copies are discarded.
func (r *run) project(today calendar.Date) cashflow.Projection {
	clones := make([]*account, len(r.accounts))
	for i, a := range r.accounts {
		clones[i] = &account{debt: a.debt.Clone(), interest: a.interest, minimum: a.minimum}
	}
	pending := make([]pendingMinimum, len(clones))
	remember := func(idx int, asOf, from calendar.Date) {
		c := clones[idx]
		if due, ok := c.debt.NextDue(from); ok {
			pending[idx] = pendingMinimum{due: due, amount: c.minimum.Compute(c.debt, asOf), set: true}
		}
	}

	var outflows, incomes []cashflow.Flow
	payMinimum := func(idx int, amount decimal.Decimal, on calendar.Date) {
		c := clones[idx]
		payment := money.Cents(money.Min(amount, c.debt.Balance()))
		if !payment.IsPositive() {
			return
		}
		c.debt.ApplyPayment(payment)
		outflows = append(outflows, cashflow.Flow{Date: on, Amount: payment})
	}
	closeDay := func(d calendar.Date) {
		for _, c := range clones {
			c.interest.OnDayClose(c.debt, d)
		}
		if !d.IsLastOfMonth() {
			return
		}
		for i, c := range clones {
			if billed := c.interest.OnMonthEnd(c.debt, d); billed.IsPositive() {
				c.debt.BillInterest(billed)
				remember(i, d, d.AddDays(1))
			}
		}
	}

	closeDay(today)
	horizon := today.AddDays(r.lookahead)
	ahead := r.queue.Between(today.AddDays(1), horizon)
	next := 0
	for d := today.AddDays(1); !d.After(horizon); d = d.AddDays(1) {
		for ; next < len(ahead) && ahead[next].Date.Equal(d); next++ {
			ev := ahead[next]
			switch ev.Kind {
			case model.KindIncome:
				incomes = append(incomes, cashflow.Flow{Date: d, Amount: ev.Amount})
			case model.KindBill, model.KindGoal:
				outflows = append(outflows, cashflow.Flow{Date: d, Amount: ev.Amount})
			case model.KindDebtAdd:
				c := clones[ev.Debt]
				c.interest.OnCharge(c.debt, money.Cents(ev.Amount), d)
				remember(ev.Debt, d, d)
			case model.KindMinimum:
				amount := ev.Amount
				if pm := pending[ev.Debt]; pm.set && pm.due.Equal(d) {
					amount = pm.amount
					pending[ev.Debt] = pendingMinimum{}
				}
				payMinimum(ev.Debt, amount, d)
			}
		}
		// Minimums the real run would insert because none was scheduled.
		for i, pm := range pending {
			if pm.set && pm.due.Equal(d) {
				pending[i] = pendingMinimum{}
				payMinimum(i, pm.amount, d)
			}
		}
		closeDay(d)
	}
	return cashflow.Project(r.cash, outflows, incomes)
}
