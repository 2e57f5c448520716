package simulator

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/events"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// run is the mutable state of one Simulate call.
type run struct {
	in        Input
	log       logrus.FieldLogger
	lookahead int
	accounts  []*account
	queue     *events.Queue
	cash      decimal.Decimal
	end       calendar.Date
	genEnd    calendar.Date
	res       *Result
}

func (r *run) day(today calendar.Date) error {
	// Re-read the day on every step: a charge may insert today's minimum.
	for i := 0; ; i++ {
		todays := r.queue.On(today)
		if i >= len(todays) {
			break
		}
		if err := r.apply(today, todays[i]); err != nil {
			return err
		}
	}

	p := r.project(today)
	if p.GoesNegative() && !p.NegativeOn.After(r.end) {
		if !r.in.Debug {
			return &ShortfallError{Date: p.NegativeOn, Balance: p.MinBalance, Projected: true}
		}
		r.noteNegative(p.NegativeOn)
	}
	if safe := p.MaxSafe(); safe.IsPositive() {
		r.payExtra(today, safe)
	}

	for _, a := range r.accounts {
		a.interest.OnDayClose(a.debt, today)
	}
	if today.IsLastOfMonth() {
		r.billInterest(today)
	}
	if r.in.LogDebts {
		r.snapshot(today)
	}
	return nil
}

func (r *run) apply(today calendar.Date, ev *model.Event) error {
	switch ev.Kind {
	case model.KindIncome:
		amount := money.Cents(ev.Amount)
		r.cash = r.cash.Add(amount)
		r.record(today, ev.Kind, ev.Description, amount, decimal.Zero)

	case model.KindDebtAdd:
		a := r.accounts[ev.Debt]
		amount := money.Cents(ev.Amount)
		r.charge(a, amount, today)
		r.refreshMinimum(ev.Debt, today, today)
		r.record(today, ev.Kind, ev.Description, decimal.Zero, amount)

	case model.KindBill, model.KindGoal:
		amount := money.Cents(ev.Amount)
		r.cash = r.cash.Sub(amount)
		r.record(today, ev.Kind, ev.Description, amount.Neg(), decimal.Zero)

	case model.KindMinimum:
		a := r.accounts[ev.Debt]
		payment := money.Cents(money.Min(ev.Amount, a.debt.Balance()))
		if !payment.IsPositive() {
			return nil
		}
		r.pay(a, payment, today)
		r.record(today, ev.Kind, ev.Description, payment.Neg(), payment.Neg())
	}
	return r.checkCash(today)
}

func (r *run) checkCash(today calendar.Date) error {
	if !r.cash.IsNegative() {
		return nil
	}
	if !r.in.Debug {
		return &ShortfallError{Date: today, Balance: r.cash}
	}
	r.noteNegative(today)
	return nil
}

func (r *run) noteNegative(on calendar.Date) {
	if r.res.NegativeOn.IsZero() {
		r.res.NegativeOn = on
		r.log.WithField("date", on.String()).Debug("shortfall recorded")
	}
}

// charge adds to a debt through its interest method. A paid-off debt is
// flagged so its payoff date is stamped again when it next reaches zero.
func (r *run) charge(a *account, amount decimal.Decimal, today calendar.Date) {
	if !a.debt.Active() && !a.debt.PaidOff.IsZero() && amount.IsPositive() {
		a.debt.Reopened = true
	}
	a.interest.OnCharge(a.debt, amount, today)
}

func (r *run) pay(a *account, amount decimal.Decimal, today calendar.Date) {
	a.debt.ApplyPayment(amount)
	r.cash = r.cash.Sub(amount)
	if a.debt.MarkPaidOff(today) {
		r.log.WithFields(logrus.Fields{"debt": a.debt.Name, "date": today.String()}).Debug("debt paid off")
	}
}

// refreshMinimum recomputes a debt's minimum and patches its next due
// occurrence on or after from.
func (r *run) refreshMinimum(idx int, asOf, from calendar.Date) {
	a := r.accounts[idx]
	a.debt.Minimum = a.minimum.Compute(a.debt, asOf)
	due, ok := a.debt.NextDue(from)
	if !ok || due.After(r.genEnd) {
		return
	}
	r.queue.UpsertMinimum(due, idx, a.debt.Minimum, events.MinimumDescription(a.debt.Name))
}

// payExtra sends safe cash to the active debt with the strictly highest APR;
// the first debt in input order wins a tie.
func (r *run) payExtra(today calendar.Date, safe decimal.Decimal) {
	var target *account
	for _, a := range r.accounts {
		if !a.debt.Active() {
			continue
		}
		if target == nil || a.debt.APR.GreaterThan(target.debt.APR) {
			target = a
		}
	}
	if target == nil {
		return
	}
	payment := money.Cents(money.Min(safe, target.debt.Balance()))
	if !payment.IsPositive() {
		return
	}
	r.pay(target, payment, today)
	r.record(today, model.KindExtra, "Extra payment to "+target.debt.Name, payment.Neg(), payment.Neg())
}

func (r *run) billInterest(today calendar.Date) {
	for i, a := range r.accounts {
		wasActive := a.debt.Active()
		billed := a.interest.OnMonthEnd(a.debt, today)
		if !billed.IsPositive() {
			continue
		}
		if !wasActive && !a.debt.PaidOff.IsZero() {
			a.debt.Reopened = true
		}
		a.debt.BillInterest(billed)
		r.refreshMinimum(i, today, today.AddDays(1))
		r.record(today, model.KindDebtAdd, a.debt.Name+" interest", decimal.Zero, billed)
	}
}

func (r *run) record(today calendar.Date, kind model.Kind, description string, amount, debtDelta decimal.Decimal) {
	r.res.Schedule = append(r.res.Schedule, model.ScheduleEntry{
		Date:        today,
		Kind:        kind,
		Description: description,
		Amount:      amount,
		Balance:     r.cash,
		DebtDelta:   debtDelta,
	})
}

func (r *run) snapshot(today calendar.Date) {
	snap := model.Snapshot{Date: today, Cash: r.cash, Debts: make([]model.DebtSnapshot, 0, len(r.accounts))}
	for _, a := range r.accounts {
		d := a.debt
		snap.Debts = append(snap.Debts, model.DebtSnapshot{
			Name:            d.Name,
			Balance:         money.Cents(d.Balance()),
			Principal:       d.Principal,
			BilledInterest:  d.BilledInterest,
			Pending:         d.PendingTotal(),
			Unbilled:        d.Unbilled,
			InterestCharged: d.InterestCharged,
		})
	}
	r.res.Snapshots = append(r.res.Snapshots, snap)
}

func (r *run) finish() {
	after := r.end.AddDays(1)
	for _, a := range r.accounts {
		d := a.debt
		res := model.DebtResult{
			Name:             d.Name,
			Balance:          money.Cents(d.Balance()),
			PaidOffDate:      d.PaidOff,
			InterestCharged:  d.InterestCharged,
			UnbilledInterest: money.Cents(d.Unbilled),
		}
		if d.Active() {
			if due, ok := d.NextDue(after); ok {
				res.NextDueDate = due
			}
		}
		r.res.Debts = append(r.res.Debts, res)
	}
	r.log.WithFields(logrus.Fields{
		"entries": len(r.res.Schedule),
		"cash":    r.cash.String(),
	}).Debug("simulation finished")
}
