package events

import (
	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
)

// Sources are the records expanded into events. Debts carry their current
// minimum and due anchor; their slice index is the event's debt reference.
type Sources struct {
	Incomes []model.IncomeSpec
	Bills   []model.BillSpec
	Goals   []model.GoalSpec
	Debts   []*model.Debt
}

// MinimumDescription labels a debt's minimum-payment event.
func MinimumDescription(name string) string {
	return name + " minimum"
}

// Generate expands every record into the occurrences dated within
// [start, end]. Recurrences that began before start resume at their first
// occurrence on or after start; missed occurrences are not caught up.
func Generate(src Sources, start, end calendar.Date) *Queue {
	q := NewQueue()
	if end.Before(start) {
		return q
	}
	inWindow := func(d calendar.Date) bool {
		return !d.Before(start) && !d.After(end)
	}

	for _, inc := range src.Incomes {
		for _, d := range incomeDates(inc, start, end) {
			q.Push(model.Event{Date: d, Kind: model.KindIncome, Amount: inc.Amount, Description: inc.Name, Debt: model.NoDebt})
		}
	}

	byName := make(map[string]int, len(src.Debts))
	for i, d := range src.Debts {
		byName[d.Name] = i
	}
	for _, b := range src.Bills {
		kind, debt := model.KindBill, model.NoDebt
		if b.Debt != "" {
			if idx, ok := byName[b.Debt]; ok {
				kind, debt = model.KindDebtAdd, idx
			}
		}
		_, k := calendar.NextOccurrence(b.FirstDate, start)
		for ; b.TermMonths == 0 || k < b.TermMonths; k++ {
			d := calendar.AddMonths(b.FirstDate, k)
			if d.After(end) {
				break
			}
			q.Push(model.Event{Date: d, Kind: kind, Amount: b.Amount, Description: b.Name, Debt: debt})
		}
	}

	for _, g := range src.Goals {
		if g.IsEnabled() && inWindow(g.TargetDate) {
			q.Push(model.Event{Date: g.TargetDate, Kind: model.KindGoal, Amount: g.Amount, Description: g.Name, Debt: model.NoDebt})
		}
	}

	for i, d := range src.Debts {
		if !d.HasSchedule() || !d.Minimum.IsPositive() {
			continue
		}
		_, k := calendar.NextOccurrence(d.DueAnchor, start)
		for ; ; k++ {
			due := calendar.AddMonths(d.DueAnchor, k)
			if due.After(end) {
				break
			}
			q.Push(model.Event{Date: due, Kind: model.KindMinimum, Amount: d.Minimum, Description: MinimumDescription(d.Name), Debt: i})
		}
	}
	return q
}

func incomeDates(inc model.IncomeSpec, start, end calendar.Date) []calendar.Date {
	var out []calendar.Date
	switch freq := inc.EffectiveFrequency(); freq {
	case model.Weekly, model.Biweekly:
		step := 7
		if freq == model.Biweekly {
			step = 14
		}
		d := inc.FirstDate
		if d.Before(start) {
			behind := d.DaysUntil(start)
			d = d.AddDays((behind + step - 1) / step * step)
		}
		for ; !d.After(end); d = d.AddDays(step) {
			out = append(out, d)
		}
	case model.SemiMonthly:
		first := inc.FirstDate
		k := 0
		if first.Before(start) {
			k = (start.Year()-first.Year())*12 + int(start.Month()) - int(first.Month()) - 1
			if k < 0 {
				k = 0
			}
		}
		for ; ; k++ {
			day1 := calendar.AddMonths(first, k)
			if day1.After(end) {
				break
			}
			second := first.Day() + 15
			if last := calendar.DaysIn(day1.Year(), day1.Month()); second > last {
				second = last
			}
			day2 := calendar.New(day1.Year(), day1.Month(), second)
			for _, d := range []calendar.Date{day1, day2} {
				if d.Before(start) || d.After(end) {
					continue
				}
				if n := len(out); n > 0 && out[n-1].Equal(d) {
					continue
				}
				out = append(out, d)
			}
		}
	default:
		_, k := calendar.NextOccurrence(inc.FirstDate, start)
		for ; ; k++ {
			d := calendar.AddMonths(inc.FirstDate, k)
			if d.After(end) {
				break
			}
			out = append(out, d)
		}
	}
	return out
}
