package notifier

import (
	"fmt"
	"html"
	"strings"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/money"
	"AvalancheForecaster/internal/simulator"

	"github.com/shopspring/decimal"
)

// LowBalanceMarker flags the first day cash goes negative in debug reports.
const LowBalanceMarker = " <<< LOW BALANCE"

var kindLabels = []struct {
	kind  model.Kind
	label string
}{
	{model.KindIncome, "Income"},
	{model.KindBill, "Bills"},
	{model.KindGoal, "Goals"},
	{model.KindMinimum, "Debt minimums"},
	{model.KindExtra, "Extra"},
	{model.KindDebtAdd, "Debt additions"},
}

type dayGroup struct {
	date    calendar.Date
	balance decimal.Decimal
	byKind  map[model.Kind][]model.ScheduleEntry
}

func groupByDay(schedule []model.ScheduleEntry) []*dayGroup {
	var days []*dayGroup
	for _, e := range schedule {
		n := len(days)
		if n == 0 || !days[n-1].date.Equal(e.Date) {
			days = append(days, &dayGroup{date: e.Date, byKind: map[model.Kind][]model.ScheduleEntry{}})
			n++
		}
		g := days[n-1]
		g.balance = e.Balance
		g.byKind[e.Kind] = append(g.byKind[e.Kind], e)
	}
	return days
}

// entryAmount is what a ledger line shows: the cash moved, or for entries
// that only move debt, the debt change.
func entryAmount(e model.ScheduleEntry) decimal.Decimal {
	if e.Amount.IsZero() && !e.DebtDelta.IsZero() {
		return e.DebtDelta.Abs()
	}
	return e.Amount.Abs()
}

// FormatSchedule renders the full day-by-day ledger followed by the debt
// results, as printed by the command line.
func FormatSchedule(res *simulator.Result, days int) string {
	var b strings.Builder

	snaps := make(map[string]model.Snapshot, len(res.Snapshots))
	for _, s := range res.Snapshots {
		snaps[s.Date.String()] = s
	}

	for _, g := range groupByDay(res.Schedule) {
		marker := ""
		if !res.NegativeOn.IsZero() && g.date.Equal(res.NegativeOn) {
			marker = LowBalanceMarker
		}
		b.WriteString(fmt.Sprintf("%s: balance=%s%s", g.date, money.Format(g.balance), marker))
		if s, ok := snaps[g.date.String()]; ok && len(s.Debts) > 0 {
			parts := make([]string, 0, len(s.Debts))
			for _, d := range s.Debts {
				parts = append(parts, fmt.Sprintf("%s=%s (interest=%s)", d.Name, money.Format(d.Balance), money.Format(d.InterestCharged)))
			}
			b.WriteString(" | debts: " + strings.Join(parts, ", "))
		}
		b.WriteString("\n")

		for _, kl := range kindLabels {
			entries := g.byKind[kl.kind]
			if len(entries) == 0 {
				continue
			}
			items := make([]string, 0, len(entries))
			for _, e := range entries {
				items = append(items, fmt.Sprintf("%s %s", e.Description, money.Format(entryAmount(e))))
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", kl.label, strings.Join(items, ", ")))
		}
	}

	b.WriteString(fmt.Sprintf("\nRemaining debt balances after %d days:\n", days))
	for _, d := range res.Debts {
		b.WriteString("  " + debtLine(d) + "\n")
	}
	return b.String()
}

func debtLine(d model.DebtResult) string {
	interest := money.Format(d.InterestCharged)
	if !d.PaidOffDate.IsZero() {
		return fmt.Sprintf("%s: %s (paid off %s, total interest %s)", d.Name, money.Format(d.Balance), d.PaidOffDate, interest)
	}
	due := "N/A"
	if !d.NextDueDate.IsZero() {
		due = d.NextDueDate.String()
	}
	return fmt.Sprintf("%s: %s (next due %s, total interest %s)", d.Name, money.Format(d.Balance), due, interest)
}

// FormatForecastSummary is the compact forecast sent to chat.
func FormatForecastSummary(res *simulator.Result, start calendar.Date, days int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Forecast</b> | %s + %d days\n\n", start, days))

	if n := len(res.Schedule); n > 0 {
		low := res.Schedule[0]
		extra := decimal.Zero
		for _, e := range res.Schedule {
			if e.Balance.LessThan(low.Balance) {
				low = e
			}
			if e.Kind == model.KindExtra {
				extra = extra.Add(e.Amount.Abs())
			}
		}
		b.WriteString(fmt.Sprintf("Ending cash: %s\n", money.Format(res.Schedule[n-1].Balance)))
		b.WriteString(fmt.Sprintf("Lowest cash: %s on %s\n", money.Format(low.Balance), low.Date))
		b.WriteString(fmt.Sprintf("Extra payments: %s\n", money.Format(extra)))
	} else {
		b.WriteString("No activity in the horizon.\n")
	}
	if !res.NegativeOn.IsZero() {
		b.WriteString(fmt.Sprintf("⚠️ Cash goes negative on %s\n", res.NegativeOn))
	}

	if len(res.Debts) > 0 {
		b.WriteString("\n💳 <b>Debts:</b>\n")
		for _, d := range res.Debts {
			b.WriteString("  " + html.EscapeString(debtLine(d)) + "\n")
		}
	}
	return b.String()
}

// FormatShortfall explains a failed forecast.
func FormatShortfall(err *simulator.ShortfallError) string {
	when := "is"
	if err.Projected {
		when = "is projected to be"
	}
	return fmt.Sprintf("🚨 <b>Insufficient funds</b>\n\nCash %s %s on %s.\nRun /forecast after adjusting the balance or bills.",
		when, money.Format(err.Balance), err.Date)
}

// FormatPayoffSummary lists when each debt is paid off and the interest it
// cost within the horizon.
func FormatPayoffSummary(res *simulator.Result, start calendar.Date, days int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Payoff outlook</b> | %s + %d days\n\n", start, days))
	total := decimal.Zero
	for _, d := range res.Debts {
		total = total.Add(d.InterestCharged)
		name := html.EscapeString(d.Name)
		if !d.PaidOffDate.IsZero() && d.Balance.IsZero() {
			b.WriteString(fmt.Sprintf("✅ %s paid off %s\n", name, d.PaidOffDate))
			continue
		}
		b.WriteString(fmt.Sprintf("⏳ %s still owes %s\n", name, money.Format(d.Balance)))
	}
	b.WriteString(fmt.Sprintf("\nInterest over the horizon: %s", money.Format(total)))
	return b.String()
}

// FormatDebts lists the stored debts.
func FormatDebts(debts []model.DebtSpec) string {
	if len(debts) == 0 {
		return "No debts recorded."
	}
	var b strings.Builder
	b.WriteString("💳 <b>Debts</b>\n\n")
	for i, d := range debts {
		due := "N/A"
		if !d.DueDate.IsZero() {
			due = d.DueDate.String()
		}
		b.WriteString(fmt.Sprintf("%d. %s balance %s min %s APR %s%% due %s\n",
			i+1, html.EscapeString(d.Name), money.Format(d.Balance), money.Format(d.MinimumPayment), d.APR.String(), due))
	}
	return b.String()
}

// FormatGoals lists the stored wants and goals with their state.
func FormatGoals(goals []model.GoalSpec) string {
	if len(goals) == 0 {
		return "No wants and goals recorded."
	}
	var b strings.Builder
	b.WriteString("🎯 <b>Wants and goals</b>\n\n")
	for i, g := range goals {
		state := "on"
		if !g.IsEnabled() {
			state = "off"
		}
		b.WriteString(fmt.Sprintf("%d. [%s] %s %s on %s\n", i+1, state, html.EscapeString(g.Name), money.Format(g.Amount), g.TargetDate))
	}
	return b.String()
}
