package simulator

import (
	"fmt"
	"io"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/events"
	"AvalancheForecaster/internal/model"
	"AvalancheForecaster/internal/strategy"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultLookahead is how many days past today the safe-payment projection
// looks at.
const DefaultLookahead = 60

// Input is everything one forecast needs. Specs are read, never modified.
type Input struct {
	Start           calendar.Date
	StartingBalance decimal.Decimal
	Incomes         []model.IncomeSpec
	Bills           []model.BillSpec
	Debts           []model.DebtSpec
	Goals           []model.GoalSpec
	Days            int
	// Debug keeps simulating through shortfalls and records the first one.
	Debug bool
	// LogDebts captures a snapshot of every debt at the close of each day.
	LogDebts bool
}

// Result is a completed forecast.
type Result struct {
	Schedule []model.ScheduleEntry
	Debts    []model.DebtResult
	// NegativeOn is the first day cash went, or was projected to go, below
	// zero within the horizon. Only set in debug mode.
	NegativeOn calendar.Date
	Snapshots  []model.Snapshot
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger routes debug output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithLookahead overrides the projection window in days.
func WithLookahead(days int) Option {
	return func(s *Simulator) {
		if days > 0 {
			s.lookahead = days
		}
	}
}

// Simulator runs forecasts. It holds no per-run state and is safe for
// concurrent use.
type Simulator struct {
	log       logrus.FieldLogger
	lookahead int
}

// New returns a Simulator with defaults applied before opts.
func New(opts ...Option) *Simulator {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	s := &Simulator{log: quiet, lookahead: DefaultLookahead}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs a forecast with default options.
func Simulate(in Input) (*Result, error) {
	return New().Simulate(in)
}

// account pairs a debt with its resolved strategies.
type account struct {
	debt     *model.Debt
	interest strategy.InterestMethod
	minimum  strategy.MinimumFormula
}

// Simulate advances the calendar one day at a time from in.Start through
// in.Start+in.Days inclusive.
func (s *Simulator) Simulate(in Input) (*Result, error) {
	if in.Days < 0 {
		return nil, fmt.Errorf("%w: horizon must not be negative, got %d days", model.ErrMalformedSpec, in.Days)
	}
	if in.Start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", model.ErrMalformedSpec)
	}
	if err := model.ValidateAll(in.Incomes, in.Bills, in.Debts, in.Goals); err != nil {
		return nil, err
	}
	accounts, err := openAccounts(in.Debts, in.Start)
	if err != nil {
		return nil, err
	}

	r := &run{
		in:        in,
		log:       s.log,
		lookahead: s.lookahead,
		accounts:  accounts,
		cash:      in.StartingBalance,
		end:       in.Start.AddDays(in.Days),
		res:       &Result{},
	}
	r.genEnd = r.end.AddDays(r.lookahead)

	debts := make([]*model.Debt, len(accounts))
	for i, a := range accounts {
		debts[i] = a.debt
	}
	r.queue = events.Generate(events.Sources{
		Incomes: in.Incomes,
		Bills:   in.Bills,
		Goals:   in.Goals,
		Debts:   debts,
	}, in.Start, r.genEnd)

	r.log.WithFields(logrus.Fields{
		"start":  in.Start.String(),
		"end":    r.end.String(),
		"events": r.queue.Len(),
		"debts":  len(accounts),
	}).Debug("simulation started")

	for today := in.Start; !today.After(r.end); today = today.AddDays(1) {
		if err := r.day(today); err != nil {
			return nil, err
		}
	}
	r.finish()
	return r.res, nil
}

func openAccounts(specs []model.DebtSpec, start calendar.Date) ([]*account, error) {
	accounts := make([]*account, 0, len(specs))
	for _, spec := range specs {
		interest, err := strategy.InterestMethodFor(spec.InterestMethod)
		if err != nil {
			return nil, fmt.Errorf("debt %q: %w", spec.Name, err)
		}
		minimum, err := strategy.MinimumFormulaFor(spec.MinPaymentFormula)
		if err != nil {
			return nil, fmt.Errorf("debt %q: %w", spec.Name, err)
		}
		if _, ok := minimum.(strategy.Fixed); ok {
			minimum = strategy.Fixed{Amount: spec.MinimumPayment}
		}
		d := model.NewDebt(spec)
		if !d.StatementDate.IsZero() {
			d.StatementDate, _ = calendar.NextOccurrence(d.StatementDate, start)
		}
		if spec.MinPaymentFormula != "" {
			d.Minimum = minimum.Compute(d, start)
		}
		accounts = append(accounts, &account{debt: d, interest: interest, minimum: minimum})
	}
	return accounts, nil
}
