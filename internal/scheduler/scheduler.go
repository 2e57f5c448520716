package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"
	"AvalancheForecaster/internal/notifier"
	"AvalancheForecaster/internal/recorder"
	"AvalancheForecaster/internal/simulator"
	"AvalancheForecaster/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sender delivers a report to the user.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic forecasts and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Store     *store.Store
	Simulator *simulator.Simulator
	Notifier  Sender
	Recorder  recorder.Recorder
	Log       logrus.FieldLogger
	Days      int
	// Today is the forecast start date. Defaults to calendar.Today.
	Today func() calendar.Date
	Ctx   context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, st *store.Store, sim *simulator.Simulator, tn Sender, rec recorder.Recorder, log logrus.FieldLogger, days int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Store:     st,
		Simulator: sim,
		Notifier:  tn,
		Recorder:  rec,
		Log:       log,
		Days:      days,
		Today:     calendar.Today,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily forecast and the monthly payoff outlook.
func (s *Scheduler) RegisterAll(dailyCron, monthlyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyTask); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunDailyNow executes the daily task immediately.
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// Forecast simulates the stored records from today and records the run.
func (s *Scheduler) Forecast(trigger string) (*simulator.Result, calendar.Date, error) {
	data := s.Store.Data()
	start := s.Today()
	in := simulator.Input{
		Start:           start,
		StartingBalance: data.Balance,
		Incomes:         data.Paychecks,
		Bills:           data.Bills,
		Debts:           data.Debts,
		Goals:           data.EnabledGoals(),
		Days:            s.Days,
	}
	res, err := s.Simulator.Simulate(in)

	run := &recorder.Run{
		Trigger:         trigger,
		Start:           start,
		Days:            s.Days,
		StartingBalance: data.Balance,
	}
	var shortfall *simulator.ShortfallError
	switch {
	case errors.As(err, &shortfall):
		run.NegativeOn = shortfall.Date
		run.Err = err.Error()
	case err != nil:
		run.Err = err.Error()
	default:
		run.Schedule = res.Schedule
		run.Debts = res.Debts
	}
	if id, recErr := s.Recorder.RecordRun(run); recErr != nil {
		s.Log.WithError(recErr).Error("record run")
	} else if id != "" {
		s.Log.WithFields(logrus.Fields{"run": id, "trigger": trigger}).Debug("run recorded")
	}
	return res, start, err
}

// forecastReply runs a forecast and renders it with format, or explains why
// it failed.
func (s *Scheduler) forecastReply(trigger string, format func(*simulator.Result, calendar.Date, int) string) string {
	res, start, err := s.Forecast(trigger)
	var shortfall *simulator.ShortfallError
	switch {
	case errors.As(err, &shortfall):
		s.Log.WithError(err).Warn("forecast shortfall")
		return notifier.FormatShortfall(shortfall)
	case err != nil:
		s.Log.WithError(err).Error("forecast failed")
		return fmt.Sprintf("❌ Forecast failed: %v", err)
	}
	return format(res, start, s.Days)
}

func (s *Scheduler) dailyTask() {
	s.Log.Info("running daily forecast")
	s.trySend(s.forecastReply("daily", notifier.FormatForecastSummary))
}

func (s *Scheduler) monthlyTask() {
	s.Log.Info("running monthly payoff outlook")
	s.trySend(s.forecastReply("monthly", notifier.FormatPayoffSummary))
}

const helpText = "Available commands:\n" +
	"• /forecast - cash and debt forecast\n" +
	"• /payoff - payoff outlook\n" +
	"• /debts - stored debts\n" +
	"• /goals - wants and goals\n" +
	"• /balance [amount] - show or set the account balance\n" +
	"• /toggle &lt;n&gt; - switch goal n on or off"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]
	switch fields[0] {
	case "/forecast":
		return s.forecastReply("command", notifier.FormatForecastSummary)
	case "/payoff":
		return s.forecastReply("command", notifier.FormatPayoffSummary)
	case "/debts":
		data := s.Store.Data()
		return notifier.FormatDebts(data.Debts)
	case "/goals":
		data := s.Store.Data()
		return notifier.FormatGoals(data.Goals)
	case "/balance":
		return s.balanceCommand(args)
	case "/toggle":
		return s.toggleCommand(args)
	default:
		return helpText
	}
}

func (s *Scheduler) balanceCommand(args []string) string {
	before := s.Store.Data().Balance
	if len(args) == 0 {
		return fmt.Sprintf("💰 Balance: %s", money.Format(before))
	}
	amount, err := money.Parse(strings.Join(args, ""))
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	amount = money.Cents(amount)
	if err := s.Store.SetBalance(amount); err != nil {
		s.Log.WithError(err).Error("set balance")
		return fmt.Sprintf("❌ Could not save balance: %v", err)
	}
	if err := s.Recorder.RecordBalance(&recorder.BalanceEvent{Source: "command", Before: before, After: amount}); err != nil {
		s.Log.WithError(err).Error("record balance")
	}
	return fmt.Sprintf("💰 Balance updated: %s → %s", money.Format(before), money.Format(amount))
}

func (s *Scheduler) toggleCommand(args []string) string {
	if len(args) != 1 {
		return "Usage: /toggle &lt;n&gt;"
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("❌ Not a goal number: %s", args[0])
	}
	goal, err := s.Store.ToggleGoal(n - 1)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("❌ No goal %d", n)
	}
	if err != nil {
		s.Log.WithError(err).Error("toggle goal")
		return fmt.Sprintf("❌ Could not save goal: %v", err)
	}
	state := "on"
	if !goal.IsEnabled() {
		state = "off"
	}
	return fmt.Sprintf("🎯 %s is now %s", goal.Name, state)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.WithError(err).Error("send notification")
	}
}
