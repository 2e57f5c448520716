package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/config"
	"AvalancheForecaster/internal/money"
	"AvalancheForecaster/internal/notifier"
	"AvalancheForecaster/internal/recorder"
	"AvalancheForecaster/internal/scheduler"
	"AvalancheForecaster/internal/simulator"
	"AvalancheForecaster/internal/store"

	"github.com/sirupsen/logrus"
)

// debugTail is how far past a shortfall the debug re-run continues.
const debugTail = 30

func main() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	var (
		cfgPath  = flag.String("config", defaultConfig, "path to the YAML config")
		balance  = flag.String("balance", "", "current account balance; saved to the records file")
		days     = flag.Int("days", -1, "forecast horizon in days (default from config)")
		start    = flag.String("start", "", "first simulated day, YYYY-MM-DD (default today)")
		debug    = flag.Bool("debug", false, "keep simulating through shortfalls")
		logDebts = flag.Bool("log-debts", false, "print debt balances on every day")
		serve    = flag.Bool("serve", false, "run the scheduled Telegram bot")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *days >= 0 {
		cfg.Forecast.HorizonDays = *days
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}
	log := cfg.NewLogger()

	st, err := store.Open(cfg.Forecast.DataFile)
	if err != nil {
		log.Fatalf("open records: %v", err)
	}

	rec := openRecorder(cfg, log)
	defer rec.Close()

	sim := simulator.New(
		simulator.WithLogger(log),
		simulator.WithLookahead(cfg.Forecast.LookaheadDays),
	)

	if *serve {
		if err := runBot(cfg, st, sim, rec, log); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *balance != "" {
		if err := setBalance(st, rec, *balance); err != nil {
			log.Fatalf("set balance: %v", err)
		}
	}
	first := calendar.Today()
	if *start != "" {
		if first, err = calendar.Parse(*start); err != nil {
			log.Fatalf("parse -start: %v", err)
		}
	}
	in, err := forecastInput(cfg, st, first)
	if err != nil {
		log.Fatal(err)
	}
	in.Debug = *debug
	in.LogDebts = *logDebts
	code := forecast(sim, rec, in, log)
	rec.Close()
	os.Exit(code)
}

func openRecorder(cfg *config.Config, log logrus.FieldLogger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func setBalance(st *store.Store, rec recorder.Recorder, raw string) error {
	amount, err := money.Parse(raw)
	if err != nil {
		return err
	}
	amount = money.Cents(amount)
	before := st.Data().Balance
	if err := st.SetBalance(amount); err != nil {
		return err
	}
	return rec.RecordBalance(&recorder.BalanceEvent{Source: "cli", Before: before, After: amount})
}

func forecastInput(cfg *config.Config, st *store.Store, start calendar.Date) (simulator.Input, error) {
	data := st.Data()
	in := simulator.Input{
		Start:           start,
		StartingBalance: data.Balance,
		Incomes:         data.Paychecks,
		Bills:           data.Bills,
		Debts:           data.Debts,
		Goals:           data.EnabledGoals(),
		Days:            cfg.Forecast.HorizonDays,
	}
	override, err := cfg.StartingBalance()
	if err != nil {
		return in, err
	}
	if override.Valid {
		in.StartingBalance = override.Decimal
	}
	return in, nil
}

// forecast prints the schedule and returns the process exit code. A shortfall
// is reported and the run repeated in debug mode up to shortly after it.
func forecast(sim *simulator.Simulator, rec recorder.Recorder, in simulator.Input, log logrus.FieldLogger) int {
	res, err := sim.Simulate(in)
	record(rec, in, res, err, log)

	var shortfall *simulator.ShortfallError
	switch {
	case errors.As(err, &shortfall):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", shortfall)
		in.Debug = true
		in.Days = in.Start.DaysUntil(shortfall.Date) + debugTail
		res, err = sim.Simulate(in)
		if err != nil {
			log.WithError(err).Error("debug forecast failed")
			return 1
		}
		record(rec, in, res, nil, log)
		fmt.Print(notifier.FormatSchedule(res, in.Days))
		return 1
	case err != nil:
		log.WithError(err).Error("forecast failed")
		return 1
	}
	fmt.Print(notifier.FormatSchedule(res, in.Days))
	return 0
}

func record(rec recorder.Recorder, in simulator.Input, res *simulator.Result, err error, log logrus.FieldLogger) {
	run := &recorder.Run{
		Trigger:         "cli",
		Start:           in.Start,
		Days:            in.Days,
		StartingBalance: in.StartingBalance,
		Debug:           in.Debug,
	}
	var shortfall *simulator.ShortfallError
	if errors.As(err, &shortfall) {
		run.NegativeOn = shortfall.Date
	}
	if err != nil {
		run.Err = err.Error()
	} else {
		run.NegativeOn = res.NegativeOn
		run.Schedule = res.Schedule
		run.Debts = res.Debts
	}
	if _, err := rec.RecordRun(run); err != nil {
		log.WithError(err).Error("record run")
	}
}

func runBot(cfg *config.Config, st *store.Store, sim *simulator.Simulator, rec recorder.Recorder, log *logrus.Logger) error {
	if err := cfg.ValidateDaemon(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	sched := scheduler.NewScheduler(ctx, st, sim, tn, rec, log, cfg.Forecast.HorizonDays)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.MonthlyCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, sending today's forecast")
		go sched.RunDailyNow()
	}

	log.Info("forecaster is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}
