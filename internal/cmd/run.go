package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/offlinefirst/squirrel/internal/buildinfo"
	"github.com/offlinefirst/squirrel/pkg/config"
	"github.com/offlinefirst/squirrel/pkg/engine"
	"github.com/offlinefirst/squirrel/pkg/events"
	"github.com/offlinefirst/squirrel/pkg/inject"
	"github.com/offlinefirst/squirrel/pkg/session"
)

func newRunCommand() command {
	return command{
		name:        "run",
		description: "Translate scroll events over simulator windows into drags",
		configure: func(fs *flag.FlagSet) {
			fs.Bool("plan-only", false, "Print the resolved configuration without starting the tap")
			fs.Bool("no-watch", false, "Do not reload the config file when it changes")
			fs.String("report-dir", "", "Write a JSON session report into this directory on exit")
			fs.Duration("pace", 0, "Spacing between events of the synthetic source (non-macOS only)")
		},
		run: runTranslator,
	}
}

var (
	timeNow     = time.Now
	hostname    = os.Hostname
	reportSave  = session.Save
	newInjector = inject.New
	// newEventSource builds the tap; tests substitute a scripted source.
	newEventSource = func(opts events.Options) (eventStream, error) {
		return events.NewTap(opts)
	}
	// baseContext is cancelled by SIGINT/SIGTERM.
	baseContext = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
)

// eventStream is an event source that can report what it forwarded.
type eventStream interface {
	events.EventSource
	Result() events.Result
}

func runTranslator(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}

	planOnly := boolFlag(fs, "plan-only")
	ctx.Logger.Info("run command invoked", "plan_only", planOnly, "config_source", ctx.Config.Source)

	if planOnly {
		return printRunPlan(ctx, stdout)
	}

	cfg := ctx.Config
	logger := ctx.Logger

	source, err := newEventSource(events.Options{Pace: durationFlag(fs, "pace"), Clock: timeNow})
	if err != nil {
		return fmt.Errorf("create event tap: %w", err)
	}

	sw := engine.NewSwitch(cfg.Enabled)
	loop, err := engine.NewLoop(engine.Options{
		Injector: inject.WithLogging(newInjector(), logger),
		Settings: cfg.Settings(),
		Layout:   cfg.Layout(),
		Logger:   logger,
	}, sw)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	host, err := hostname()
	if err != nil {
		host = "unknown"
	}
	report := session.New(session.Options{
		SessionID:  uuid.NewString(),
		CreatedAt:  timeNow(),
		Hostname:   host,
		AppVersion: buildinfo.Version(),
		Config:     cfg,
	})
	report.Status.Subsystems = detectSubsystems()
	report.Start(timeNow())

	var reportMu sync.Mutex
	record := func(state, reason string) {
		reportMu.Lock()
		report.Record(state, reason, timeNow())
		reportMu.Unlock()
	}
	record(sw.State(), "startup")

	runCtx, cancel := baseContext()

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		watchToggleSignals(runCtx, sw, logger, record)
	}()

	if !boolFlag(fs, "no-watch") && ctx.configWatchable() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			watchConfig(runCtx, cfg.Source, loop, sw, ctx, record)
		}()
	}

	logger.Info("translator started",
		"session", report.SessionID,
		"enabled", sw.Enabled(),
		"step_count", cfg.Scroll.StepCount,
		"tick_interval", cfg.Scroll.TickInterval.String(),
	)

	runErr := loop.Run(runCtx, source)
	termination := "source_finished"
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		termination = "signal"
		runErr = nil
	default:
		termination = "error"
		logger.Error("translator failed", "error", runErr)
	}

	stats := loop.Stats()
	tapResult := source.Result()
	logger.Info("translator stopped",
		"termination", termination,
		"interactions", stats.Interactions,
		"drags", stats.Drags,
		"post_failures", stats.PostFailures,
	)

	fmt.Fprintf(stdout, "Session %s ended (%s)\n", report.SessionID, termination)
	fmt.Fprintf(stdout, "Input: %d scroll events (%d momentum), %d key events\n", tapResult.ScrollCount, tapResult.MomentumCount, tapResult.KeyCount)
	fmt.Fprintf(stdout, "Interactions: %d, drags: %d, restores: %d, dropped momentum: %d, ineligible: %d, post failures: %d\n",
		stats.Interactions, stats.Drags, stats.Restores, stats.MomentumDropped, stats.Ineligible, stats.PostFailures)

	if dir := stringFlag(fs, "report-dir"); dir != "" {
		cancel()
		wg.Wait()
		path, err := session.ResolvePath(dir, timeNow())
		if err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
		report.Finish(timeNow(), termination, stats, runErr)
		if err := reportSave(report, path); err != nil {
			return fmt.Errorf("write session report: %w", err)
		}
		fmt.Fprintf(stdout, "Report: %s\n", path)
	}

	if runErr != nil {
		return fmt.Errorf("run translator: %w", runErr)
	}
	return nil
}

func watchToggleSignals(ctx context.Context, sw *engine.Switch, logger *slog.Logger, record func(state, reason string)) {
	if len(toggleSignals) == 0 {
		<-ctx.Done()
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, toggleSignals...)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			sw.Toggle()
			logger.Info("enable switch toggled", "state", sw.State())
			record(sw.State(), "signal")
		}
	}
}

func watchConfig(ctx context.Context, path string, loop *engine.Loop, sw *engine.Switch, app *AppContext, record func(state, reason string)) {
	logger := app.Logger
	err := config.Watch(ctx, path, func(next config.Config) {
		settings := next.Settings()
		layout := next.Layout()
		var applyErr error
		if err := loop.Apply(ctx, func(c *engine.Controller) {
			applyErr = c.UpdateSettings(settings)
			c.SetLayout(layout)
		}); err != nil {
			logger.Warn("apply reloaded configuration", "error", err)
			return
		}
		if applyErr != nil {
			logger.Warn("reloaded configuration rejected", "error", applyErr)
			return
		}
		sw.Set(next.Enabled)
		logger.Info("configuration reloaded",
			"source", next.Source,
			"targets", len(next.Targets),
			"screens", len(next.Screens),
			"enabled", next.Enabled,
		)
		record(sw.State(), "config_reload")
	}, func(err error) {
		logger.Warn("configuration reload failed", "error", err)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("configuration watcher stopped", "error", err)
	}
}

func detectSubsystems() []session.SubsystemStatus {
	tap := events.DetectEnvironment()
	poster := inject.DetectEnvironment()
	return []session.SubsystemStatus{
		{
			Name:       "event_tap",
			Available:  tap.Available,
			Provider:   tap.Provider,
			Permission: tap.Permission,
			Message:    tap.Message,
		},
		{
			Name:       "injector",
			Available:  poster.Available,
			Provider:   poster.Provider,
			Permission: poster.Permission,
			Message:    poster.Message,
		},
	}
}

func printRunPlan(ctx *AppContext, stdout io.Writer) error {
	fmt.Fprintf(stdout, "Resolved configuration (source: %s)\n", ctx.Config.Source)
	out, err := ctx.Config.Marshal()
	if err != nil {
		return fmt.Errorf("render configuration: %w", err)
	}
	_, err = stdout.Write(out)
	return err
}

func boolFlag(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	value, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return false
	}
	return value
}

func stringFlag(fs *flag.FlagSet, name string) string {
	f := fs.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func durationFlag(fs *flag.FlagSet, name string) time.Duration {
	f := fs.Lookup(name)
	if f == nil {
		return 0
	}
	value, err := time.ParseDuration(f.Value.String())
	if err != nil {
		return 0
	}
	return value
}
