package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"swarmrun/internal/config"
	"swarmrun/internal/engine"
	"swarmrun/internal/output"
	"swarmrun/internal/scheduler"
	"swarmrun/internal/specs"
	"swarmrun/internal/stats"
)

// Mode selects how resolved specs become work items.
type Mode string

const (
	// ModeRunParallel runs every spec once, each in its own engine run.
	ModeRunParallel Mode = output.CommandRunParallel
	// ModeStressTest runs the whole spec set once per trial.
	ModeStressTest Mode = output.CommandStressTest
)

const (
	ExitOK    = 0
	ExitFatal = 1
)

type Launcher struct {
	engine engine.Engine
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	now    func() time.Time
}

type Option func(*Launcher)

// WithEngine replaces the external engine process.
func WithEngine(e engine.Engine) Option {
	return func(l *Launcher) { l.engine = e }
}

// WithOutput redirects the report (stdout) and diagnostics (stderr).
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		if stdout != nil {
			l.stdout = stdout
		}
		if stderr != nil {
			l.stderr = stderr
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Launcher) {
		if log != nil {
			l.log = log
		}
	}
}

func New(opts ...Option) *Launcher {
	l := &Launcher{
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run resolves specs, fans them out to the engine and presents the summed
// statistics. It returns the process exit code.
func (l *Launcher) Run(ctx context.Context, cfg *config.Config, mode Mode) int {
	console := output.NewConsole(l.stderr)
	if cfg == nil {
		console.Errorf("config is nil")
		return ExitFatal
	}

	specList, err := specs.Resolve(ctx, specs.Query{
		Root:        cfg.Specs.Root,
		TestFiles:   cfg.Specs.TestFiles,
		Identifiers: cfg.Specs.Identifiers,
		Exclude:     cfg.Specs.Exclude,
	})
	if err != nil {
		if rerr, ok := specs.AsResolutionError(err); ok {
			console.ResolutionWarning(rerr)
			return ExitOK
		}
		console.Errorf("%v", err)
		return ExitFatal
	}
	l.log.Debug("specs resolved", "count", len(specList), "root", cfg.Specs.Root)

	var (
		items  []engine.WorkItem
		trials int
	)
	switch mode {
	case ModeRunParallel:
		items = scheduler.PerSpec(specList)
	case ModeStressTest:
		trials = cfg.Runtime.Trials
		items = scheduler.Replicate(specList, trials)
	default:
		console.Errorf("unknown mode %q", mode)
		return ExitFatal
	}

	eng := l.engine
	if eng == nil {
		eng, err = l.commandEngine(cfg)
		if err != nil {
			console.Errorf("%v", err)
			return ExitFatal
		}
	}

	// Open report destinations before running so a bad path fails fast.
	mgr, reportFile, err := l.presenters(cfg)
	if err != nil {
		console.Errorf("%v", err)
		return ExitFatal
	}
	closed := false
	defer func() {
		// Runs that end without a report leave an existing report file alone.
		if !closed {
			_ = mgr.Close()
		}
	}()

	sched, err := scheduler.NewScheduler(eng.Execute, cfg.Runtime.Concurrency)
	if err != nil {
		console.Errorf("%v", err)
		return ExitFatal
	}
	sched.OnDone = func(item engine.WorkItem, res engine.RunResult) {
		if res.Failed() {
			l.log.Warn("engine run failed; excluding it from the summary",
				"id", item.ID, "trial", item.Trial, "specs", item.Specs,
				"failures", string(res.Failures), "message", res.Message)
			return
		}
		l.log.Debug("engine run finished", "id", item.ID, "trial", item.Trial, "runs", len(res.Runs))
	}

	l.log.Info("starting engine runs", "mode", string(mode), "items", len(items), "concurrency", cfg.Runtime.Concurrency)
	start := l.now()
	results, err := sched.Run(ctx, items)
	elapsed := l.now().Sub(start)
	if err != nil {
		console.Errorf("%v", err)
		return ExitFatal
	}

	report := output.NewReport(string(mode), trials, len(specList), elapsed, stats.Count(results), stats.Aggregate(results))
	if err := mgr.Present(report); err != nil {
		console.Errorf("%v", err)
		return ExitFatal
	}
	closed = true
	if err := mgr.Close(); err != nil {
		console.Errorf("%v", err)
		return ExitFatal
	}
	if reportFile != nil {
		l.log.Debug("report written", "path", reportFile.Path())
	}
	return ExitOK
}

func (l *Launcher) commandEngine(cfg *config.Config) (engine.Engine, error) {
	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}
	opts.Logger = l.log
	if cfg.Runtime.Verbose {
		opts.Output = l.stderr
	}
	return engine.NewCommandEngine(opts)
}

func (l *Launcher) presenters(cfg *config.Config) (*output.Manager, *output.FileSink, error) {
	mgr := output.NewManager()
	p, err := output.NewPresenter(cfg.Output.Format, l.stdout)
	if err != nil {
		return nil, nil, err
	}
	if err := mgr.Add(p); err != nil {
		return nil, nil, err
	}
	if cfg.Output.ReportFile == "" {
		return mgr, nil, nil
	}
	sink, err := output.NewFileSink(cfg.Output.ReportFile, "")
	if err != nil {
		return nil, nil, err
	}
	if err := mgr.Add(sink); err != nil {
		_ = sink.Close()
		return nil, nil, err
	}
	return mgr, sink, nil
}
