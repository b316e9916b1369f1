package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"swarmrun/internal/config"

	"github.com/google/uuid"
)

const (
	// EnvResultsFile names the file the engine must write its result JSON to.
	EnvResultsFile = "SWARMRUN_RESULTS_FILE"
	// EnvRunID carries the WorkItem ID into the engine process.
	EnvRunID = "SWARMRUN_RUN_ID"

	stderrTailBytes = 4 << 10
)

// ErrNoResult reports that the engine exited without writing a result.
var ErrNoResult = errors.New("engine wrote no result")

type Options struct {
	// Command is the engine program followed by its fixed arguments.
	Command []string
	// ConfigFile is passed as --config-file (path, or "false" when disabled).
	ConfigFile config.ConfigFile
	// Overrides are passed as a single --config key=value,... argument.
	Overrides []config.Override
	// Env is added to the inherited environment of every engine process.
	Env map[string]string
	// Output receives the engine's stdout/stderr as it runs. When nil the
	// output is discarded except for a stderr tail kept for diagnostics.
	Output io.Writer
	// TempDir holds per-run result files ("" means os.TempDir()).
	TempDir string
	Logger  *slog.Logger
}

// OptionsFromConfig builds engine options from a validated, resolved Config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, errors.New("config is nil")
	}
	overrides, err := config.ParseOverrides(cfg.Engine.Overrides)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Command:    cfg.Engine.CommandArgs(),
		ConfigFile: cfg.Engine.ConfigFile,
		Overrides:  overrides,
		Env:        cfg.Engine.Env,
	}, nil
}

// CommandEngine runs the engine as an external process, once per WorkItem.
// It holds no per-run state and is safe for concurrent use.
type CommandEngine struct {
	opts Options
	log  *slog.Logger
}

func NewCommandEngine(opts Options) (*CommandEngine, error) {
	if len(opts.Command) == 0 || strings.TrimSpace(opts.Command[0]) == "" {
		return nil, errors.New("engine command is empty")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CommandEngine{opts: opts, log: log.With("component", "engine")}, nil
}

// Args returns the engine arguments for specs, excluding the program itself.
func (e *CommandEngine) Args(specs []string) []string {
	args := append([]string(nil), e.opts.Command[1:]...)
	args = append(args, "--spec", strings.Join(specs, ","))

	switch e.opts.ConfigFile.Kind() {
	case config.ConfigFilePath:
		path, _ := e.opts.ConfigFile.Path()
		args = append(args, "--config-file", path)
	case config.ConfigFileDisabled:
		args = append(args, "--config-file", "false")
	}

	if len(e.opts.Overrides) > 0 {
		parts := make([]string, 0, len(e.opts.Overrides))
		for _, o := range e.opts.Overrides {
			parts = append(parts, o.String())
		}
		args = append(args, "--config", strings.Join(parts, ","))
	}
	return args
}

func (e *CommandEngine) Execute(ctx context.Context, item WorkItem) (RunResult, error) {
	if ctx == nil {
		return RunResult{}, errors.New("context is nil")
	}
	if len(item.Specs) == 0 {
		return RunResult{}, fmt.Errorf("work item %d has no specs", item.Index)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	resultsFile, err := os.CreateTemp(e.opts.TempDir, "swarmrun-"+item.ID+"-*.json")
	if err != nil {
		return RunResult{}, fmt.Errorf("create results file: %w", err)
	}
	resultsPath := resultsFile.Name()
	_ = resultsFile.Close()
	defer os.Remove(resultsPath)

	args := e.Args(item.Specs)
	cmd := exec.CommandContext(ctx, e.opts.Command[0], args...)
	cmd.Env = e.environ(item.ID, resultsPath)

	tail := &tailBuffer{max: stderrTailBytes}
	if e.opts.Output != nil {
		cmd.Stdout = e.opts.Output
		cmd.Stderr = io.MultiWriter(e.opts.Output, tail)
	} else {
		cmd.Stderr = tail
	}

	e.log.Debug("engine started", "run_id", item.ID, "index", item.Index, "trial", item.Trial, "specs", len(item.Specs))

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return RunResult{}, &FatalError{ItemID: item.ID, Specs: item.Specs, Stderr: tail.String(), Err: err}
		}
		// The engine exits non-zero when tests fail; the result file decides.
		exitCode = exitErr.ExitCode()
	}

	f, err := os.Open(resultsPath)
	if err != nil {
		return RunResult{}, &FatalError{ItemID: item.ID, Specs: item.Specs, ExitCode: exitCode, Stderr: tail.String(), Err: err}
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return RunResult{}, &FatalError{ItemID: item.ID, Specs: item.Specs, ExitCode: exitCode, Stderr: tail.String(), Err: ErrNoResult}
	}

	res, err := DecodeResult(f)
	if err != nil {
		return RunResult{}, &FatalError{ItemID: item.ID, Specs: item.Specs, ExitCode: exitCode, Stderr: tail.String(), Err: err}
	}
	res.Item = item

	e.log.Debug("engine finished", "run_id", item.ID, "exit_code", exitCode, "runs", len(res.Runs), "engine_failed", res.Failed())
	return res, nil
}

func (e *CommandEngine) environ(runID, resultsPath string) []string {
	env := os.Environ()

	keys := make([]string, 0, len(e.opts.Env))
	for k := range e.opts.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+e.opts.Env[k])
	}

	return append(env, EnvResultsFile+"="+resultsPath, EnvRunID+"="+runID)
}
