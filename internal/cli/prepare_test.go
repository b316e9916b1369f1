package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"swarmrun/internal/config"
	"swarmrun/internal/flags"

	"github.com/spf13/cobra"
)

func newTestCommand(t *testing.T, cfg *config.Config) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run-parallel"}
	cmd.Flags().StringVar(&cfg.Specs.Root, flags.FlagSpecRoot, config.DefaultSpecRoot, "")
	cmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, config.DefaultConcurrency, "")
	cmd.Flags().StringVar(&settingsPath, flags.FlagSettings, config.DefaultSettingsFile, "")
	return cmd
}

func useSettingsPath(t *testing.T, path string) {
	t.Helper()
	prev := settingsPath
	settingsPath = path
	t.Cleanup(func() { settingsPath = prev })
}

func TestPrepareConfig_SettingsFileAppliesUnderFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	useSettingsPath(t, config.DefaultSettingsFile)
	settings := "specRoot: e2e\nconcurrency: 6\nconfigFile: false\n"
	if err := os.WriteFile(config.DefaultSettingsFile, []byte(settings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg := config.New()
	cmd := newTestCommand(t, cfg)
	if err := cmd.Flags().Set(flags.FlagConcurrency, "3"); err != nil {
		t.Fatalf("set concurrency: %v", err)
	}

	if err := prepareConfig(cmd, cfg, []string{"login", " signup "}); err != nil {
		t.Fatalf("prepareConfig: %v", err)
	}
	if cfg.Specs.Root != "e2e" {
		t.Fatalf("spec root: want e2e from settings, got %q", cfg.Specs.Root)
	}
	if cfg.Runtime.Concurrency != 3 {
		t.Fatalf("concurrency: explicit flag must win, got %d", cfg.Runtime.Concurrency)
	}
	if cfg.Engine.ConfigFile.Kind() != config.ConfigFileDisabled {
		t.Fatalf("config file: want disabled, got %v", cfg.Engine.ConfigFile)
	}
	if got := strings.Join(cfg.Specs.Identifiers, ","); got != "login,signup" {
		t.Fatalf("identifiers: got %q", got)
	}
}

func TestPrepareConfig_MissingDefaultSettingsIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	useSettingsPath(t, config.DefaultSettingsFile)

	cfg := config.New()
	if err := prepareConfig(newTestCommand(t, cfg), cfg, nil); err != nil {
		t.Fatalf("prepareConfig: %v", err)
	}
	if cfg.Specs.Root != config.DefaultSpecRoot {
		t.Fatalf("spec root: got %q", cfg.Specs.Root)
	}
}

func TestPrepareConfig_MissingExplicitSettingsFails(t *testing.T) {
	t.Chdir(t.TempDir())
	useSettingsPath(t, config.DefaultSettingsFile)

	cfg := config.New()
	cmd := newTestCommand(t, cfg)
	if err := cmd.Flags().Set(flags.FlagSettings, filepath.Join("conf", "missing.yaml")); err != nil {
		t.Fatalf("set settings: %v", err)
	}
	if err := prepareConfig(cmd, cfg, nil); err == nil {
		t.Fatalf("want error for missing explicit settings file")
	}
}

func TestPrepareConfig_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	useSettingsPath(t, config.DefaultSettingsFile)

	cfg := config.New()
	cmd := newTestCommand(t, cfg)
	if err := cmd.Flags().Set(flags.FlagConcurrency, "0"); err != nil {
		t.Fatalf("set concurrency: %v", err)
	}
	err := prepareConfig(cmd, cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "--concurrency") {
		t.Fatalf("want concurrency validation error, got %v", err)
	}
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged without --verbose: %q", buf.String())
	}
	newLogger(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug not logged with --verbose: %q", buf.String())
	}
}
