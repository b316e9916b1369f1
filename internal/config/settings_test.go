package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"swarmrun/internal/flags"
)

func TestParseConfigFile(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind ConfigFileKind
		wantPath string
	}{
		{raw: "", wantKind: ConfigFileDefault},
		{raw: "false", wantKind: ConfigFileDisabled},
		{raw: " OFF ", wantKind: ConfigFileDisabled},
		{raw: "none", wantKind: ConfigFileDisabled},
		{raw: "ci/cypress.config.js", wantKind: ConfigFilePath, wantPath: "ci/cypress.config.js"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := ParseConfigFile(tt.raw)
			if f.Kind() != tt.wantKind {
				t.Fatalf("kind mismatch: got %v want %v", f.Kind(), tt.wantKind)
			}
			path, ok := f.Path()
			if ok != (tt.wantKind == ConfigFilePath) || path != tt.wantPath {
				t.Fatalf("path mismatch: got (%q, %v) want %q", path, ok, tt.wantPath)
			}
		})
	}
}

func TestDecodeSettings(t *testing.T) {
	doc := `
specRoot: e2e/specs
testFiles: "**/*.cy.js"
exclude:
  - "*.hot-update.js"
engine: node run-engine.js
configFile: false
config: ["video=false"]
concurrency: 6
trials: 10
output: json
reportFile: reports/summary.json
`
	s, err := DecodeSettings(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeSettings returned error: %v", err)
	}

	cfg := New()
	s.ApplyTo(cfg, nil)

	if cfg.Specs.Root != "e2e/specs" || cfg.Specs.TestFiles != "**/*.cy.js" {
		t.Fatalf("unexpected spec settings: %+v", cfg.Specs)
	}
	if !reflect.DeepEqual(cfg.Specs.Exclude, []string{"*.hot-update.js"}) {
		t.Fatalf("unexpected exclude: %v", cfg.Specs.Exclude)
	}
	if cfg.Engine.Command != "node run-engine.js" {
		t.Fatalf("unexpected engine command: %q", cfg.Engine.Command)
	}
	if cfg.Engine.ConfigFile.Kind() != ConfigFileDisabled {
		t.Fatalf("expected config file disabled, got %v", cfg.Engine.ConfigFile.Kind())
	}
	if cfg.Runtime.Concurrency != 6 || cfg.Runtime.Trials != 10 {
		t.Fatalf("unexpected runtime: %+v", cfg.Runtime)
	}
	if cfg.Output.Format != "json" || cfg.Output.ReportFile != "reports/summary.json" {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
}

func TestDecodeSettings_ConfigFilePath(t *testing.T) {
	s, err := DecodeSettings(strings.NewReader("configFile: ci/cypress.json\n"))
	if err != nil {
		t.Fatalf("DecodeSettings returned error: %v", err)
	}
	if s.ConfigFile == nil {
		t.Fatalf("expected configFile to be decoded")
	}
	if path, ok := s.ConfigFile.Path(); !ok || path != "ci/cypress.json" {
		t.Fatalf("unexpected config file: %q (%v)", path, ok)
	}
}

func TestDecodeSettings_RejectsUnknownKeys(t *testing.T) {
	if _, err := DecodeSettings(strings.NewReader("parallelism: 3\n")); err == nil {
		t.Fatalf("expected error for unknown key, got nil")
	}
}

func TestDecodeSettings_EmptyDocument(t *testing.T) {
	s, err := DecodeSettings(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeSettings returned error: %v", err)
	}
	cfg := New()
	s.ApplyTo(cfg, nil)
	if !reflect.DeepEqual(cfg, New()) {
		t.Fatalf("empty settings should not change config: %+v", cfg)
	}
}

func TestSettingsApplyTo_ExplicitFlagsWin(t *testing.T) {
	concurrency := 8
	root := "from/settings"
	s := &Settings{Concurrency: &concurrency, SpecRoot: &root}

	cfg := New()
	cfg.Runtime.Concurrency = 3
	s.ApplyTo(cfg, func(name string) bool { return name == flags.FlagConcurrency })

	if cfg.Runtime.Concurrency != 3 {
		t.Fatalf("expected explicit --concurrency to win, got %d", cfg.Runtime.Concurrency)
	}
	if cfg.Specs.Root != "from/settings" {
		t.Fatalf("expected spec root from settings, got %q", cfg.Specs.Root)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "swarmrun.yaml")

	s, err := LoadSettings(missing, false)
	if err != nil || s != nil {
		t.Fatalf("expected (nil, nil) for missing implicit settings, got (%v, %v)", s, err)
	}
	if _, err := LoadSettings(missing, true); err == nil {
		t.Fatalf("expected error for missing explicit settings file")
	}
}

func TestResolve_ConventionalConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cypress.config.ts"), []byte("export default {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.e2e"), []byte("CYPRESS_BASE_URL=http://localhost:4000\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg := New()
	cfg.Engine.EnvFile = ".env.e2e"
	if err := cfg.Resolve(dir); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if path, ok := cfg.Engine.ConfigFile.Path(); !ok || path != "cypress.config.ts" {
		t.Fatalf("expected conventional config file, got %q (%v)", path, ok)
	}
	if got := cfg.Engine.Env["CYPRESS_BASE_URL"]; got != "http://localhost:4000" {
		t.Fatalf("expected env var from env file, got %q", got)
	}
}

func TestResolve_NoConventionalFileDisables(t *testing.T) {
	cfg := New()
	if err := cfg.Resolve(t.TempDir()); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.Engine.ConfigFile.Kind() != ConfigFileDisabled {
		t.Fatalf("expected disabled config file, got %v", cfg.Engine.ConfigFile.Kind())
	}
}

func TestResolve_MissingExplicitConfigFile(t *testing.T) {
	cfg := New()
	cfg.Engine.ConfigFile = ConfigFileAt("nope.config.js")
	if err := cfg.Resolve(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
