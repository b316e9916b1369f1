package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli/root.go (and internal/flags)
	// - settings file keys in internal/config/settings.go
	Specs   Specs
	Engine  Engine
	Runtime Runtime
	Output  Output
}

type Specs struct {
	// Root is the directory spec discovery starts from (see --spec-root).
	Root string

	// TestFiles is the glob, relative to Root, that candidate spec files must
	// match (see --test-files). "**" crosses directories.
	TestFiles string

	// Exclude removes matched specs (see --exclude, repeatable). Patterns
	// without '/' match the base name; patterns with '/' match the full path.
	Exclude []string

	// Identifiers are case-insensitive substrings a spec path must contain
	// (positional arguments). Empty means every discovered spec.
	Identifiers []string
}

type Engine struct {
	// Command is the engine command line, split on whitespace (see --engine).
	Command string

	// ConfigFile is the engine configuration file handed to every engine run
	// (see --config-file). The literal "false" disables it.
	ConfigFile ConfigFile

	// Overrides are inline engine configuration values as key=value
	// (see --config). Values may be provided as repeated flags and/or
	// comma-separated lists.
	Overrides []string

	// EnvFile is a dotenv file whose variables are added to the engine
	// environment (see --env-file).
	EnvFile string

	// Env holds the variables loaded from EnvFile. Populated by Resolve.
	Env map[string]string
}

type Runtime struct {
	// Concurrency caps how many engine runs are in flight (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Trials is how many times stress-test queues the spec set (see --trials).
	// Must be >= 1.
	Trials int

	// Verbose streams engine output and enables debug logging.
	Verbose bool
}

type Output struct {
	// Format selects the report format (see --output).
	// Allowed values: text, json.
	Format string

	// ReportFile additionally writes the report to a file (see --report-file).
	// The extension picks the format: .json, .txt or .log.
	ReportFile string
}

const (
	DefaultSpecRoot      = "cypress/e2e"
	DefaultTestFiles     = "**/*"
	DefaultEngineCommand = "node swarmrun.engine.js"
	DefaultConcurrency   = 2
	DefaultTrials        = 4
)

func New() *Config {
	return &Config{
		Specs: Specs{
			Root:      DefaultSpecRoot,
			TestFiles: DefaultTestFiles,
		},
		Engine: Engine{
			Command: DefaultEngineCommand,
		},
		Runtime: Runtime{
			Concurrency: DefaultConcurrency,
			Trials:      DefaultTrials,
		},
		Output: Output{
			Format: "text",
		},
	}
}

func (c *Config) Validate() error {
	// Normalize list inputs. Exclude patterns may legitimately contain commas
	// ("*.{cy,spec}.js"), so only overrides are comma-split.
	c.Specs.Exclude = trimList(c.Specs.Exclude)
	c.Specs.Identifiers = trimList(c.Specs.Identifiers)
	c.Engine.Overrides = splitCommaList(c.Engine.Overrides)

	c.Specs.Root = strings.TrimSpace(c.Specs.Root)
	if c.Specs.Root == "" {
		return errors.New("--spec-root must not be empty")
	}
	c.Specs.TestFiles = strings.TrimSpace(c.Specs.TestFiles)
	if c.Specs.TestFiles == "" {
		c.Specs.TestFiles = DefaultTestFiles
	}

	if len(c.Engine.CommandArgs()) == 0 {
		return errors.New("--engine must not be empty")
	}
	if _, err := ParseOverrides(c.Engine.Overrides); err != nil {
		return err
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Trials <= 0 {
		return errors.New("--trials must be >= 1")
	}

	// Output validation
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("unsupported --output: %s (must be one of: text, json)", c.Output.Format)
	}
	c.Output.ReportFile = strings.TrimSpace(c.Output.ReportFile)

	return nil
}

// CommandArgs returns the engine command split into program and arguments.
func (e Engine) CommandArgs() []string {
	return strings.Fields(e.Command)
}

// Override is a single inline engine configuration assignment.
type Override struct {
	Key   string
	Value string
}

func (o Override) String() string {
	return o.Key + "=" + o.Value
}

// ParseOverrides parses values of the form "key=value".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - Input order is preserved; a later assignment to the same key wins in the engine.
// - Empty values are allowed ("video=").
func ParseOverrides(values []string) ([]Override, error) {
	var out []Override
	for _, raw := range splitCommaList(values) {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --config entry %q: expected key=value", raw)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid --config entry %q: expected non-empty key", raw)
		}
		out = append(out, Override{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func trimList(values []string) []string {
	var out []string
	for _, v := range values {
		if p := strings.TrimSpace(v); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
