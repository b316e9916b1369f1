package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"swarmrun/internal/flags"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is loaded from the working directory when --settings is
// not given. It is optional.
const DefaultSettingsFile = "swarmrun.yaml"

// Settings is the launcher settings file. Every key mirrors a CLI flag; unset
// keys leave the flag default alone and explicit flags always win.
type Settings struct {
	SpecRoot    *string     `yaml:"specRoot"`
	TestFiles   *string     `yaml:"testFiles"`
	Exclude     []string    `yaml:"exclude"`
	Engine      *string     `yaml:"engine"`
	ConfigFile  *ConfigFile `yaml:"configFile"`
	Config      []string    `yaml:"config"`
	EnvFile     *string     `yaml:"envFile"`
	Concurrency *int        `yaml:"concurrency"`
	Trials      *int        `yaml:"trials"`
	Output      *string     `yaml:"output"`
	ReportFile  *string     `yaml:"reportFile"`
}

// LoadSettings reads a settings file. A missing file is only an error when
// the path was given explicitly; otherwise (nil, nil) is returned.
func LoadSettings(path string, explicit bool) (*Settings, error) {
	if path == "" {
		path = DefaultSettingsFile
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := DecodeSettings(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// DecodeSettings decodes a YAML settings document. Unknown keys are rejected.
func DecodeSettings(r io.Reader) (*Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Settings
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, err
	}
	return &s, nil
}

// ApplyTo copies settings into cfg for every flag that was not set on the
// command line. changed reports whether a flag (by name) was set explicitly.
func (s *Settings) ApplyTo(cfg *Config, changed func(flag string) bool) {
	if s == nil || cfg == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if s.SpecRoot != nil && !changed(flags.FlagSpecRoot) {
		cfg.Specs.Root = *s.SpecRoot
	}
	if s.TestFiles != nil && !changed(flags.FlagTestFiles) {
		cfg.Specs.TestFiles = *s.TestFiles
	}
	if s.Exclude != nil && !changed(flags.FlagExclude) {
		cfg.Specs.Exclude = append([]string(nil), s.Exclude...)
	}
	if s.Engine != nil && !changed(flags.FlagEngine) {
		cfg.Engine.Command = *s.Engine
	}
	if s.ConfigFile != nil && !changed(flags.FlagConfigFile) {
		cfg.Engine.ConfigFile = *s.ConfigFile
	}
	if s.Config != nil && !changed(flags.FlagConfig) {
		cfg.Engine.Overrides = append([]string(nil), s.Config...)
	}
	if s.EnvFile != nil && !changed(flags.FlagEnvFile) {
		cfg.Engine.EnvFile = *s.EnvFile
	}
	if s.Concurrency != nil && !changed(flags.FlagConcurrency) {
		cfg.Runtime.Concurrency = *s.Concurrency
	}
	if s.Trials != nil && !changed(flags.FlagTrials) {
		cfg.Runtime.Trials = *s.Trials
	}
	if s.Output != nil && !changed(flags.FlagOutput) {
		cfg.Output.Format = *s.Output
	}
	if s.ReportFile != nil && !changed(flags.FlagReportFile) {
		cfg.Output.ReportFile = *s.ReportFile
	}
}
