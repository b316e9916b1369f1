package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileKind tells how the engine configuration file was selected.
type ConfigFileKind int

const (
	// ConfigFileDefault means nothing was specified; Resolve looks for a
	// conventional file and settles on Path or Disabled.
	ConfigFileDefault ConfigFileKind = iota
	ConfigFileDisabled
	ConfigFilePath
)

// ConventionalConfigFiles are probed, in order, when no engine config file
// is specified.
var ConventionalConfigFiles = []string{
	"cypress.config.js",
	"cypress.config.ts",
	"cypress.config.mjs",
	"cypress.config.cjs",
	"cypress.json",
}

// ConfigFile is either disabled or a path. It implements pflag.Value so the
// decision is made once while parsing flags.
type ConfigFile struct {
	kind ConfigFileKind
	path string
}

func DisabledConfigFile() ConfigFile {
	return ConfigFile{kind: ConfigFileDisabled}
}

func ConfigFileAt(path string) ConfigFile {
	return ConfigFile{kind: ConfigFilePath, path: path}
}

// ParseConfigFile maps a raw flag/settings value onto the variant.
// "" selects the conventional default; false/off/none disables the file.
func ParseConfigFile(raw string) ConfigFile {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return ConfigFile{}
	case "false", "off", "none":
		return DisabledConfigFile()
	default:
		return ConfigFileAt(raw)
	}
}

func (f ConfigFile) Kind() ConfigFileKind { return f.kind }

// Path returns the file path when one is selected.
func (f ConfigFile) Path() (string, bool) {
	if f.kind != ConfigFilePath {
		return "", false
	}
	return f.path, true
}

func (f ConfigFile) String() string {
	switch f.kind {
	case ConfigFileDisabled:
		return "false"
	case ConfigFilePath:
		return f.path
	default:
		return ""
	}
}

func (f *ConfigFile) Set(raw string) error {
	*f = ParseConfigFile(raw)
	return nil
}

func (f *ConfigFile) Type() string {
	return "path|false"
}

// UnmarshalYAML accepts either a boolean (false disables, true keeps the
// conventional default) or a path string.
func (f *ConfigFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("configFile: expected a path or false (line %d)", node.Line)
	}
	if node.ShortTag() == "!!bool" {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			*f = ConfigFile{}
		} else {
			*f = DisabledConfigFile()
		}
		return nil
	}
	*f = ParseConfigFile(node.Value)
	return nil
}
