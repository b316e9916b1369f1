package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Resolve settles values that depend on the file system: the conventional
// engine config file and the engine env file. dir is the directory relative
// paths are probed from ("" means the working directory).
//
// Call it once, after Validate. The Config is read-only afterwards.
func (c *Config) Resolve(dir string) error {
	if c.Engine.ConfigFile.Kind() == ConfigFileDefault {
		c.Engine.ConfigFile = findConventionalConfigFile(dir)
	}
	if path, ok := c.Engine.ConfigFile.Path(); ok {
		if _, err := os.Stat(joinDir(dir, path)); err != nil {
			return fmt.Errorf("engine config file %s: %w", path, err)
		}
	}

	if c.Engine.EnvFile != "" {
		env, err := godotenv.Read(joinDir(dir, c.Engine.EnvFile))
		if err != nil {
			return fmt.Errorf("read env file %s: %w", c.Engine.EnvFile, err)
		}
		c.Engine.Env = env
	}
	return nil
}

func findConventionalConfigFile(dir string) ConfigFile {
	for _, name := range ConventionalConfigFiles {
		if info, err := os.Stat(joinDir(dir, name)); err == nil && !info.IsDir() {
			return ConfigFileAt(name)
		}
	}
	return DisabledConfigFile()
}

func joinDir(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
