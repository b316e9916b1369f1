package cli

import (
	"fmt"
	"io"
	"log/slog"

	"swarmrun/internal/config"
	"swarmrun/internal/flags"

	"github.com/spf13/cobra"
)

// prepareConfig layers the settings file under the parsed flags, records
// the positional identifiers and validates the result.
func prepareConfig(cmd *cobra.Command, cfg *config.Config, args []string) error {
	explicit := cmd.Flags().Changed(flags.FlagSettings)
	s, err := config.LoadSettings(settingsPath, explicit)
	if err != nil {
		return err
	}
	s.ApplyTo(cfg, cmd.Flags().Changed)

	cfg.Specs.Identifiers = append([]string(nil), args...)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Resolve(""); err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
