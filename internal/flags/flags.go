package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// settings file loader. Keeping these as constants avoids drift between Cobra
// flag wiring and code that needs to know whether a flag was set explicitly
// (e.g. settings file values must not override explicit flags).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 2, "...")
//	arg := "--" + flags.FlagConcurrency
const (
	// Spec discovery
	FlagSpecRoot  = "spec-root"
	FlagTestFiles = "test-files"
	FlagExclude   = "exclude"

	// Engine
	FlagEngine     = "engine"
	FlagConfigFile = "config-file"
	FlagConfig     = "config"
	FlagEnvFile    = "env-file"

	// Launcher
	FlagSettings    = "settings"
	FlagOutput      = "output"
	FlagReportFile  = "report-file"
	FlagConcurrency = "concurrency"
	FlagTrials      = "trials"
	FlagVerbose     = "verbose"
)
