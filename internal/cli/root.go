package cli

import (
	"fmt"
	"os"

	"swarmrun/internal/config"
	"swarmrun/internal/flags"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var (
	cfg          = config.New()
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "swarmrun",
	Short: "Run end-to-end specs in parallel and sum their statistics",
	Long: `swarmrun launches an end-to-end test engine over your spec files with bounded
concurrency and prints per-subject statistics.

The engine is an external command (default: node swarmrun.engine.js) that
receives --spec, --config-file and --config arguments and writes its results
as JSON to the file named by $SWARMRUN_RESULTS_FILE.

Examples:
	# Run every spec once, two at a time
	swarmrun run-parallel

	# Run specs whose path contains "login" or "signup", four at a time
	swarmrun run-parallel login signup -c 4

	# Run the login specs eight times to surface flaky tests
	swarmrun stress-test login --trials 8

	# Print build info
	swarmrun version

Settings:
	Flags may also be set in swarmrun.yaml (or the file given by --settings).
	Flags given on the command line always win.

Exit codes:
	0 = run completed (test failures are reported, not fatal), or no specs matched
	1 = fatal error (engine could not run, invalid configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()

	// Spec discovery
	pf.StringVar(&cfg.Specs.Root, flags.FlagSpecRoot, config.DefaultSpecRoot, "Directory to discover spec files in")
	pf.StringVar(&cfg.Specs.TestFiles, flags.FlagTestFiles, config.DefaultTestFiles, "Glob (relative to --spec-root) spec files must match; ** crosses directories")
	pf.StringArrayVar(&cfg.Specs.Exclude, flags.FlagExclude, nil, "Exclude pattern (repeatable). Without '/' it matches the file name, otherwise the path")

	// Engine
	pf.StringVar(&cfg.Engine.Command, flags.FlagEngine, config.DefaultEngineCommand, "Engine command line")
	pf.Var(&cfg.Engine.ConfigFile, flags.FlagConfigFile, "Engine config file, or false to run without one (default: cypress.config.* if present)")
	pf.StringArrayVar(&cfg.Engine.Overrides, flags.FlagConfig, nil, "Inline engine config as key=value (repeatable; comma-separated accepted)")
	pf.StringVar(&cfg.Engine.EnvFile, flags.FlagEnvFile, "", "dotenv file whose variables are passed to the engine")

	// Launcher
	pf.StringVar(&settingsPath, flags.FlagSettings, config.DefaultSettingsFile, "Launcher settings file (YAML)")
	pf.IntVarP(&cfg.Runtime.Concurrency, flags.FlagConcurrency, "c", config.DefaultConcurrency, "Maximum engine runs in flight")
	pf.StringVar(&cfg.Output.Format, flags.FlagOutput, "text", "Report format: text|json")
	pf.StringVar(&cfg.Output.ReportFile, flags.FlagReportFile, "", "Also write the report to this file (.json, .txt or .log)")
	pf.BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Stream engine output and enable debug logging")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
