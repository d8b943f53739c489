package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/petrarca/techstack-lens/internal/config"
	"github.com/petrarca/techstack-lens/internal/progress"
	"github.com/petrarca/techstack-lens/internal/version"
	"github.com/spf13/cobra"
)

// Runtime state set up by the root command before any subcommand runs
var (
	settings *config.Settings
	logger   *slog.Logger
	reporter *progress.Progress
)

// Persistent flag values. They only override settings when given explicitly.
var (
	datasetFlag   string
	indexedFlag   bool
	verboseFlag   bool
	logLevelFlag  string
	logFormatFlag string
	logFileFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "techstack-lens",
	Short: "Security reference browser for technology stacks",
	Long: `techstack-lens is a reference of technology stacks and the security-relevant
facts about them: configuration files, exposed endpoints, default credentials,
log and backup locations, debug modes and known vulnerabilities.

Browse by category, drill into a technology, search the whole dataset or
export a technology record as JSON.`,
	Version:           version.App,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultSettings()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&datasetFlag, "dataset", "", "Dataset file (YAML or JSON, default: built-in dataset)")
	flags.BoolVar(&indexedFlag, "indexed", false, "Answer searches from the inverted index")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Show dataset load progress on stderr")
	flags.StringVar(&logLevelFlag, "log-level", defaults.LogLevel.String(), "Log level: debug, info, warn, error")
	flags.StringVar(&logFormatFlag, "log-format", defaults.LogFormat, "Log format: text or json")
	flags.StringVar(&logFileFlag, "log-file", "", "Log file path (default: stderr)")
}

// setup resolves settings from defaults, environment and flags, then builds
// the logger and the progress reporter
func setup(cmd *cobra.Command, args []string) error {
	s := config.LoadSettings()

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		s.Dataset = datasetFlag
	}
	if flags.Changed("indexed") {
		s.SearchIndex = indexedFlag
	}
	if flags.Changed("verbose") {
		s.Verbose = verboseFlag
	}
	if flags.Changed("log-level") {
		level, err := config.ParseLogLevel(logLevelFlag)
		if err != nil {
			return err
		}
		s.LogLevel = level
	}
	if flags.Changed("log-format") {
		s.LogFormat = logFormatFlag
	}
	if flags.Changed("log-file") {
		s.LogFile = logFileFlag
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settings = s
	logger = s.ConfigureLogger()
	reporter = progress.New(s.Verbose, progress.NewSimpleHandler(cmd.ErrOrStderr()))

	logger.Debug("Settings resolved",
		"dataset", s.Dataset,
		"search_index", s.SearchIndex,
		"format", s.Format)
	return nil
}
