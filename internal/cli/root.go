package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/config"
	"github.com/jasperwreed/chat-rewind/internal/rewind"
)

var (
	configPath string
	verbose    bool
	timezone   string
	year       int
	noProgress bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rewind",
		Short: "Year-in-review statistics for exported chats",
		Long: `Rewind - Turn exported conversation files into a yearly activity summary.
Messages, reactions, emoji, shared links, reply times and streaks for one calendar year.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default: ./rewind.yaml or ~/.config/rewind/rewind.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")
	flags.StringVar(&timezone, "timezone", "", "IANA time zone used for hours, days and the year window")
	flags.IntVar(&year, "year", 0, "Reporting year (default: resolved from today)")
	flags.String("reference-date", "", "Date (YYYY-MM-DD) the reporting year is resolved from (default: today)")
	flags.Int("top-domains", 0, "Number of shared link domains to rank (default: 5)")
	flags.BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")

	rootCmd.AddCommand(
		NewProcessCommand(),
		NewSummaryCommand(),
		NewValidateCommand(),
		NewScanCommand(),
		NewWatchCommand(),
	)

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runSettings is what a command needs to run the pipeline.
type runSettings struct {
	opts     rewind.Options
	logger   *log.Logger
	progress *progressReporter
}

// loadSettings layers config file, environment and flags into options.
// The progress reporter is nil when disabled.
func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(cmd.ErrOrStderr(), "rewind: ", log.LstdFlags)
	}
	opts.Logger = logger

	settings := &runSettings{opts: opts, logger: logger}
	if cfg.Progress && !noProgress {
		settings.progress = newProgressReporter(cmd.ErrOrStderr())
		settings.opts.Progress = settings.progress
	}

	logger.Printf("config: timezone=%s year=%d top_domains=%d reply_window=%s",
		cfg.Timezone, cfg.Year, cfg.TopDomains, cfg.ReplyWindow)
	return settings, nil
}

func (s *runSettings) report(message string, percent int) {
	if s.progress != nil {
		s.progress.Report(message, percent)
	}
}

func (s *runSettings) finish() {
	if s.progress != nil {
		s.progress.Finish()
	}
}
