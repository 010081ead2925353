// Package cli contains the newsboard commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/newsboard/internal/config"
	"github.com/Adda-Baaj/newsboard/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo is called from main with values injected at build time.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

type rootFlags struct {
	configFile     string
	envFile        string
	logLevel       string
	logFormat      string
	enrich         bool
	publishersFile string
}

// NewRootCommand builds the command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "newsboard",
		Short: "Browse, filter and vote on news headlines",
		Long: `newsboard fetches articles from a NewsAPI-compatible service and lets you
sort them by time or votes, filter titles and vote them up or down.

Example usage:
  newsboard                         # open the interactive board
  newsboard articles --sort votes   # print the ordered list
  newsboard sources -o yaml         # list available sources`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is ./newsboard.yaml)")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file to load (default is ./.env when present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: console or json")
	pf.BoolVar(&flags.enrich, "enrich", false, "scrape article pages to fill missing descriptions")
	pf.StringVar(&flags.publishersFile, "publishers", "", "publishers file (YAML or JSON) for exporting events")

	browse := newBrowseCommand(flags)
	root.RunE = browse.RunE

	root.AddCommand(
		browse,
		newArticlesCommand(flags),
		newSourcesCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// setup loads config and builds the logger and app for a command.
func setup(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	overrides := map[string]any{}
	if flags.logLevel != "" {
		overrides["log.level"] = flags.logLevel
	}
	if flags.logFormat != "" {
		overrides["log.format"] = flags.logFormat
	}
	if cmd.Flags().Changed("enrich") {
		overrides["enrich.enabled"] = flags.enrich
	}
	if flags.publishersFile != "" {
		overrides["publishers.file"] = flags.publishersFile
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: flags.configFile,
		EnvFile:    flags.envFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return newApp(cmd.Context(), cfg, log)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsboard %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
