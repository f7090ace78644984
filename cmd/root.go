package cmd

import (
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"podcatch/pkg/config"
)

var (
	cfgFile   string
	debugFlag bool

	// appConfig is populated by loadConfig before any RunE that needs
	// settings runs.
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podcatch",
	Short: "Track podcast feeds and download new episodes",
	Long: `Podcatch keeps a local database of podcast feeds, downloads new
episodes into per-podcast directories and fingerprints every file it
fetches, so finished downloads are never repeated.

Typical usage:
  podcatch add --name "My Show" --url https://example.com/feed.xml
  podcatch sync
  podcatch list
  podcatch serve`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config/podcatch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// loadConfig initializes configuration and logging. Commands that need
// settings call it at the top of their RunE; version and help never do.
func loadConfig() error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	appConfig = cfg

	setupLogging(debugFlag || cfg.Logging.Debug)
	return nil
}

func setupLogging(debug bool) {
	opts := []log.Option{log.Msec, log.LevelBraces}
	if debug {
		opts = append(opts, log.Debug, log.CallerFile, log.CallerFunc)
	}
	log.Setup(opts...)
}
