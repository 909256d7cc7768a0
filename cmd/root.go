package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/titanic-cli/internal/config"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagLogJSON bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "titanic",
	Short: "Clean the Titanic passenger dataset and score survival",
	Long: `titanic prepares the Titanic passenger table for modeling (deduplication,
imputation, outlier capping) and scores cleaned rows with a trained model artifact.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.titanic/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// settings returns a copy of the loaded configuration so flag overrides
// stay local to one invocation.
func settings() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	cp := *cfg
	return &cp, nil
}

func newLogger(cmd *cobra.Command, c *cfgpkg.Global) logger.Logger {
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	return logger.New(logger.Config{
		Level:  level,
		JSON:   c.LogJSON || flagLogJSON,
		Output: cmd.ErrOrStderr(),
	})
}
