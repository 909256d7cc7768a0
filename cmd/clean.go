package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/titanic-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/titanic-cli/internal/config"
	"github.com/KaramelBytes/titanic-cli/internal/source"
	"github.com/KaramelBytes/titanic-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clnRawPath  string
	clnOutPath  string
	clnFallback string
	clnDataHome string
	clnOffline  bool
	clnIQRK     float64
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the passenger dataset and write the processed CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		applyCleanFlags(cmd, c)
		log := newLogger(cmd, c)

		sel, err := selectorFor(c)
		if err != nil {
			return err
		}
		res, err := clean.Run(cmd.Context(), clean.Options{
			Selector: sel,
			OutPath:  c.OutPath,
			IQRK:     c.IQRK,
			Log:      log,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows x %d columns to %s\n", res.Rows, res.Cols, res.OutPath)
		return nil
	},
}

// applyCleanFlags overrides configuration with explicitly set flags.
func applyCleanFlags(cmd *cobra.Command, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("raw") {
		c.RawPath = clnRawPath
	}
	if f.Changed("out") {
		c.OutPath = clnOutPath
	}
	if f.Changed("fallback-dataset") {
		c.FallbackDataset = clnFallback
	}
	if f.Changed("data-home") {
		c.DataHome = clnDataHome
	}
	if f.Changed("offline") && clnOffline {
		c.DownloadFallback = false
	}
	if f.Changed("iqr-k") && clnIQRK > 0 {
		c.IQRK = clnIQRK
	}
}

func selectorFor(c *cfgpkg.Global) (*source.Selector, error) {
	home, err := utils.ExpandHome(c.DataHome)
	if err != nil {
		return nil, err
	}
	return &source.Selector{
		PrimaryPath: c.RawPath,
		Fallback: &source.NamedDataset{
			DatasetName: c.FallbackDataset,
			DataHome:    home,
			BaseURL:     c.DatasetBaseURL,
			Download:    c.DownloadFallback,
			Timeout:     time.Duration(c.HTTPTimeoutSec) * time.Second,
			Retries:     c.RetryMaxAttempts,
		},
	}, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&clnRawPath, "raw", "", "primary passenger CSV (default data/raw/titanic.csv)")
	cleanCmd.Flags().StringVarP(&clnOutPath, "out", "o", "", "cleaned CSV destination (default data/processed/titanic_clean.csv)")
	cleanCmd.Flags().StringVar(&clnFallback, "fallback-dataset", "", "reference dataset name used when the primary CSV is absent")
	cleanCmd.Flags().StringVar(&clnDataHome, "data-home", "", "cache directory for reference datasets")
	cleanCmd.Flags().BoolVar(&clnOffline, "offline", false, "never download the reference dataset")
	cleanCmd.Flags().Float64Var(&clnIQRK, "iqr-k", 0, "IQR multiplier for fare capping (default 3.0)")
}
