package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/titanic-cli/internal/analysis"
	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputPath string
	repDelimiter  string
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Summarize a CSV: shape, column schema and missing values",
	Long: `Profiles the given CSV. Without an argument the passenger source is selected
the same way clean does it (primary CSV, then the reference dataset).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		opt := dataset.ReadOptions{}
		switch repDelimiter {
		case "", ",":
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", repDelimiter)
		}

		var (
			ds   *dataset.Dataset
			name string
		)
		if len(args) == 1 {
			name = filepath.Base(args[0])
			ds, err = dataset.Load(args[0], opt)
			if err != nil {
				return err
			}
		} else {
			sel, err := selectorFor(c)
			if err != nil {
				return err
			}
			sel.Log = newLogger(cmd, c)
			d, origin, err := sel.Select(cmd.Context())
			if err != nil {
				return err
			}
			ds = d
			name = fmt.Sprintf("titanic (%s)", origin)
		}

		md := analysis.Profile(ds, name).Markdown()
		if repOutputPath != "" {
			if err := utils.EnsureDir(filepath.Dir(repOutputPath)); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(repOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", repOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	reportCmd.Flags().StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
}
