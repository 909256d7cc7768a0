package cmd

import (
	"github.com/KaramelBytes/titanic-cli/internal/predict"
	"github.com/spf13/cobra"
)

var (
	prdModelPath string
	prdInput     string
	prdOutput    string
	prdThreshold float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a CSV with a trained model artifact",
	Long: `Loads the model artifact, scores every row of --input and writes the rows
with survival_proba and survived_pred columns appended.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("model") {
			c.ModelPath = prdModelPath
		}
		if f.Changed("output") {
			c.PredictOutput = prdOutput
		}
		var threshold float64
		if f.Changed("threshold") {
			threshold = prdThreshold
		}
		return predict.Run(predict.Options{
			ModelPath:        c.ModelPath,
			InputPath:        prdInput,
			OutputPath:       c.PredictOutput,
			Threshold:        threshold,
			DefaultThreshold: c.Threshold,
			Stdout:           cmd.OutOrStdout(),
			Log:              newLogger(cmd, c),
		})
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&prdModelPath, "model", "", "model artifact (.json or .yaml)")
	predictCmd.Flags().StringVar(&prdInput, "input", "", "CSV to score")
	predictCmd.Flags().StringVar(&prdOutput, "output", "", "destination CSV for predictions")
	predictCmd.Flags().Float64Var(&prdThreshold, "threshold", 0, "decision threshold (0 uses the model's)")
	_ = predictCmd.MarkFlagRequired("input")
}
