package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/titanic-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set titanic configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "raw_path: %s\n", c.RawPath)
		fmt.Fprintf(out, "out_path: %s\n", c.OutPath)
		fmt.Fprintf(out, "fallback_dataset: %s\n", c.FallbackDataset)
		fmt.Fprintf(out, "data_home: %s\n", c.DataHome)
		fmt.Fprintf(out, "dataset_base_url: %s\n", c.DatasetBaseURL)
		fmt.Fprintf(out, "download_fallback: %t\n", c.DownloadFallback)
		fmt.Fprintf(out, "iqr_k: %.3f\n", c.IQRK)
		fmt.Fprintf(out, "model_path: %s\n", c.ModelPath)
		fmt.Fprintf(out, "predict_output: %s\n", c.PredictOutput)
		fmt.Fprintf(out, "threshold: %.3f\n", c.Threshold)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_json: %t\n", c.LogJSON)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", c.RetryMaxAttempts)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "raw_path":
		c.RawPath = val
	case "out_path":
		c.OutPath = val
	case "fallback_dataset":
		c.FallbackDataset = val
	case "data_home":
		c.DataHome = val
	case "dataset_base_url":
		c.DatasetBaseURL = strings.TrimRight(val, "/")
	case "download_fallback":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for download_fallback: %v", val)
		}
		c.DownloadFallback = b
	case "iqr_k":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for iqr_k: %v", val)
		}
		c.IQRK = f
	case "model_path":
		c.ModelPath = val
	case "predict_output":
		c.PredictOutput = val
	case "threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 || f >= 1 {
			return fmt.Errorf("invalid threshold: %v (use a value in (0,1))", val)
		}
		c.Threshold = f
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_json":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for log_json: %v", val)
		}
		c.LogJSON = b
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "retry_max_attempts":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for retry_max_attempts: %v", val)
		}
		c.RetryMaxAttempts = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
