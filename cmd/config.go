package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/housing-eda/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set housing-eda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "dataset_url: %s\n", cfg.DatasetURL)
		fmt.Fprintf(out, "cache_dir: %s\n", cfg.CacheDir)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "chart_format: %s\n", cfg.ChartFormat)
		fmt.Fprintf(out, "chart_width_in: %.1f\n", cfg.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.1f\n", cfg.ChartHeightIn)
		fmt.Fprintf(out, "alpha: %.3f\n", cfg.Alpha)
		fmt.Fprintf(out, "equal_var: %t\n", cfg.EqualVar)
		fmt.Fprintf(out, "lenient_age: %t\n", cfg.LenientAge)
		fmt.Fprintf(out, "outlier_threshold: %.2f\n", cfg.OutlierThreshold)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
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
		switch key {
		case "dataset_url":
			cfg.DatasetURL = val
		case "cache_dir":
			cfg.CacheDir = val
		case "output_dir":
			cfg.OutputDir = val
		case "chart_format":
			cfg.ChartFormat = strings.ToLower(strings.TrimPrefix(val, "."))
		case "chart_width_in", "chart_height_in", "alpha", "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			switch key {
			case "chart_width_in":
				cfg.ChartWidthIn = f
			case "chart_height_in":
				cfg.ChartHeightIn = f
			case "alpha":
				cfg.Alpha = f
			default:
				cfg.OutlierThreshold = f
			}
		case "equal_var", "lenient_age":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "equal_var" {
				cfg.EqualVar = b
			} else {
				cfg.LenientAge = b
			}
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for http_timeout_sec: %w", err)
			}
			cfg.HTTPTimeoutSec = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
