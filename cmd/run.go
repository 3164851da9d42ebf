package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/housing-eda/internal/analysis"
	"github.com/KaramelBytes/housing-eda/internal/charts"
	"github.com/KaramelBytes/housing-eda/internal/dataset"
)

var (
	runFile       string
	runURL        string
	runOutDir     string
	runNoCharts   bool
	runWelch      bool
	runAlpha      float64
	runJSONPath   string
	runLenientAge bool
	runRefresh    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the dataset, render charts and run the four tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		src := dataset.Source{File: runFile, URL: c.DatasetURL, Refresh: runRefresh}
		if runURL != "" {
			src.URL = runURL
		}
		tbl, err := newLoader().Load(cmd.Context(), src)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"source": tbl.Source(), "rows": tbl.Rows()}).Info("dataset loaded")

		opt := analysis.DefaultOptions()
		opt.Alpha = c.Alpha
		opt.EqualVariance = c.EqualVar
		opt.LenientAge = c.LenientAge
		if cmd.Flags().Changed("alpha") {
			opt.Alpha = runAlpha
		}
		if runWelch {
			opt.EqualVariance = false
		}
		if runLenientAge {
			opt.LenientAge = true
		}
		if !runNoCharts {
			dir := c.OutputDir
			if runOutDir != "" {
				dir = runOutDir
			}
			co := charts.DefaultOptions(dir)
			co.Format = c.ChartFormat
			co.Width = vg.Length(c.ChartWidthIn) * vg.Inch
			co.Height = vg.Length(c.ChartHeightIn) * vg.Inch
			opt.Charts = &co
		}

		res, err := analysis.Run(tbl, opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		colorize := !color.NoColor && out == os.Stdout
		if err := analysis.WriteText(out, res, analysis.TextOptions{Color: colorize}); err != nil {
			return err
		}
		if runJSONPath != "" {
			if err := analysis.WriteJSON(runJSONPath, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote results to %s\n", runJSONPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "read the dataset from a local CSV instead of downloading it")
	runCmd.Flags().StringVar(&runURL, "url", "", "dataset URL (overrides config)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "directory for chart files (overrides config)")
	runCmd.Flags().BoolVar(&runNoCharts, "no-charts", false, "skip chart rendering")
	runCmd.Flags().BoolVar(&runWelch, "welch", false, "use Welch's unequal-variance t-test")
	runCmd.Flags().Float64Var(&runAlpha, "alpha", 0.05, "significance level for the commentary")
	runCmd.Flags().StringVar(&runJSONPath, "json", "", "also write results as JSON to this path")
	runCmd.Flags().BoolVar(&runLenientAge, "lenient-age", false, "label AGE values outside (0, 100] as unknown instead of failing")
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "download again even if a cached copy exists")
}
