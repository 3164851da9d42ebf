package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/housing-eda/internal/config"
	"github.com/KaramelBytes/housing-eda/internal/dataset"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "housing-eda",
	Short: "Exploratory analysis of the Boston housing dataset",
	Long: `housing-eda loads the Boston housing dataset, derives age groups, renders
descriptive charts and runs a t-test, a one-way ANOVA, a Pearson correlation
and a simple linear regression, printing results with commentary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.housing-eda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults via currentConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	log.WithFields(log.Fields{"cache": cfg.CacheDir, "url": cfg.DatasetURL}).Debug("config loaded")
}

// currentConfig returns the loaded configuration or built-in defaults when
// loading failed.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	timeout := 60
	if flagHTTPTimeoutSec > 0 {
		timeout = flagHTTPTimeoutSec
	}
	return &cfgpkg.Global{
		DatasetURL:       dataset.DefaultURL,
		OutputDir:        "output",
		ChartFormat:      "png",
		ChartWidthIn:     10,
		ChartHeightIn:    6,
		Alpha:            0.05,
		EqualVar:         true,
		OutlierThreshold: 3.5,
		HTTPTimeoutSec:   timeout,
	}
}

func newLoader() *dataset.Loader {
	c := currentConfig()
	return dataset.NewLoader(time.Duration(c.HTTPTimeoutSec)*time.Second, c.CacheDir)
}
