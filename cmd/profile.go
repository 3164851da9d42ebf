package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/housing-eda/internal/analysis"
	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/utils"
)

var (
	profFile          string
	profOutputPath    string
	profOutlierThr    float64
	profTopPairs      int
	profMaxCategories int
	profLenientAge    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Summarize the dataset schema and descriptive statistics as Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		tbl, err := newLoader().Load(cmd.Context(), dataset.Source{File: profFile, URL: c.DatasetURL})
		if err != nil {
			return err
		}
		tbl, err = tbl.WithAgeGroups(dataset.BucketOptions{Unknown: profLenientAge || c.LenientAge})
		if err != nil {
			return err
		}
		opt := analysis.ProfileOptions{
			OutlierThreshold: c.OutlierThreshold,
			MaxCategories:    profMaxCategories,
			TopPairs:         profTopPairs,
		}
		if cmd.Flags().Changed("outlier-threshold") {
			opt.OutlierThreshold = profOutlierThr
		}
		p, err := analysis.ProfileTable(tbl, opt)
		if err != nil {
			return err
		}
		md := p.Markdown(opt.TopPairs)

		out := cmd.OutOrStdout()
		if profOutputPath == "" {
			fmt.Fprintln(out, md)
			return nil
		}
		if err := utils.EnsureDir(filepath.Dir(profOutputPath)); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote profile to %s\n", profOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profFile, "file", "f", "", "read the dataset from a local CSV instead of downloading it")
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().Float64Var(&profOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	profileCmd.Flags().IntVar(&profTopPairs, "top-pairs", 10, "number of correlation pairs to list")
	profileCmd.Flags().IntVar(&profMaxCategories, "max-categories", 10, "list value counts for columns with at most this many distinct values")
	profileCmd.Flags().BoolVar(&profLenientAge, "lenient-age", false, "label AGE values outside (0, 100] as unknown instead of failing")
}
