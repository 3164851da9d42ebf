package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the dataset into the local cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := currentConfig().DatasetURL
		if fetchURL != "" {
			u = fetchURL
		}
		p, err := newLoader().Fetch(cmd.Context(), u)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cached dataset at %s\n", p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (overrides config)")
}
