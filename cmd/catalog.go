package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/granthours/core/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the default grant names",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range model.DefaultCatalog {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
