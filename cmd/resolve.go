package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/nemo-provider/internal/provider"
)

var resolveForm string

var resolveCmd = &cobra.Command{
	Use:   "resolve <host token>",
	Short: "Check a composite host token and print the request it resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := provider.Resolve(args[0], resolveForm)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), spec.String())
		fmt.Fprintln(cmd.OutOrStdout(), "GET", spec.ResponsesURL())
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveForm, "form", "0", "form id")
	rootCmd.AddCommand(resolveCmd)
}
