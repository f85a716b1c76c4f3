package cmd

import (
	"github.com/spf13/cobra"

	"github.com/synthcore/aig"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Rebalance associative AND/XOR supergates into shallow trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadNetlist()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report(out, "before", m)

		neu := aig.Balance(m, true)
		report(out, "after", neu)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
