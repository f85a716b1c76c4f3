package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synthcore/aig"
)

var damCmd = &cobra.Command{
	Use:   "dam",
	Short: "Extract recurring two-literal divisors (the Dam pass)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadNetlist()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report(out, "before", m)

		maxNew := viper.GetInt("dam.max_new_nodes")
		if maxNew == 0 {
			maxNew = 1 << 20
		}
		p := aig.DamParams{UpdateLevel: true, Verbose: verbose, Writer: verboseWriter()}

		n := aig.DamExtract(m, maxNew, p)
		m.Cleanup()
		report(out, "after", m)
		fmt.Fprintf(out, "extracted %d divisor(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(damCmd)
}
