package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synthcore/aig"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Run a DAG-aware rewriting pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadNetlist()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report(out, "before", m)

		p := aig.DefaultRewriteParams()
		p.NCutsMax = uint8(viper.GetInt("rewrite.n_cuts_max"))
		if p.NCutsMax == 0 {
			p.NCutsMax = 8
		}
		p.Verbose = verbose
		p.Writer = verboseWriter()

		n := aig.Rewrite(m, p)
		m.Cleanup()
		report(out, "after", m)
		fmt.Fprintf(out, "replaced %d node(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
}
