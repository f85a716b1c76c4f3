package cmd

import (
	"github.com/spf13/cobra"

	"github.com/synthcore/aig"
)

// sampleCubes is a small built-in SOP cube array (spec.md §3.6 format:
// entry 0 of each row is the owning node id, the rest are sorted
// literals) — fast_extract operates on cube arrays directly rather than
// an AIG, so it has its own demo input instead of reusing the netlist
// notation the other subcommands share. This is the two-cube worked
// example from spec.md §8.4 scenario 2: owner 10's cubes (2,4) and (2,6)
// share literal 2, so they factor into a new variable w = 2·(4 ∪ 6).
var sampleCubes = [][]int32{
	{10, 2, 4},
	{10, 2, 6},
}

var fxCmd = &cobra.Command{
	Use:   "fx",
	Short: "Run algebraic fast_extract over a sample SOP cube array",
	RunE: func(cmd *cobra.Command, args []string) error {
		cubes := make([][]int32, len(sampleCubes))
		for i, c := range sampleCubes {
			cubes[i] = append([]int32(nil), c...)
		}

		litsBefore := 0
		for _, c := range cubes {
			litsBefore += len(c) - 1
		}
		cmd.Printf("before: %d cubes, %d literals\n", len(cubes), litsBefore)

		p := aig.FxParams{Verbose: verbose, Writer: verboseWriter()}
		n := aig.FastExtract(&cubes, 10, p)

		litsAfter := 0
		for _, c := range cubes {
			litsAfter += len(c) - 1
		}
		cmd.Printf("after:  %d cubes, %d literals\n", len(cubes), litsAfter)
		cmd.Printf("extracted %d divisor(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fxCmd)
}
