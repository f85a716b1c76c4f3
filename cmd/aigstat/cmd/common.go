package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/synthcore/aig"
	"github.com/synthcore/aig/cmd/aigstat/netlist"
)

// loadNetlist opens the --input file if one was given, falling back to
// the built-in sample netlist otherwise.
func loadNetlist() (*aig.Manager, error) {
	path := viper.GetString("input")
	if path == "" {
		return netlist.Parse(strings.NewReader(netlist.Sample))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return netlist.Parse(f)
}

// report prints a network's node count and combinational depth labeled
// with stage, the before/after shape every subcommand prints.
func report(w io.Writer, stage string, m *aig.Manager) {
	fmt.Fprintf(w, "%-6s nodes=%-5d depth=%d\n", stage, m.NodeCount(), m.Depth())
}
