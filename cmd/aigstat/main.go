// Command aigstat demonstrates the synthcore/aig core library end to end:
// it loads a tiny built-in netlist notation, runs one optimization pass,
// and prints the before/after node count and depth. It is a companion
// CLI shipped in the same module, not part of the core (spec.md §6.4).
package main

import "github.com/synthcore/aig/cmd/aigstat/cmd"

func main() {
	cmd.Execute()
}
