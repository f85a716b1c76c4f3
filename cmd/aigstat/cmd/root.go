// Package cmd implements aigstat, a small demonstration CLI wired around
// the aig core library (spec.md §6.4: an external caller driving the
// public API). It is not part of the core; the core performs no I/O of
// its own.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is aigstat's base command: it takes no action on its own,
// deferring to the rewrite/balance/dam/fx subcommands.
var rootCmd = &cobra.Command{
	Use:   "aigstat",
	Short: "Run a synthcore/aig optimization pass over a demo netlist",
	Long: `aigstat loads a tiny built-in netlist notation (or a file in the same
notation), runs one optimization pass from the synthcore/aig core library
against it, and prints the before/after node count and depth.

It exists to exercise the public API end to end, not to read production
netlist formats — see "aigstat help" on any subcommand for its notation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./aigstat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose pass output")
	rootCmd.PersistentFlags().String("input", "", "netlist file (default: built-in sample)")
	_ = viper.BindPFlag("input", rootCmd.PersistentFlags().Lookup("input"))
}

// initConfig loads pass parameters from an optional YAML config file and
// AIGSTAT_-prefixed environment variables, the same binding shape
// perf-analysis/pkg/config uses for its own flag/env overlay.
func initConfig() error {
	viper.SetEnvPrefix("AIGSTAT")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("aigstat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil // an aigstat.yaml is optional; defaults apply
		}
		if cfgFile != "" {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}
	return nil
}

// verboseWriter returns os.Stdout when -v is set, otherwise io.Discard —
// the sink every pass's Verbose field writes its per-decision trace to.
func verboseWriter() io.Writer {
	if verbose {
		return os.Stdout
	}
	return io.Discard
}
