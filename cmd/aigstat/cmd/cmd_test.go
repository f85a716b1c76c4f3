package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes name against rootCmd and returns its combined output,
// resetting viper's "input" binding first so each test runs over the
// built-in sample netlist.
func runCmd(t *testing.T, name string) string {
	t.Helper()
	viper.Set("input", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{name})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRewriteCmd_RunsOverSample(t *testing.T) {
	out := runCmd(t, "rewrite")
	assert.Contains(t, out, "replaced")
}

func TestBalanceCmd_RunsOverSample(t *testing.T) {
	out := runCmd(t, "balance")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestDamCmd_RunsOverSample(t *testing.T) {
	out := runCmd(t, "dam")
	assert.Contains(t, out, "extracted")
}

func TestFxCmd_ExtractsSharedPair(t *testing.T) {
	out := runCmd(t, "fx")
	assert.Contains(t, out, "extracted 1 divisor")
}
