package netlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Sample(t *testing.T) {
	m, err := Parse(strings.NewReader(Sample))
	require.NoError(t, err)
	assert.Equal(t, 4, len(m.PIs()))
	assert.Equal(t, 2, len(m.POs()))
	assert.True(t, m.NodeCount() > 0)
}

func TestParse_ComplementAndConstants(t *testing.T) {
	m, err := Parse(strings.NewReader(`
pi a
and n1 = a 1
and n2 = a' 0
po n1
po n2
`))
	require.NoError(t, err)
	require.Len(t, m.POs(), 2)
}

func TestParse_UndefinedEdge(t *testing.T) {
	_, err := Parse(strings.NewReader("pi a\npo b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined edge")
}

func TestParse_MalformedGate(t *testing.T) {
	_, err := Parse(strings.NewReader("pi a\nand n1 a\n"))
	require.Error(t, err)
}

func TestParse_DuplicateName(t *testing.T) {
	_, err := Parse(strings.NewReader("pi a\nand n1 = a a\nand n1 = a a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redefined")
}
