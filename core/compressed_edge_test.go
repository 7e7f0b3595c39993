package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slowmatch/core"
)

func buildLineGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 2, 0b01))
	require.NoError(t, g.AddEdge("b", "c", 3, 0b10))
	require.NoError(t, g.AddBoundaryEdge("c", 4, 0b11))

	return g
}

func TestCompressedEdge_ExpandBetweenNodes(t *testing.T) {
	g := buildLineGraph(t)
	a, err := g.Node("a")
	require.NoError(t, err)
	c, err := g.Node("c")
	require.NoError(t, err)

	edge := core.CompressedEdge{From: a, To: c, Observables: 0b11, Distance: 5}
	path, err := edge.Expand()
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, "a", path[0].From)
	assert.Equal(t, "b", path[0].To)
	assert.Equal(t, "b", path[1].From)
	assert.Equal(t, "c", path[1].To)
}

func TestCompressedEdge_ExpandToBoundary(t *testing.T) {
	g := buildLineGraph(t)
	a, err := g.Node("a")
	require.NoError(t, err)

	edge := core.CompressedEdge{From: a, To: nil, Observables: 0, Distance: 9}
	path, err := edge.Expand()
	require.NoError(t, err)
	require.NotEmpty(t, path)
	last := path[len(path)-1]
	assert.True(t, last.ToIsBoundary)
	assert.Equal(t, "c", last.From)
}

func TestCompressedEdge_ExpandNoPathReturnsErrNoPath(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))
	require.NoError(t, g.AddEdge("x", "y", 1, 0))
	a, err := g.Node("a")
	require.NoError(t, err)
	x, err := g.Node("x")
	require.NoError(t, err)

	edge := core.CompressedEdge{From: a, To: x}
	_, err = edge.Expand()
	assert.ErrorIs(t, err, core.ErrNoPath)
}

func TestCompressedEdge_ReversedAndMerge(t *testing.T) {
	g := buildLineGraph(t)
	a, err := g.Node("a")
	require.NoError(t, err)
	b, err := g.Node("b")
	require.NoError(t, err)
	c, err := g.Node("c")
	require.NoError(t, err)

	ab := core.CompressedEdge{From: a, To: b, Observables: 0b01, Distance: 2}
	bc := core.CompressedEdge{From: b, To: c, Observables: 0b10, Distance: 3}

	merged := ab.Merge(bc)
	assert.Equal(t, a, merged.From)
	assert.Equal(t, c, merged.To)
	assert.Equal(t, uint64(0b11), merged.Observables)
	assert.Equal(t, int64(5), merged.Distance)

	rev := ab.Reversed()
	assert.Equal(t, b, rev.From)
	assert.Equal(t, a, rev.To)
	assert.Equal(t, ab.Distance, rev.Distance)
}
