package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slowmatch/core"
	"github.com/katalvlaran/slowmatch/varying"
)

func TestGraphFillRegion_ShellAreaClaimAndCleanup(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))
	a, err := g.Node("a")
	require.NoError(t, err)
	b, err := g.Node("b")
	require.NoError(t, err)

	r := core.NewRegion(1, a, varying.NewLinear(0, 1, 0))
	r.AddToShellArea(a, a, 0, 0)
	r.AddToShellArea(b, a, 1, 0)

	assert.False(t, a.IsEmpty())
	assert.False(t, b.IsEmpty())
	assert.Same(t, r, a.TopRegion())
	assert.True(t, a.IsOwnedBy(r))
	assert.True(t, a.HasSameOwnerAs(b))

	r.Cleanup()
	assert.True(t, a.IsEmpty())
	assert.True(t, b.IsEmpty())
}

func TestGraphFillRegion_TotalRadiusSumsBlossomAncestors(t *testing.T) {
	child := core.NewRegion(1, nil, varying.NewLinear(2, 1, 0))
	blossom := core.NewBlossomRegion(2, core.NewCycle(
		[]*core.GraphFillRegion{child, core.NewRegion(3, nil, varying.New(0)), core.NewRegion(4, nil, varying.New(0))},
		[]core.CompressedEdge{{}, {}, {}},
	), varying.NewLinear(5, 2, 0))

	assert.Same(t, blossom, child.BlossomParent())
	total := child.TotalRadius()
	assert.Equal(t, 7.0, total.At(0))
	assert.Equal(t, 3.0, total.Slope())
}

func TestDetectorNode_LocalRadiusSubtractsDistance(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 4, 0))
	a, err := g.Node("a")
	require.NoError(t, err)
	b, err := g.Node("b")
	require.NoError(t, err)

	r := core.NewRegion(1, a, varying.NewLinear(0, 1, 0))
	r.AddToShellArea(a, a, 0, 0)
	r.AddToShellArea(b, a, 4, 0)

	lr := b.LocalRadius()
	assert.Equal(t, -4.0, lr.At(0))
	assert.Equal(t, 0.0, lr.At(4))
}
