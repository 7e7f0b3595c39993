package mwpm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slowmatch/core"
	"github.com/katalvlaran/slowmatch/mwpm"
)

// edgeKeys returns the unordered {From.Key, To.Key} pair for an edge,
// substituting "boundary" for a nil endpoint, so assertions don't care which
// side of a CompressedEdge the flooder happened to settle on.
func edgeKeys(e core.CompressedEdge) (string, string) {
	from, to := "boundary", "boundary"
	if e.From != nil {
		from = e.From.Key
	}
	if e.To != nil {
		to = e.To.Key
	}

	return from, to
}

func assertMatchesPair(t *testing.T, edges []core.CompressedEdge, a, b string) {
	t.Helper()
	for _, e := range edges {
		x, y := edgeKeys(e)
		if (x == a && y == b) || (x == b && y == a) {
			return
		}
	}
	t.Fatalf("no matched edge between %q and %q in %v", a, b, edges)
}

func TestMatching_PairOnALine(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 5, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 1)
	assert.Equal(t, int64(5), result.TotalWeight)
	assert.Equal(t, uint64(0), result.Observables)
	assertMatchesPair(t, result.Edges, "a", "b")
}

func TestMatching_PairThroughAPassThroughNode(t *testing.T) {
	// b never fires, so the shortest path between the two detection events
	// passes through it; the resulting CompressedEdge still reports a and c
	// as its endpoints with the summed weight and xor'd observables.
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 3, 0b01))
	require.NoError(t, g.AddEdge("b", "c", 4, 0b11))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("c"))

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 1)
	assert.Equal(t, int64(7), result.TotalWeight)
	assert.Equal(t, uint64(0b10), result.Observables)
	assertMatchesPair(t, result.Edges, "a", "c")
}

func TestMatching_MatchToBoundary(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 10, 0))
	require.NoError(t, g.AddBoundaryEdge("a", 3, 0b1))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 1)
	assert.Equal(t, int64(3), result.TotalWeight)
	assert.Equal(t, uint64(0b1), result.Observables)

	from, to := edgeKeys(result.Edges[0])
	assert.Equal(t, "boundary", to)
	assert.Equal(t, "a", from)
}

func TestMatching_PrefersCheaperBoundaryOverDirectMatch(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 4, 0))
	require.NoError(t, g.AddBoundaryEdge("a", 1, 0))
	require.NoError(t, g.AddBoundaryEdge("b", 1, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))

	result, err := m.Decode()
	require.NoError(t, err)
	// Matching each node to the boundary separately (1+1=2) beats matching
	// them directly to each other (4).
	assert.Equal(t, int64(2), result.TotalWeight)
}

func TestMatching_IndependentPairsResolveSeparately(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 2, 0))
	require.NoError(t, g.AddEdge("c", "d", 6, 0))

	m := mwpm.NewMatching(g)
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.AddDetectionEvent(k))
	}

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 2)
	assert.Equal(t, int64(8), result.TotalWeight)
	assertMatchesPair(t, result.Edges, "a", "b")
	assertMatchesPair(t, result.Edges, "c", "d")
}

func TestMatching_StalledOnUnreachableOddSyndrome(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))

	_, err := m.Decode()
	assert.ErrorIs(t, err, mwpm.ErrStalled)
}

func TestMatching_UnknownNodeRejected(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))

	m := mwpm.NewMatching(g)
	err := m.AddDetectionEvent("z")
	assert.ErrorIs(t, err, mwpm.ErrUnknownNode)
}

func TestMatching_DecodeTwiceRequiresReset(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))

	_, err := m.Decode()
	require.NoError(t, err)

	_, err = m.Decode()
	assert.ErrorIs(t, err, mwpm.ErrAlreadyDecoding)

	m.Reset()
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))
	result, err := m.Decode()
	require.NoError(t, err)
	assert.Len(t, result.Edges, 1)
}

func TestMatching_EmptyRoundDecodesToNothing(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1, 0))

	m := mwpm.NewMatching(g)
	result, err := m.Decode()
	require.NoError(t, err)
	assert.Empty(t, result.Edges)
	assert.Zero(t, result.TotalWeight)
}

func TestMatching_SharedGraphAcrossRounds(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 7, 0))

	first := mwpm.NewMatching(g)
	require.NoError(t, first.AddDetectionEvent("a"))
	require.NoError(t, first.AddDetectionEvent("b"))
	firstResult, err := first.Decode()
	require.NoError(t, err)

	second := mwpm.NewMatching(g)
	require.NoError(t, second.AddDetectionEvent("a"))
	require.NoError(t, second.AddDetectionEvent("b"))
	secondResult, err := second.Decode()
	require.NoError(t, err)

	assert.Equal(t, firstResult.TotalWeight, secondResult.TotalWeight)
}

// TestMatching_AbsorbedMatchResolvesAtBoundary exercises a tree that absorbs
// an existing matched pair (handleTreeHitsMatch) and only then resolves by
// reaching the boundary, rather than by direct tree growth alone: a and b
// match each other first (weight 2), then c's growing tree absorbs that pair
// through b (weight 6) before a, now the tree's outer frontier, reaches the
// boundary (weight 3). The absorbed pair must shatter back into {b, c}, not
// get tangled up with a's own boundary match, and no detection event may go
// missing from the result.
func TestMatching_AbsorbedMatchResolvesAtBoundary(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 2, 0))
	require.NoError(t, g.AddEdge("b", "c", 6, 0))
	require.NoError(t, g.AddBoundaryEdge("a", 3, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))
	require.NoError(t, m.AddDetectionEvent("c"))

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 2)
	assert.Equal(t, int64(9), result.TotalWeight)
	assertMatchesPair(t, result.Edges, "b", "c")

	from, to := edgeKeys(result.Edges[0])
	if from != "a" && to != "a" {
		from, to = edgeKeys(result.Edges[1])
	}
	assert.True(t, from == "a" || to == "a")
	assert.True(t, from == "boundary" || to == "boundary")
}

// TestMatching_AbsorbedMatchResolvesByAugmentingPath is the same absorption
// as TestMatching_AbsorbedMatchResolvesAtBoundary, but the tree that did the
// absorbing ends up resolving against a second, independent tree instead of
// the boundary: c absorbs the existing a-b match through b, and a (now the
// absorbing tree's growing frontier) later meets d's own independently
// growing tree. The absorbed pair must still shatter back into {b, c} and the
// augmenting path must still pair {a, d}, with neither region matched twice.
func TestMatching_AbsorbedMatchResolvesByAugmentingPath(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 2, 0))
	require.NoError(t, g.AddEdge("b", "c", 6, 0))
	require.NoError(t, g.AddEdge("a", "d", 10, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))
	require.NoError(t, m.AddDetectionEvent("c"))
	require.NoError(t, m.AddDetectionEvent("d"))

	result, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, result.Edges, 2)
	assert.Equal(t, int64(16), result.TotalWeight)
	assertMatchesPair(t, result.Edges, "b", "c")
	assertMatchesPair(t, result.Edges, "a", "d")
}

func TestMatching_PartialMatchBeforeFullDecode(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 2, 0))
	require.NoError(t, g.AddEdge("c", "d", 2, 0))

	m := mwpm.NewMatching(g)
	require.NoError(t, m.AddDetectionEvent("a"))
	require.NoError(t, m.AddDetectionEvent("b"))
	require.NoError(t, m.AddDetectionEvent("c"))
	require.NoError(t, m.AddDetectionEvent("d"))

	partial := m.PartialMatch()
	assert.NotNil(t, partial)

	result, err := m.Decode()
	require.NoError(t, err)
	assert.Len(t, result.Edges, 2)
}
