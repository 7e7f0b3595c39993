// Package core holds the mutually-referential data model shared by the
// flooder and the MWPM state machine: DetectorNode, Graph, CompressedEdge,
// RegionPath, GraphFillRegion and AltTreeNode all point at each other
// (a region's alt_tree_node points back at an AltTreeNode, which points at
// the region; a node's region_that_arrived points at a region, which lists
// the node in its shell area). Go has no forward-declared cross-package
// types, so — exactly as the teacher keeps Vertex, Edge and Graph together
// in lvlath's own core package because of shared locking and identity —
// this package keeps the whole cyclic quintet together.
//
// Graph is immutable once built is not literally enforced by this package
// (edges are added incrementally, as lvlath's core.Graph allows), but no
// method here ever removes a node or edge: callers build once via AddEdge /
// AddBoundaryEdge, then hand the graph to a flooder.Flooder for repeated,
// reusable decoding rounds.
package core

import (
	"fmt"
	"sort"
	"sync"
)

// GraphOption configures a Graph before first use.
type GraphOption func(g *Graph)

// WithCapacityHint preallocates node storage for n detectors, avoiding map
// growth churn for callers that know their detector count up front.
func WithCapacityHint(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.nodes = make(map[string]*DetectorNode, n)
		}
	}
}

// Graph is the immutable (post-construction) weighted detector graph: the
// vertices are detector checks, edges are physical error mechanisms, and
// each edge carries an integer weight and a bitmask of the logical
// observables it crosses.
//
// muNodes guards nodes and every DetectorNode's adjacency slice lengths
// during construction. Once a decode round begins (a flooder has been
// created over this Graph), callers must not call AddEdge/AddBoundaryEdge
// concurrently with decoding — per §5, the graph is shared read-only across
// concurrent decoders, but is not safe to mutate and decode at once.
type Graph struct {
	muNodes sync.RWMutex

	nodes          map[string]*DetectorNode
	numObservables int
}

// NewGraph creates an empty detector graph.
// Complexity: O(1).
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodes: make(map[string]*DetectorNode),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// getOrCreate returns the DetectorNode for key, creating it (with an empty
// adjacency list) if this is the first time key has been seen. Caller must
// hold muNodes for writing.
func (g *Graph) getOrCreate(key string) *DetectorNode {
	if n, ok := g.nodes[key]; ok {
		return n
	}
	n := &DetectorNode{Key: key, graph: g}
	g.nodes[key] = n

	return n
}

// AddEdge links u and v symmetrically with the given weight and observable
// mask, recording each side's back-index into the other so that, given a
// node and a neighbor slot, the inverse slot can be located in O(1).
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, v string, weight int64, observables uint64) error {
	if u == "" || v == "" {
		return ErrEmptyNodeKey
	}
	if weight < 0 {
		return fmt.Errorf("%w: edge %s-%s weight=%d", ErrNegativeWeight, u, v, weight)
	}

	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	un := g.getOrCreate(u)
	vn := g.getOrCreate(v)

	un.neighbors = append(un.neighbors, vn)
	un.neighborWeights = append(un.neighborWeights, weight)
	un.neighborObservables = append(un.neighborObservables, observables)
	un.neighborSchedule = append(un.neighborSchedule, nil)
	un.neighborBackIndex = append(un.neighborBackIndex, len(vn.neighbors))

	vn.neighbors = append(vn.neighbors, un)
	vn.neighborWeights = append(vn.neighborWeights, weight)
	vn.neighborObservables = append(vn.neighborObservables, observables)
	vn.neighborSchedule = append(vn.neighborSchedule, nil)
	vn.neighborBackIndex = append(vn.neighborBackIndex, len(un.neighbors)-1)

	g.bumpNumObservables(observables)

	return nil
}

// AddBoundaryEdge records a neighbor slot on u whose other side is the
// boundary (represented as a nil *DetectorNode neighbor).
//
// Complexity: O(1) amortized.
func (g *Graph) AddBoundaryEdge(u string, weight int64, observables uint64) error {
	if u == "" {
		return ErrEmptyNodeKey
	}
	if weight < 0 {
		return fmt.Errorf("%w: boundary edge %s weight=%d", ErrNegativeWeight, u, weight)
	}

	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	un := g.getOrCreate(u)
	un.neighbors = append(un.neighbors, nil)
	un.neighborWeights = append(un.neighborWeights, weight)
	un.neighborObservables = append(un.neighborObservables, observables)
	un.neighborSchedule = append(un.neighborSchedule, nil)
	un.neighborBackIndex = append(un.neighborBackIndex, -1)

	g.bumpNumObservables(observables)

	return nil
}

// bumpNumObservables updates the observable count to cover the highest bit
// set in mask. Caller must hold muNodes.
func (g *Graph) bumpNumObservables(mask uint64) {
	n := bitLen(mask)
	if n > g.numObservables {
		g.numObservables = n
	}
}

func bitLen(mask uint64) int {
	n := 0
	for mask != 0 {
		n++
		mask >>= 1
	}

	return n
}

// NumObservables returns one more than the highest observable bit index used
// by any edge added so far.
func (g *Graph) NumObservables() int {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	return g.numObservables
}

// HasNode reports whether key has been mentioned by some AddEdge or
// AddBoundaryEdge call.
func (g *Graph) HasNode(key string) bool {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	_, ok := g.nodes[key]

	return ok
}

// Node returns the DetectorNode for key, or ErrNodeNotFound.
func (g *Graph) Node(key string) (*DetectorNode, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	n, ok := g.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}

	return n, nil
}

// allNodes returns every node in the graph, in no particular order. Used
// internally by CompressedEdge.Expand to seed and run Dijkstra's algorithm.
func (g *Graph) allNodes() []*DetectorNode {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	out := make([]*DetectorNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}

	return out
}

// GraphEdge is a single, de-duplicated primitive edge as returned by Edges.
type GraphEdge struct {
	From         string
	To           string // ignored when ToIsBoundary
	ToIsBoundary bool
	Weight       int64
	Observables  uint64
}

// Edges iterates every edge exactly once (boundary edges included), in no
// particular order beyond being deterministic for a fixed construction
// order.
//
// Complexity: O(V + E).
func (g *Graph) Edges() []GraphEdge {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	var out []GraphEdge
	seenPairs := make(map[[2]string]bool)
	keys := make([]string, 0, len(g.nodes))
	for key := range g.nodes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		n := g.nodes[key]
		for i, nb := range n.neighbors {
			if nb == nil {
				out = append(out, GraphEdge{
					From:         key,
					ToIsBoundary: true,
					Weight:       n.neighborWeights[i],
					Observables:  n.neighborObservables[i],
				})
				continue
			}
			pair := [2]string{key, nb.Key}
			revPair := [2]string{nb.Key, key}
			if seenPairs[pair] || seenPairs[revPair] {
				continue
			}
			seenPairs[pair] = true
			out = append(out, GraphEdge{
				From:        key,
				To:          nb.Key,
				Weight:      n.neighborWeights[i],
				Observables: n.neighborObservables[i],
			})
		}
	}

	return out
}
