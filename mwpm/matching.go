package mwpm

import (
	"fmt"

	"github.com/katalvlaran/slowmatch/core"
)

// Result is the outcome of a Decode or PartialMatch call: every matched
// CompressedEdge (boundary matches have a nil To), the sum of their
// distances, and the xor of all observables crossed. Each edge can be
// expanded on demand into its underlying primitive edges via
// CompressedEdge.Expand.
type Result struct {
	Edges       []core.CompressedEdge
	TotalWeight int64
	Observables uint64
}

// Matching is the external, reusable entry point: wrap a shared *core.Graph
// (built once with AddEdge/AddBoundaryEdge and safe to reuse read-only
// across many rounds), feed one round's detection events with
// AddDetectionEvent, then call Decode. Call Reset to run another round
// against the same graph.
type Matching struct {
	graph *core.Graph
	opts  Options

	eng     *engine
	decoded bool
}

// NewMatching wraps g — typically shared across many decoding rounds — in a
// fresh Matching with no detection events yet recorded.
func NewMatching(g *core.Graph, opts ...Option) *Matching {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	return &Matching{graph: g, opts: o}
}

// AddEdge records a weighted edge between two detector nodes (created on
// first reference) on the underlying graph, optionally flipping a set of
// observables when a syndrome's shortest path crosses it. Since the graph
// is shared across rounds, this should typically happen before any round's
// detection events are added.
func (m *Matching) AddEdge(u, v string, weight int64, observables uint64) error {
	return m.graph.AddEdge(u, v, weight, observables)
}

// AddBoundaryEdge records a weighted edge from a detector node to the
// boundary (a virtual node with no identity of its own, used to match an
// odd syndrome out).
func (m *Matching) AddBoundaryEdge(node string, weight int64, observables uint64) error {
	return m.graph.AddBoundaryEdge(node, weight, observables)
}

// AddDetectionEvent marks node as having fired in the round being decoded.
// Every node with an odd number of detection events across a round must be
// paired up by Decode.
func (m *Matching) AddDetectionEvent(node string) error {
	if m.decoded {
		return ErrAlreadyDecoding
	}
	if !m.graph.HasNode(node) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, node)
	}

	if m.eng == nil {
		m.eng = newEngine(m.graph, m.opts.flooderOpts...)
	}

	return m.eng.addDetectionEvent(node)
}

// Decode runs the matching to completion and returns the resulting edges.
// A Matching can only be decoded once; call Reset to reuse it for a new
// round. Returns ErrStalled if events ran out while detection events
// remained unmatched (the graph has no perfect matching for this round,
// per spec §7's termination-anomaly case).
func (m *Matching) Decode() (Result, error) {
	if m.decoded {
		return Result{}, ErrAlreadyDecoding
	}
	if m.eng == nil {
		m.decoded = true

		return Result{}, nil
	}

	if err := m.eng.run(); err != nil {
		return Result{}, err
	}
	m.decoded = true

	return m.buildResult(), nil
}

// PartialMatch reads off whatever matches the engine has already resolved
// without requiring every detection event to have found its partner —
// mirroring the underlying simulation's ability to yield a valid (if not
// yet total) matching mid-round. Unlike Decode, it may be called
// repeatedly and does not mark the Matching as decoded.
func (m *Matching) PartialMatch() Result {
	if m.eng == nil {
		return Result{}
	}

	return m.buildResult()
}

// Reset discards all detection events and recorded matches, readying the
// Matching for a new round over the same, unchanged detector graph.
func (m *Matching) Reset() {
	m.eng = nil
	m.decoded = false
}

// buildResult renders the engine's recorded finalMatches into a Result.
// Every recorded CompressedEdge already carries concrete *DetectorNode
// endpoints regardless of how many blossom layers its composing edges
// passed through — Merge only ever composes edges whose endpoints trace
// back to a real wavefront meeting point — so no blossom descent is needed
// here, only collecting Edge as-is.
func (m *Matching) buildResult() Result {
	seen := make(map[*core.GraphFillRegion]bool)
	var res Result

	for _, fm := range m.eng.finalMatches {
		if seen[fm.Region] {
			continue
		}
		seen[fm.Region] = true
		if fm.Partner != nil {
			seen[fm.Partner] = true
		}

		res.Edges = append(res.Edges, fm.Edge)
		res.TotalWeight += fm.Edge.Distance
		res.Observables ^= fm.Edge.Observables
	}

	return res
}
