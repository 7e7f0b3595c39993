// Package slowmatch implements continuous-time minimum-weight perfect
// matching for decoding quantum-error-correction syndromes.
//
// It brings together a detector graph (immutable adjacency with weights and
// observable masks), an event-driven flooder simulating dual-variable
// region growth, an alternating-tree blossom manager implementing Edmonds'
// algorithm geometrically, and a top-level Matching type tying them
// together: add detection events, decode, get a matching.
//
// Event tie-breaking is deterministic, so decoding the same graph and
// detection events twice always produces the same matching. A Matching can
// be reset and reused for another round against the same graph.
//
// Everything is organized under four subpackages:
//
//	varying/ — linear-in-time scalar arithmetic shared by regions and events
//	core/    — DetectorNode graph, GraphFillRegion, CompressedEdge, AltTreeNode
//	flooder/ — the event scheduler that grows and shrinks regions over time
//	mwpm/    — the alternating-tree state machine and the Matching entry point
//
// Quick sketch:
//
//	g := core.NewGraph()
//	g.AddEdge("d0", "d1", 2, 0)
//	m := mwpm.NewMatching(g)
//	m.AddDetectionEvent("d0")
//	m.AddDetectionEvent("d1")
//	result, err := m.Decode()
//
// Dive into SPEC_FULL.md and DESIGN.md for the full design rationale.
package slowmatch
