package core

import "github.com/katalvlaran/slowmatch/varying"

// DetectorNode is a single detector check: a vertex of the graph together
// with the per-neighbor edge data needed by the flooder (weight, observable
// mask, back-index, scheduled tentative event slot) and the transient
// "discovery" fields a GraphFillRegion's growing wavefront stamps onto it as
// it claims territory.
//
// Discovery fields (reachedFromSource, distanceFromSource,
// observablesCrossedFromSource, regionThatArrived) are simultaneously set or
// cleared together: reachedFromSource == nil is the sentinel for "this node
// is not presently claimed by any region's shell area".
type DetectorNode struct {
	Key string

	graph *Graph

	// Adjacency, parallel slices indexed by neighbor slot. A nil entry in
	// neighbors denotes a boundary edge (the node can discharge to the
	// boundary across that slot).
	neighbors           []*DetectorNode
	neighborWeights     []int64
	neighborObservables []uint64
	neighborBackIndex   []int // index of this node in neighbors[i]'s own adjacency; -1 for boundary slots
	neighborSchedule    []*NeighborInteractionEvent

	// Discovery / shell-area claim, set by GraphFillRegion.AddToShellArea /
	// cleared by GraphFillRegion.Cleanup.
	reachedFromSource            *DetectorNode
	distanceFromSource           int64
	observablesCrossedFromSource uint64
	regionThatArrived            *GraphFillRegion

	// searchDist/searchPredNode/searchPredSlot/searchSettled are scratch
	// state for the Dijkstra search performed by CompressedEdge.Expand; they
	// are meaningful only during a single Expand call and are reset by
	// resetSearchState before and after use.
	searchDist     int64
	searchHasDist  bool
	searchSettled  bool
	searchPredNode *DetectorNode // nil if this node was a Dijkstra source
	searchPredSlot int           // slot on searchPredNode leading to this node; -1 if source
}

// resetSearchState clears this node's Dijkstra scratch fields.
func (n *DetectorNode) resetSearchState() {
	n.searchDist = 0
	n.searchHasDist = false
	n.searchSettled = false
	n.searchPredNode = nil
	n.searchPredSlot = -1
}

// NumNeighbors returns the number of adjacency slots (including boundary
// slots) on this node.
func (n *DetectorNode) NumNeighbors() int {
	return len(n.neighbors)
}

// NeighborAt returns the neighbor, weight and observable mask for slot i.
// The returned node is nil iff slot i is a boundary edge.
func (n *DetectorNode) NeighborAt(i int) (neighbor *DetectorNode, weight int64, observables uint64) {
	return n.neighbors[i], n.neighborWeights[i], n.neighborObservables[i]
}

// IsBoundarySlot reports whether adjacency slot i leads to the boundary.
func (n *DetectorNode) IsBoundarySlot(i int) bool {
	return n.neighbors[i] == nil
}

// ScheduledEvent returns the tentative NeighborInteractionEvent currently
// scheduled across slot i, or nil if none is scheduled.
func (n *DetectorNode) ScheduledEvent(i int) *NeighborInteractionEvent {
	return n.neighborSchedule[i]
}

// SetScheduledEvent records the tentative event scheduled across slot i.
func (n *DetectorNode) SetScheduledEvent(i int, ev *NeighborInteractionEvent) {
	n.neighborSchedule[i] = ev
}

// IsEmpty reports whether no region's shell area has claimed this node.
func (n *DetectorNode) IsEmpty() bool {
	return n.reachedFromSource == nil
}

// TopRegion returns the region currently occupying this node (nil if IsEmpty).
func (n *DetectorNode) TopRegion() *GraphFillRegion {
	return n.regionThatArrived
}

// DistanceFromSource returns the shortest discovered distance from the
// claiming region's source node to this node, valid only when !IsEmpty().
func (n *DetectorNode) DistanceFromSource() int64 {
	return n.distanceFromSource
}

// ObservablesCrossedFromSource returns the xor of observable masks crossed
// on the path from the claiming region's source node to this node.
func (n *DetectorNode) ObservablesCrossedFromSource() uint64 {
	return n.observablesCrossedFromSource
}

// ReachedFromSource returns the source node of the claiming region's
// wavefront that reached this node, or n itself if n is that source.
func (n *DetectorNode) ReachedFromSource() *DetectorNode {
	return n.reachedFromSource
}

// claim stamps this node as reached by a region's wavefront from the given
// source node, with the given distance and accumulated observable mask. Called only by
// GraphFillRegion's own area-growing logic.
func (n *DetectorNode) claim(region *GraphFillRegion, from *DetectorNode, dist int64, observables uint64) {
	n.regionThatArrived = region
	n.reachedFromSource = from
	n.distanceFromSource = dist
	n.observablesCrossedFromSource = observables
}

// unclaim clears this node's discovery fields. Called only when a region's
// shell area unwinds (Cleanup), in LIFO order.
func (n *DetectorNode) unclaim() {
	n.regionThatArrived = nil
	n.reachedFromSource = nil
	n.distanceFromSource = 0
	n.observablesCrossedFromSource = 0
}

// IsOwnedBy reports whether region currently occupies this node, directly or
// via an ancestor blossom.
func (n *DetectorNode) IsOwnedBy(region *GraphFillRegion) bool {
	if n.IsEmpty() {
		return false
	}

	return n.regionThatArrived.TopMostBlossom() == region.TopMostBlossom()
}

// HasSameOwnerAs reports whether n and other are presently claimed by the
// same top-most region (accounting for blossom nesting).
func (n *DetectorNode) HasSameOwnerAs(other *DetectorNode) bool {
	if n.IsEmpty() || other.IsEmpty() {
		return false
	}

	return n.regionThatArrived.TopMostBlossom() == other.regionThatArrived.TopMostBlossom()
}

// InActiveRegion reports whether this node's claiming region currently has
// positive growth (radius slope > 0), i.e. its wavefront might still reach
// further nodes.
func (n *DetectorNode) InActiveRegion() bool {
	if n.IsEmpty() {
		return false
	}

	return n.regionThatArrived.TotalRadius().Slope() > 0
}

// LocalRadius returns the Varying describing how far this node's claiming
// region's wavefront has advanced past this node:
// region.TotalRadius() - distanceFromSource, as a function of time (negative
// while the wavefront has not yet reached the node). Nested
// blossom ancestors contribute their own radii on top of the claiming
// region's, since growing a blossom grows every region nested inside it.
func (n *DetectorNode) LocalRadius() varying.Varying {
	return n.regionThatArrived.TotalRadius().SubConst(float64(n.distanceFromSource))
}
