package core

import "github.com/katalvlaran/slowmatch/varying"

// Match records what a region is currently matched to: either a peer region
// (Region non-nil) or the boundary (Region nil), joined by Edge.
type Match struct {
	Region *GraphFillRegion
	Edge   CompressedEdge
}

// GraphFillRegion is the dual variable of the matching LP made concrete: a
// growing (or shrinking) wavefront rooted at Source, claiming nodes into its
// ShellArea as its Radius expands past their distance from Source. A
// top-level region is, at any instant, either unmatched-and-in-tree
// (AltTreeNode set) or matched (Match set). Independently of that, a region
// may be a blossom (BlossomChildren set), in which case it has no Source of
// its own and its Radius is the *additional* radius contributed on top of
// its children's; a region nested inside a blossom has no tree node of its
// own.
type GraphFillRegion struct {
	id uint64

	source *DetectorNode
	radius varying.Varying

	shellArea []*DetectorNode

	blossomChildren *RegionPath
	blossomParent   *GraphFillRegion

	altTreeNode *AltTreeNode
	match       *Match

	scheduledShrink *RegionShrinkEvent
}

// NewRegion creates a region rooted at source with the given initial
// radius. The caller is responsible for claiming source into the shell area
// via AddToShellArea.
func NewRegion(id uint64, source *DetectorNode, radius varying.Varying) *GraphFillRegion {
	return &GraphFillRegion{id: id, source: source, radius: radius}
}

// NewBlossomRegion creates a region with no source of its own, wrapping
// children as a cycle. Its own radius starts at zero and grows from there;
// TotalRadius adds this on top of each child's (possibly itself nested)
// radius.
func NewBlossomRegion(id uint64, children RegionPath, radius varying.Varying) *GraphFillRegion {
	childrenCopy := children

	blossom := &GraphFillRegion{id: id, blossomChildren: &childrenCopy, radius: radius}
	for _, child := range children.Regions {
		child.blossomParent = blossom
	}

	return blossom
}

// ID returns a stable identifier for this region, useful for deterministic
// tie-breaking and debugging; it carries no algorithmic meaning.
func (r *GraphFillRegion) ID() uint64 { return r.id }

// Source returns the node this region grows from, or nil for a blossom
// region (which grows from its children's combined shell areas instead).
func (r *GraphFillRegion) Source() *DetectorNode { return r.source }

// Radius returns this region's own radius, exclusive of any ancestor
// blossom's contribution. Use TotalRadius for the effective radius as
// observed by the flooder.
func (r *GraphFillRegion) Radius() varying.Varying { return r.radius }

// SetRadius replaces this region's own radius. Per the decision recorded in
// SPEC_FULL.md, callers (flooder.SetRegionGrowth) always reschedule
// dependent events after calling this, even when the new radius has the
// same slope as the old one — a region's growth can be "reset" to a later
// pivot time without changing rate, and stale schedules must not survive
// that.
func (r *GraphFillRegion) SetRadius(radius varying.Varying) { r.radius = radius }

// TotalRadius returns this region's radius plus every ancestor blossom's own
// radius: the effective distance its wavefront has traveled from its
// innermost source, which is what actually governs when its wavefront
// reaches a given node.
func (r *GraphFillRegion) TotalRadius() varying.Varying {
	total := r.radius
	for p := r.blossomParent; p != nil; p = p.blossomParent {
		total = total.Add(p.radius)
	}

	return total
}

// TopMostBlossom walks up the blossom-parent chain and returns the
// outermost region — itself, if r is not nested in any blossom.
func (r *GraphFillRegion) TopMostBlossom() *GraphFillRegion {
	cur := r
	for cur.blossomParent != nil {
		cur = cur.blossomParent
	}

	return cur
}

// IsBlossom reports whether r wraps a cycle of child regions.
func (r *GraphFillRegion) IsBlossom() bool { return r.blossomChildren != nil }

// BlossomChildren returns the cycle of child regions, or nil if r is not a
// blossom.
func (r *GraphFillRegion) BlossomChildren() *RegionPath { return r.blossomChildren }

// SetBlossomChildren installs (or clears, with nil) r's child cycle.
func (r *GraphFillRegion) SetBlossomChildren(children *RegionPath) { r.blossomChildren = children }

// BlossomParent returns the blossom region r is nested directly inside, or
// nil.
func (r *GraphFillRegion) BlossomParent() *GraphFillRegion { return r.blossomParent }

// SetBlossomParent sets (or clears, with nil) the blossom region r is
// nested directly inside.
func (r *GraphFillRegion) SetBlossomParent(parent *GraphFillRegion) { r.blossomParent = parent }

// AltTreeNode returns the alternating-tree node r is presently attached to,
// or nil if r is matched (or is a blossom child with no tree attachment of
// its own).
func (r *GraphFillRegion) AltTreeNode() *AltTreeNode { return r.altTreeNode }

// SetAltTreeNode attaches (or detaches, with nil) r to an alternating-tree
// node.
func (r *GraphFillRegion) SetAltTreeNode(node *AltTreeNode) { r.altTreeNode = node }

// Match returns what r is currently matched to, or nil if r is presently
// part of the alternating tree instead.
func (r *GraphFillRegion) Match() *Match { return r.match }

// SetMatch records r's match (or clears it, with nil).
func (r *GraphFillRegion) SetMatch(m *Match) { r.match = m }

// IsMatched reports whether r currently has a match (to a peer region or the
// boundary).
func (r *GraphFillRegion) IsMatched() bool { return r.match != nil }

// ScheduledShrink returns the tentative RegionShrinkEvent currently
// scheduled for r, or nil if none is.
func (r *GraphFillRegion) ScheduledShrink() *RegionShrinkEvent { return r.scheduledShrink }

// SetScheduledShrink records the tentative RegionShrinkEvent scheduled for
// r.
func (r *GraphFillRegion) SetScheduledShrink(ev *RegionShrinkEvent) { r.scheduledShrink = ev }

// ShellArea returns the nodes claimed by this region's own wavefront, in the
// order they were claimed (append-only while growing; popped in reverse by
// Cleanup while unwinding).
func (r *GraphFillRegion) ShellArea() []*DetectorNode { return r.shellArea }

// AddToShellArea claims node for this region, stamping its discovery fields
// and recording it for later Cleanup.
func (r *GraphFillRegion) AddToShellArea(node, from *DetectorNode, dist int64, observables uint64) {
	node.claim(r, from, dist, observables)
	r.shellArea = append(r.shellArea, node)
}

// Cleanup unclaims every node in the shell area, in LIFO order (most
// recently claimed first), matching the order the original discovery relied
// on for invalidating in-flight tentative events.
func (r *GraphFillRegion) Cleanup() {
	for i := len(r.shellArea) - 1; i >= 0; i-- {
		r.shellArea[i].unclaim()
	}
	r.shellArea = nil
}
