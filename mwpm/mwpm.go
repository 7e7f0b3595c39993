// The engine dispatches seven shapes of event from a single switch over the
// flooder's tagged MwpmEvent (core.MwpmEventKind) and the structural
// relationship between the two regions involved:
//
//	RegionHitBoundary                           -> tree-hits-boundary
//	RegionHitRegion, same region                -> degenerate implosion (no-op)
//	RegionHitRegion, same tree                  -> tree-hits-self (blossom forms)
//	RegionHitRegion, different trees            -> tree-hits-other-tree (augment)
//	RegionHitRegion, tree vs. matched           -> tree-hits-match (absorb pair)
//	RegionHitRegion, tree vs. boundary-matched  -> tree-hits-boundary-match
//	BlossomImplode                              -> blossom dissolves back to a path
package mwpm

import (
	"errors"

	"github.com/katalvlaran/slowmatch/core"
	"github.com/katalvlaran/slowmatch/flooder"
	"github.com/katalvlaran/slowmatch/varying"
)

// engine runs one decode round's alternating-tree bookkeeping over a
// flooder.Flooder.
type engine struct {
	graph *core.Graph
	fl    *flooder.Flooder

	nextTreeID uint64
	roots      []*core.AltTreeNode // active (not yet fully matched) tree roots

	finalMatches []finalMatch // top-level matches recorded as the decode proceeds
}

// finalMatch is one top-level match recorded during the decode: either
// region-to-region or region-to-boundary (Partner nil), joined by Edge. It
// may still require recursive blossom resolution before it names two
// concrete detection events.
type finalMatch struct {
	Region  *core.GraphFillRegion
	Partner *core.GraphFillRegion // nil means the boundary
	Edge    core.CompressedEdge
}

func newEngine(g *core.Graph, opts ...flooder.Option) *engine {
	return &engine{graph: g, fl: flooder.NewFlooder(g, opts...)}
}

// addDetectionEvent roots a fresh, unmatched alternating tree at key.
func (e *engine) addDetectionEvent(key string) error {
	region, err := e.fl.CreateRegion(key, varying.NewLinear(0, 1, e.fl.Time()))
	if err != nil {
		return err
	}

	e.nextTreeID++
	root := core.NewAltTreeRoot(e.nextTreeID, region)
	e.roots = append(e.roots, root)

	return nil
}

// run drives the flooder to completion: every active tree either matches to
// the boundary or augments against another tree, until none remain.
func (e *engine) run() error {
	for len(e.roots) > 0 {
		if !e.fl.HasValidEventsQueued() {
			return ErrStalled
		}
		ev, err := e.fl.NextEvent()
		if errors.Is(err, flooder.ErrNoEventsQueued) {
			return ErrStalled
		}
		if err != nil {
			return err
		}
		if err := e.handle(ev); err != nil {
			return err
		}
	}

	return nil
}

func (e *engine) handle(ev core.MwpmEvent) error {
	switch ev.Kind {
	case core.RegionHitBoundary:
		return e.handleHitBoundary(ev.Region1, ev.Edge)
	case core.RegionHitRegion:
		return e.handleHitRegion(ev)
	case core.BlossomImplode:
		return e.handleImplode(ev.BlossomRegion)
	}

	return nil
}

func (e *engine) handleHitRegion(ev core.MwpmEvent) error {
	if ev.Region1 == ev.Region2 {
		// Degenerate implosion (a non-blossom region's radius reached zero
		// on its own): per the decision recorded in SPEC_FULL.md this
		// carries no augmenting information and is simply discarded.
		return nil
	}

	node1 := ev.Region1.AltTreeNode()
	node2 := ev.Region2.AltTreeNode()
	r1Matched := ev.Region1.IsMatched()
	r2Matched := ev.Region2.IsMatched()

	switch {
	case !r1Matched && !r2Matched && node1 != nil && node2 != nil && e.sameTree(node1, node2):
		return e.handleTreeHitsSelf(node1, node2, ev.Edge)
	case !r1Matched && !r2Matched && node1 != nil && node2 != nil:
		return e.handleTreeHitsOtherTree(node1, node2, ev.Edge)
	case !r1Matched && r2Matched && node1 != nil:
		return e.handleTreeHitsMatch(node1, ev.Region2, ev.Edge)
	case r1Matched && !r2Matched && node2 != nil:
		return e.handleTreeHitsMatch(node2, ev.Region1, ev.Edge.Reversed())
	}

	return core.NewInternalError("mwpm.handleHitRegion", "unrecognized region-hit-region configuration")
}

func (e *engine) sameTree(a, b *core.AltTreeNode) bool {
	return a.Root() == b.Root()
}

// handleHitBoundary matches region's tree node to the boundary
// (tree-hits-boundary): a non-root node first rotates its tree to root
// there, and the rest of the tree is shattered into matches before the new
// root is matched to the boundary.
func (e *engine) handleHitBoundary(region *core.GraphFillRegion, edge core.CompressedEdge) error {
	node := region.AltTreeNode()
	if node == nil {
		return core.NewInternalError("mwpm.handleHitBoundary", "region has no alternating-tree node")
	}

	// Capture the tree's original root before any rotation: that's the
	// pointer e.roots was given at addDetectionEvent time, and the one
	// removeRoot must find, regardless of which node within the tree ends up
	// rotated to the front.
	root := node.Root()
	if !node.IsRoot() {
		node.BecomeRoot()
	}

	for _, pair := range node.Shatter() {
		e.recordMatch(pair.A, pair.B, pair.Edge)
	}

	e.recordBoundaryMatch(node.OuterRegion(), edge)
	e.removeRoot(root)

	return nil
}

// handleTreeHitsSelf forms a blossom out of the cycle discovered between
// node1 and node2, both outer regions of the same tree.
func (e *engine) handleTreeHitsSelf(node1, node2 *core.AltTreeNode, meeting core.CompressedEdge) error {
	mrca, err := node1.MostRecentCommonAncestor(node2)
	if err != nil {
		return err
	}

	prune1, err := node1.PruneUpward(mrca)
	if err != nil {
		return err
	}
	prune2, err := node2.PruneUpward(mrca)
	if err != nil {
		return err
	}

	regions1, edges1 := chainFromPrune(mrca.OuterRegion(), prune1)
	regions2, edges2 := chainFromPrune(mrca.OuterRegion(), prune2)

	cycleRegions := append([]*core.GraphFillRegion{}, regions1...)
	cycleEdges := append([]core.CompressedEdge{}, edges1...)
	cycleEdges = append(cycleEdges, meeting)
	for i := len(regions2) - 2; i >= 0; i-- {
		cycleRegions = append(cycleRegions, regions2[i+1])
	}
	for i := len(edges2) - 1; i >= 0; i-- {
		cycleEdges = append(cycleEdges, edges2[i].Reversed())
	}

	cycle := core.NewCycle(cycleRegions, cycleEdges)
	blossom, err := e.fl.CreateBlossom(cycle)
	if err != nil {
		return err
	}

	// A node pruned on one side may already have been collected as an
	// orphan by the other side's prune; it is now inside the blossom.
	pruned := make(map[*core.AltTreeNode]bool)
	for _, pe := range append(prune1.PrunedEdges, prune2.PrunedEdges...) {
		pruned[pe.Child] = true
	}

	mrca.SetOuterRegion(blossom)
	for _, orphan := range append(prune1.Orphans, prune2.Orphans...) {
		if pruned[orphan] {
			continue
		}
		orphan.Reattach(mrca)
	}

	return nil
}

// chainFromPrune walks a PruneResult's pruned edges (ordered closest-to-leaf
// first) back into root-to-leaf order, returning the regions visited
// (starting with root, then each pruned node's inner and outer region in
// turn) and the edges joining consecutive ones: a tree touch edge into each
// inner region, and that node's innerOuterEdge on to its outer region.
func chainFromPrune(root *core.GraphFillRegion, prune core.PruneResult) ([]*core.GraphFillRegion, []core.CompressedEdge) {
	regions := []*core.GraphFillRegion{root}
	edges := make([]core.CompressedEdge, 0, 2*len(prune.PrunedEdges))
	for i := len(prune.PrunedEdges) - 1; i >= 0; i-- {
		e := prune.PrunedEdges[i]
		regions = append(regions, e.Child.InnerRegion(), e.Child.OuterRegion())
		edges = append(edges, e.Edge, e.Child.InnerOuterEdge())
	}

	return regions, edges
}

// handleTreeHitsOtherTree is the augmenting-path case: two different trees'
// outer regions meet. Both trees reroot at the meeting nodes, shatter into
// matches, and the two meeting regions are matched directly to each other.
func (e *engine) handleTreeHitsOtherTree(node1, node2 *core.AltTreeNode, meeting core.CompressedEdge) error {
	// As in handleHitBoundary, capture each tree's original root before
	// rotation: node1/node2 may themselves be nodes an earlier absorption
	// added partway down the tree, not the root e.roots is tracking.
	root1, root2 := node1.Root(), node2.Root()
	node1.BecomeRoot()
	node2.BecomeRoot()

	for _, pair := range node1.Shatter() {
		e.recordMatch(pair.A, pair.B, pair.Edge)
	}
	for _, pair := range node2.Shatter() {
		e.recordMatch(pair.A, pair.B, pair.Edge)
	}

	e.recordMatch(node1.OuterRegion(), node2.OuterRegion(), meeting)
	e.removeRoot(root1)
	e.removeRoot(root2)

	return nil
}

// handleTreeHitsMatch absorbs an already-matched region (and its partner)
// into node's tree as a new inner/outer pair: the matched region becomes
// the new inner node (its radius now shrinks), freeing its old partner to
// become the new outer node (its radius now grows).
//
// If the matched region was matched to the boundary rather than a peer
// region (tree-hits-boundary-match), node's outer region is matched to it
// directly, its boundary match is dropped, and the rest of node's tree is
// rotated and shattered into matches as in handleHitBoundary.
func (e *engine) handleTreeHitsMatch(node *core.AltTreeNode, matched *core.GraphFillRegion, meeting core.CompressedEdge) error {
	m := matched.Match()

	if m.Region == nil {
		matched.SetMatch(nil)
		e.invalidateFinalMatch(matched)
		root := node.Root()
		node.BecomeRoot()
		for _, pair := range node.Shatter() {
			e.recordMatch(pair.A, pair.B, pair.Edge)
		}
		e.recordMatch(node.OuterRegion(), matched, meeting)
		e.removeRoot(root)

		return nil
	}

	partner := m.Region
	oldMatchEdge := m.Edge
	matched.SetMatch(nil)
	partner.SetMatch(nil)
	// The finalMatches entry recorded when matched and partner were first
	// paired no longer describes either region's current state now that the
	// pair has been pulled apart: without this, buildResult's region-keyed
	// dedup would see that stale entry first and use it to shadow the real
	// pairing Shatter later recovers for matched (or whatever partner ends up
	// matched to instead).
	e.invalidateFinalMatch(matched)
	e.invalidateFinalMatch(partner)

	// meeting is the new tree touch edge (node's outer to matched's inner).
	// oldMatchEdge, the pre-absorption match edge directly joining matched
	// to partner, is preserved as the new node's own innerOuterEdge so
	// Shatter can restore that same pair if this tree later dissolves
	// without ever re-matching matched and partner some other way.
	e.nextTreeID++
	node.AddChild(e.nextTreeID, matched, partner, meeting, oldMatchEdge)
	e.fl.SetRegionGrowth(matched, -1)
	e.fl.SetRegionGrowth(partner, 1)

	return nil
}

// handleImplode dissolves a blossom that has shrunk back to a point: the
// child on the path to/from the rest of the tree takes over the blossom's
// position, and every other child pairs up with its cycle neighbor as a
// final match.
func (e *engine) handleImplode(blossom *core.GraphFillRegion) error {
	node := blossom.AltTreeNode()
	if node == nil {
		return core.NewInternalError("mwpm.handleImplode", "blossom has no alternating-tree node")
	}

	cycle := *blossom.BlossomChildren()

	var entryNode *core.DetectorNode
	if !node.IsRoot() {
		entryNode = node.Parent().Edge.To
	} else if len(node.Children()) > 0 {
		entryNode = node.Children()[0].Edge.From
	}

	var anchor *core.GraphFillRegion
	if entryNode != nil {
		anchor = findAnchorChild(blossom, entryNode)
	} else {
		anchor = cycle.Regions[0]
	}

	rotated, err := cycle.SplitAtRegion(anchor)
	if err != nil {
		return err
	}

	// Sever the blossom now that anchor (still keyed off its pre-implosion
	// blossom-parent chain) has been located; ImplodeBlossom restores every
	// child's own radius and clears their blossom-parent links.
	e.fl.ImplodeBlossom(blossom)

	if len(rotated.Regions) > 1 {
		subRegions := rotated.Regions[1:]
		subEdges := rotated.Edges[1 : len(rotated.Edges)-1]
		pairs, err := core.NewOpenPath(subRegions, subEdges).PairsMatched()
		if err != nil {
			return err
		}
		for _, p := range pairs {
			e.recordMatch(p.A, p.B, p.Edge)
		}
	}

	node.SetOuterRegion(anchor)
	e.fl.SetRegionGrowth(anchor, 1)

	return nil
}

// findAnchorChild returns blossom's direct child whose (possibly further
// nested) territory contains entryNode. Every DetectorNode's claiming
// region is set once, when some leaf region's shell area first claims it,
// and is never reassigned by blossom formation — so walking up entryNode's
// claiming region's blossom-parent chain always terminates at exactly the
// direct child of blossom that owns it.
func findAnchorChild(blossom *core.GraphFillRegion, entryNode *core.DetectorNode) *core.GraphFillRegion {
	cur := entryNode.TopRegion()
	for cur != nil && cur.BlossomParent() != blossom {
		cur = cur.BlossomParent()
	}

	return cur
}

// recordMatch finalizes a and b as a matched pair: their dual variables are
// done changing (each had been either an actively growing outer region or a
// shrinking inner one; both freeze at their current radius from here on,
// until and unless a later tree-hits-match absorption pivots one of them
// again), and both are detached from any alternating-tree node.
func (e *engine) recordMatch(a, b *core.GraphFillRegion, edge core.CompressedEdge) {
	a.SetMatch(&core.Match{Region: b, Edge: edge})
	b.SetMatch(&core.Match{Region: a, Edge: edge.Reversed()})
	a.SetAltTreeNode(nil)
	b.SetAltTreeNode(nil)
	e.fl.SetRegionGrowth(a, 0)
	e.fl.SetRegionGrowth(b, 0)
	e.finalMatches = append(e.finalMatches, finalMatch{Region: a, Partner: b, Edge: edge})
}

func (e *engine) recordBoundaryMatch(region *core.GraphFillRegion, edge core.CompressedEdge) {
	region.SetMatch(&core.Match{Region: nil, Edge: edge})
	region.SetAltTreeNode(nil)
	e.fl.SetRegionGrowth(region, 0)
	e.finalMatches = append(e.finalMatches, finalMatch{Region: region, Partner: nil, Edge: edge})
}

// invalidateFinalMatch drops any previously recorded finalMatch entries that
// name region as either side of the pair: used when handleTreeHitsMatch
// pulls an existing match back apart so a stale entry doesn't survive into
// the final result alongside (or instead of) the pairing that replaces it.
func (e *engine) invalidateFinalMatch(region *core.GraphFillRegion) {
	kept := e.finalMatches[:0]
	for _, fm := range e.finalMatches {
		if fm.Region == region || fm.Partner == region {
			continue
		}
		kept = append(kept, fm)
	}
	e.finalMatches = kept
}

func (e *engine) removeRoot(node *core.AltTreeNode) {
	for i, r := range e.roots {
		if r == node {
			e.roots = append(e.roots[:i], e.roots[i+1:]...)
			return
		}
	}
}
