// Package flooder runs the continuous-time simulation: it grows and shrinks
// core.GraphFillRegion wavefronts over the detector graph, maintaining a
// lazily-invalidated min-heap of tentative events (modeled on
// dijkstra.nodePQ) and reporting the ones the MWPM state machine must react
// to — two regions meeting, a region reaching the boundary, or a blossom
// imploding.
package flooder

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/slowmatch/core"
	"github.com/katalvlaran/slowmatch/varying"
)

// Stats carries read-only, purely observational counters mirroring the
// original implementation's logger.py instrumentation: how many regions and
// blossoms have been created or imploded, and how much shell-area territory
// has been claimed in total. Populated regardless of Options.Verbose;
// Verbose only controls whether they are additionally narrated through the
// Logger.
type Stats struct {
	RegionsCreated    int
	BlossomsCreated   int
	BlossomsImploded  int
	NodesClaimedTotal int64
}

// Flooder owns the continuous-time simulation clock and tentative-event
// queue for one decoding round over a shared, read-only core.Graph.
type Flooder struct {
	graph *core.Graph
	opts  Options

	time float64
	seq  uint64

	nextRegionID uint64
	queue        eventQueue

	stats Stats
}

// NewFlooder creates a Flooder over graph, starting its simulation clock at
// time 0.
func NewFlooder(graph *core.Graph, opts ...Option) *Flooder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}

	f := &Flooder{graph: graph, opts: o}
	heap.Init(&f.queue)

	return f
}

// Time returns the simulation's current clock value, as of the last event
// returned by NextEvent.
func (f *Flooder) Time() float64 { return f.time }

// Stats returns a snapshot of this Flooder's lifecycle counters.
func (f *Flooder) Stats() Stats { return f.stats }

func (f *Flooder) nextSeq() uint64 {
	f.seq++

	return f.seq
}

// CreateRegion roots a new, initially single-node region at sourceKey,
// growing according to radius (typically varying.NewLinear(0, 1, f.Time())
// for a freshly detected event). The source node is claimed immediately.
//
// Complexity: O(deg(source)) to schedule the source's own neighbor events.
func (f *Flooder) CreateRegion(sourceKey string, radius varying.Varying) (*core.GraphFillRegion, error) {
	source, err := f.graph.Node(sourceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, sourceKey)
	}

	f.nextRegionID++
	region := core.NewRegion(f.nextRegionID, source, radius)
	region.AddToShellArea(source, source, 0, 0)
	f.stats.RegionsCreated++
	f.stats.NodesClaimedTotal++
	f.opts.logf("flooder: created region %d at %s", region.ID(), sourceKey)

	f.scheduleNodeNeighbors(source)
	f.scheduleRegionShrink(region)

	return region, nil
}

// scheduleNodeNeighbors (re)schedules a NeighborInteractionEvent across
// every adjacency slot of node, replacing whatever was scheduled there
// before (invalidating the old one first). The opposite slot on each
// neighbor's side is rescheduled too, since its prediction also depends on
// node's local radius.
func (f *Flooder) scheduleNodeNeighbors(node *core.DetectorNode) {
	for i := 0; i < node.NumNeighbors(); i++ {
		f.scheduleSlot(node, i)
		neighbor, _, _ := node.NeighborAt(i)
		if neighbor == nil {
			continue
		}
		for j := 0; j < neighbor.NumNeighbors(); j++ {
			if back, _, _ := neighbor.NeighborAt(j); back == node {
				f.scheduleSlot(neighbor, j)
			}
		}
	}
}

// scheduleSlot computes and (re)schedules the predicted meeting time across
// node's adjacency slot i, invalidating whatever tentative event previously
// occupied that slot.
func (f *Flooder) scheduleSlot(node *core.DetectorNode, i int) {
	if old := node.ScheduledEvent(i); old != nil {
		old.Invalidate()
	}
	if node.IsEmpty() {
		node.SetScheduledEvent(i, nil)

		return
	}

	neighbor, weight, _ := node.NeighborAt(i)
	var combined varying.Varying
	if neighbor == nil {
		combined = node.LocalRadius().SubConst(float64(weight))
	} else if neighbor.IsEmpty() {
		combined = node.LocalRadius().SubConst(float64(weight))
	} else {
		combined = node.LocalRadius().Add(neighbor.LocalRadius()).SubConst(float64(weight))
	}

	t, ok := combined.ZeroIntercept()
	if !ok || t < f.time {
		node.SetScheduledEvent(i, nil)

		return
	}

	ev := core.NewNeighborInteractionEvent(t, f.nextSeq(), node, neighbor, i)
	node.SetScheduledEvent(i, ev)
	heap.Push(&f.queue, core.TentativeEvent(ev))
}

// scheduleRegionShrink (re)schedules region's RegionShrinkEvent, reflecting
// its current TotalRadius. A region with non-negative growth never shrinks
// to zero and so has nothing to schedule.
func (f *Flooder) scheduleRegionShrink(region *core.GraphFillRegion) {
	if old := region.ScheduledShrink(); old != nil {
		old.Invalidate()
		region.SetScheduledShrink(nil)
	}

	t, ok := region.TotalRadius().ZeroIntercept()
	if !ok || region.TotalRadius().Slope() >= 0 || t < f.time {
		return
	}

	ev := core.NewRegionShrinkEvent(t, f.nextSeq(), region)
	region.SetScheduledShrink(ev)
	heap.Push(&f.queue, core.TentativeEvent(ev))
}

// SetRegionGrowth pivots region's own radius to a new slope, effective
// immediately (at f.Time()), and reschedules every tentative event that
// depends on region's radius: every neighbor slot of every node in its
// (and, if it is a blossom, its descendants') shell area, plus its own
// shrink event.
//
// Per the decision recorded in SPEC_FULL.md §4 (mirroring spec.md §9), this
// always reschedules, even when newSlope equals the region's current slope:
// a pivot at a new base time invalidates any event computed from the old
// base time, whether or not the rate itself changed.
func (f *Flooder) SetRegionGrowth(region *core.GraphFillRegion, newSlope float64) {
	region.SetRadius(region.Radius().ThenSlopeAt(f.time, newSlope))
	f.rescheduleDependents(region)
}

// rescheduleDependents redoes every tentative event whose predicted time
// depends on region's radius.
func (f *Flooder) rescheduleDependents(region *core.GraphFillRegion) {
	for _, node := range region.ShellArea() {
		f.scheduleNodeNeighbors(node)
	}
	if region.IsBlossom() {
		for _, child := range region.BlossomChildren().Regions {
			f.rescheduleDependents(child)
		}
	}
	f.scheduleRegionShrink(region)
}

// CreateBlossom wraps cycle (an odd-length ring of at least three regions)
// into a new blossom region growing at unit rate from f.Time(). Every child
// region's own radius is frozen (pivoted to slope 0) since it is now the
// blossom, not the child, that determines how far their combined wavefront
// reaches, and every child is detached from its alternating-tree node; every
// tentative event depending on any child's radius is rescheduled against the
// blossom's combined radius.
func (f *Flooder) CreateBlossom(cycle core.RegionPath) (*core.GraphFillRegion, error) {
	if cycle.Len() < 3 {
		return nil, ErrEmptyBlossomCycle
	}

	f.nextRegionID++
	blossom := core.NewBlossomRegion(f.nextRegionID, cycle, varying.NewLinear(0, 1, f.time))
	f.stats.BlossomsCreated++
	f.opts.logf("flooder: created blossom %d from %d regions", blossom.ID(), cycle.Len())

	for _, child := range cycle.Regions {
		child.SetRadius(child.Radius().ThenSlopeAt(f.time, 0))
		child.SetAltTreeNode(nil)
	}
	f.rescheduleDependents(blossom)

	return blossom, nil
}

// ImplodeBlossom reports a blossom has fully shrunk back to a single point
// and severs its children, restoring each child's independent radius at its
// current (now-frozen) value with slope 0; callers typically immediately
// assign each freed child a fresh growth rate via SetRegionGrowth.
func (f *Flooder) ImplodeBlossom(blossom *core.GraphFillRegion) []*core.GraphFillRegion {
	cycle := blossom.BlossomChildren()
	children := append([]*core.GraphFillRegion{}, cycle.Regions...)
	for _, child := range children {
		child.SetRadius(child.TotalRadius().ThenSlopeAt(f.time, 0))
		child.SetBlossomParent(nil)
	}
	blossom.SetBlossomChildren(nil)
	f.stats.BlossomsImploded++
	f.opts.logf("flooder: imploded blossom %d into %d regions", blossom.ID(), len(children))

	for _, child := range children {
		f.rescheduleDependents(child)
	}

	return children
}

// HasValidEventsQueued reports whether any event remains in the queue that
// has not been invalidated. It does not pop or otherwise mutate the queue.
func (f *Flooder) HasValidEventsQueued() bool {
	return f.queue.peekValid()
}

// NextEvent advances the simulation clock to the next meaningful occurrence
// and reports it. Tentative events that turn out to be pure area-growth
// (a wavefront claiming a previously-empty node) are applied internally and
// do not stop the loop; NextEvent keeps popping until it finds an event the
// MWPM state machine must react to, or the queue is exhausted.
//
// Complexity: amortized O(log E) per internal growth step, since each
// physical edge is claimed at most twice before the whole simulation ends.
func (f *Flooder) NextEvent() (core.MwpmEvent, error) {
	for f.queue.Len() > 0 {
		raw := heap.Pop(&f.queue)
		ev := raw.(core.TentativeEvent)
		if !ev.IsValid() {
			continue
		}

		switch e := ev.(type) {
		case *core.NeighborInteractionEvent:
			if mwpmEvent, stop := f.applyNeighborInteraction(e); stop {
				return mwpmEvent, nil
			}
		case *core.RegionShrinkEvent:
			if mwpmEvent, stop := f.applyRegionShrink(e); stop {
				return mwpmEvent, nil
			}
		}
	}

	return core.MwpmEvent{Kind: core.NoEvent}, ErrNoEventsQueued
}

// applyNeighborInteraction advances the clock to e's time and either claims
// an empty neighbor (returning stop=false to keep the internal loop going)
// or reports a RegionHitRegion/RegionHitBoundary event for the MWPM state
// machine.
func (f *Flooder) applyNeighborInteraction(e *core.NeighborInteractionEvent) (core.MwpmEvent, bool) {
	f.time = e.Time()
	a := e.NodeA
	_, weight, observables := a.NeighborAt(e.SlotOnA)
	b := e.NodeB

	if a.IsEmpty() {
		return core.MwpmEvent{}, false // a's region already receded past this slot
	}

	regionA := a.TopRegion()

	if b == nil {
		edge := core.CompressedEdge{
			From:        a.ReachedFromSource(),
			To:          nil,
			Observables: a.ObservablesCrossedFromSource() ^ observables,
			Distance:    a.DistanceFromSource() + weight,
		}

		return core.MwpmEvent{Kind: core.RegionHitBoundary, Region1: regionA.TopMostBlossom(), Edge: edge}, true
	}

	if b.IsEmpty() {
		dist := a.DistanceFromSource() + weight
		obs := a.ObservablesCrossedFromSource() ^ observables
		regionA.AddToShellArea(b, a.ReachedFromSource(), dist, obs)
		f.stats.NodesClaimedTotal++
		f.scheduleNodeNeighbors(b)

		return core.MwpmEvent{}, false
	}

	if a.HasSameOwnerAs(b) {
		return core.MwpmEvent{}, false // same top-level region meeting itself: nothing to report
	}

	regionB := b.TopRegion()
	edge := core.CompressedEdge{
		From:        a.ReachedFromSource(),
		To:          b.ReachedFromSource(),
		Observables: a.ObservablesCrossedFromSource() ^ observables ^ b.ObservablesCrossedFromSource(),
		Distance:    a.DistanceFromSource() + weight + b.DistanceFromSource(),
	}

	return core.MwpmEvent{Kind: core.RegionHitRegion, Region1: regionA.TopMostBlossom(), Region2: regionB.TopMostBlossom(), Edge: edge}, true
}

// applyRegionShrink advances the clock to e's time and reports a
// BlossomImplode event if e.Region still has blossom children, or a
// degenerate RegionHitRegion (region meeting itself at zero radius)
// otherwise, per the decision recorded in SPEC_FULL.md §4.
func (f *Flooder) applyRegionShrink(e *core.RegionShrinkEvent) (core.MwpmEvent, bool) {
	f.time = e.Time()
	region := e.Region

	if region.IsBlossom() {
		return core.MwpmEvent{Kind: core.BlossomImplode, BlossomRegion: region}, true
	}

	return core.MwpmEvent{Kind: core.RegionHitRegion, Region1: region, Region2: region, Edge: core.CompressedEdge{From: region.Source(), To: region.Source()}}, true
}
