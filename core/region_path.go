package core

// RegionPath is an ordered walk through a sequence of regions, each pair of
// consecutive regions joined by the CompressedEdge between them. It plays
// two roles: as a cycle, it is a blossom's child ring (odd length, last
// region wraps back to the first); as an open path, it is the two "arms"
// produced by splitting a cycle, used to build the augmenting path when a
// blossom forms or is pulled apart.
//
// Invariant: len(Edges) == len(Regions) for a cycle, len(Edges) ==
// len(Regions)-1 for an open path. Regions[i] and Regions[i+1] are the
// endpoints of Edges[i]; for a cycle, Regions[len-1] and Regions[0] are the
// endpoints of Edges[len-1].
type RegionPath struct {
	Regions []*GraphFillRegion
	Edges   []CompressedEdge
}

// NewCycle builds a RegionPath cycle from regions and the edges joining
// consecutive ones (edges[i] joins regions[i] to regions[(i+1)%len]).
func NewCycle(regions []*GraphFillRegion, edges []CompressedEdge) RegionPath {
	return RegionPath{Regions: regions, Edges: edges}
}

// NewOpenPath builds a RegionPath open path from regions and the len(regions)-1
// edges joining consecutive ones.
func NewOpenPath(regions []*GraphFillRegion, edges []CompressedEdge) RegionPath {
	return RegionPath{Regions: regions, Edges: edges}
}

// Len returns the number of regions in the path.
func (p RegionPath) Len() int {
	return len(p.Regions)
}

// IsCycle reports whether p wraps back on itself (one edge per region,
// rather than one fewer).
func (p RegionPath) IsCycle() bool {
	return len(p.Edges) == len(p.Regions) && len(p.Regions) > 0
}

// RegionIndex returns the index of r within p.Regions, or false if absent.
func (p RegionPath) RegionIndex(r *GraphFillRegion) (int, bool) {
	for i, candidate := range p.Regions {
		if candidate == r {
			return i, true
		}
	}

	return 0, false
}

// Reversed returns the same walk traversed in the opposite direction: region
// order reversed, and each edge reversed to match.
func (p RegionPath) Reversed() RegionPath {
	n := len(p.Regions)
	regions := make([]*GraphFillRegion, n)
	for i, r := range p.Regions {
		regions[n-1-i] = r
	}

	m := len(p.Edges)
	edges := make([]CompressedEdge, m)
	for i, e := range p.Edges {
		edges[m-1-i] = e.Reversed()
	}

	return RegionPath{Regions: regions, Edges: edges}
}

// SplitAtRegion rotates a cycle so that it begins at r, preserving
// direction. Returns an error if p is not a cycle or r is not in it.
func (p RegionPath) SplitAtRegion(r *GraphFillRegion) (RegionPath, error) {
	if !p.IsCycle() {
		return RegionPath{}, NewInternalError("RegionPath.SplitAtRegion", "path is not a cycle")
	}
	idx, ok := p.RegionIndex(r)
	if !ok {
		return RegionPath{}, NewInternalError("RegionPath.SplitAtRegion", "region not found in cycle")
	}
	n := len(p.Regions)
	regions := make([]*GraphFillRegion, n)
	edges := make([]CompressedEdge, n)
	for i := 0; i < n; i++ {
		regions[i] = p.Regions[(idx+i)%n]
		edges[i] = p.Edges[(idx+i)%n]
	}

	return RegionPath{Regions: regions, Edges: edges}, nil
}

// SplitBetweenRegions splits a cycle containing both a and b into the two
// open paths running from a to b in each of the two possible directions
// around the cycle.
func (p RegionPath) SplitBetweenRegions(a, b *GraphFillRegion) (arm1, arm2 RegionPath, err error) {
	rotated, err := p.SplitAtRegion(a)
	if err != nil {
		return RegionPath{}, RegionPath{}, err
	}
	bIdx, ok := rotated.RegionIndex(b)
	if !ok {
		return RegionPath{}, RegionPath{}, NewInternalError("RegionPath.SplitBetweenRegions", "region b not found in cycle")
	}

	forwardRegions := append([]*GraphFillRegion{}, rotated.Regions[:bIdx+1]...)
	forwardEdges := append([]CompressedEdge{}, rotated.Edges[:bIdx]...)
	arm1 = RegionPath{Regions: forwardRegions, Edges: forwardEdges}

	n := len(rotated.Regions)
	backwardRegions := make([]*GraphFillRegion, 0, n-bIdx+1)
	backwardRegions = append(backwardRegions, rotated.Regions[0])
	for i := n - 1; i >= bIdx; i-- {
		backwardRegions = append(backwardRegions, rotated.Regions[i])
	}
	backwardEdges := make([]CompressedEdge, 0, n-bIdx)
	for i := n - 1; i >= bIdx; i-- {
		backwardEdges = append(backwardEdges, rotated.Edges[i].Reversed())
	}
	arm2 = RegionPath{Regions: backwardRegions, Edges: backwardEdges}

	return arm1, arm2, nil
}

// Concat appends other to p, requiring p's last region to be other's first
// region (they are fused into a single shared region, not duplicated).
func (p RegionPath) Concat(other RegionPath) (RegionPath, error) {
	if len(p.Regions) == 0 {
		return other, nil
	}
	if len(other.Regions) == 0 {
		return p, nil
	}
	if p.Regions[len(p.Regions)-1] != other.Regions[0] {
		return RegionPath{}, NewInternalError("RegionPath.Concat", "paths do not share a joining region")
	}

	regions := make([]*GraphFillRegion, 0, len(p.Regions)+len(other.Regions)-1)
	regions = append(regions, p.Regions...)
	regions = append(regions, other.Regions[1:]...)

	edges := make([]CompressedEdge, 0, len(p.Edges)+len(other.Edges))
	edges = append(edges, p.Edges...)
	edges = append(edges, other.Edges...)

	return RegionPath{Regions: regions, Edges: edges}, nil
}

// RegionMatchPair is one matched pair of regions produced by PairsMatched,
// joined by the CompressedEdge between them.
type RegionMatchPair struct {
	A, B *GraphFillRegion
	Edge CompressedEdge
}

// PairsMatched consumes an open path with an even number of regions,
// pairing Regions[0]-Regions[1], Regions[2]-Regions[3], and so on. This is
// how a blossom cycle, once split at its two alternating-tree attachment
// points, yields the internal matching for every region except the one
// still attached to the tree.
func (p RegionPath) PairsMatched() ([]RegionMatchPair, error) {
	if len(p.Regions)%2 != 0 {
		return nil, NewInternalError("RegionPath.PairsMatched", "path has an odd number of regions")
	}

	pairs := make([]RegionMatchPair, 0, len(p.Regions)/2)
	for i := 0; i+1 < len(p.Regions); i += 2 {
		pairs = append(pairs, RegionMatchPair{A: p.Regions[i], B: p.Regions[i+1], Edge: p.Edges[i]})
	}

	return pairs, nil
}
