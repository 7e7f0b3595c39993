package core

import "container/heap"

// CompressedEdge summarizes a path through the detector graph between two
// endpoints down to the three quantities the MWPM state machine actually
// needs: the endpoints themselves (nil meaning the boundary), the xor of
// observable masks crossed, and the total distance. Expand reconstructs one
// concrete shortest underlying path on demand; nothing else in this package
// keeps the full path around, mirroring compressed_edge.py's laziness.
type CompressedEdge struct {
	From        *DetectorNode // nil means the boundary
	To          *DetectorNode // nil means the boundary
	Observables uint64
	Distance    int64
}

// Reversed swaps the two endpoints, leaving Observables and Distance
// unchanged (xor and sum are both symmetric).
func (e CompressedEdge) Reversed() CompressedEdge {
	return CompressedEdge{From: e.To, To: e.From, Observables: e.Observables, Distance: e.Distance}
}

// Merge concatenates e (A to B) with other (B to C) into a single A-to-C
// edge: observables xor, distances sum. The caller is responsible for only
// merging edges that are genuinely adjacent at B (literal *DetectorNode
// pointer equality is not required, since B is frequently represented by
// different concrete nodes on each side — any node in a region's shell area
// stands in for that region).
func (e CompressedEdge) Merge(other CompressedEdge) CompressedEdge {
	return CompressedEdge{
		From:        e.From,
		To:          other.To,
		Observables: e.Observables ^ other.Observables,
		Distance:    e.Distance + other.Distance,
	}
}

// searchItem is one entry in the Dijkstra frontier, modeled on
// dijkstra.nodePQ: a lazy-decrease-key min-heap ordered by tentative
// distance, with stale entries (superseded by a shorter distance found
// later) simply skipped when popped rather than removed in place.
type searchItem struct {
	node *DetectorNode
	dist int64
	seq  int
}

type searchPQ []searchItem

func (pq searchPQ) Len() int { return len(pq) }
func (pq searchPQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq searchPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *searchPQ) Push(x any)   { *pq = append(*pq, x.(searchItem)) }
func (pq *searchPQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// Expand reconstructs one shortest path of primitive graph edges realizing
// e, running Dijkstra's algorithm from e.From (or, when e.From is the
// boundary, from every node with a boundary edge simultaneously) to e.To (or
// the nearest node with a boundary edge, when e.To is the boundary).
//
// Complexity: O((V + E) log V).
func (e CompressedEdge) Expand() ([]GraphEdge, error) {
	if e.From == nil && e.To == nil {
		return nil, NewInternalError("CompressedEdge.Expand", "both endpoints are the boundary")
	}

	g := e.From.graphOrNil()
	if g == nil {
		g = e.To.graphOrNil()
	}
	if g == nil {
		return nil, NewInternalError("CompressedEdge.Expand", "endpoint has no owning graph")
	}

	nodes := g.allNodes()
	for _, n := range nodes {
		n.resetSearchState()
	}
	defer func() {
		for _, n := range nodes {
			n.resetSearchState()
		}
	}()

	pq := &searchPQ{}
	heap.Init(pq)
	seq := 0

	seedBoundary := func(n *DetectorNode) {
		for i := 0; i < n.NumNeighbors(); i++ {
			if n.IsBoundarySlot(i) {
				w := n.neighborWeights[i]
				if !n.searchHasDist || w < n.searchDist {
					n.searchDist = w
					n.searchHasDist = true
					n.searchPredNode = nil
					n.searchPredSlot = i
				}
			}
		}
	}

	if e.From != nil {
		e.From.searchDist = 0
		e.From.searchHasDist = true
		e.From.searchPredNode = nil
		e.From.searchPredSlot = -1
	} else {
		for _, n := range nodes {
			seedBoundary(n)
		}
	}

	for _, n := range nodes {
		if n.searchHasDist {
			seq++
			heap.Push(pq, searchItem{node: n, dist: n.searchDist, seq: seq})
		}
	}

	var bestBoundaryFinish *DetectorNode
	var bestBoundaryTotal int64
	haveBoundaryFinish := false

	for pq.Len() > 0 {
		item := heap.Pop(pq).(searchItem)
		n := item.node
		if n.searchSettled || item.dist != n.searchDist {
			continue // stale entry, superseded by a better distance
		}
		n.searchSettled = true

		if e.To != nil && n == e.To {
			break
		}
		if e.To == nil {
			for i := 0; i < n.NumNeighbors(); i++ {
				if n.IsBoundarySlot(i) {
					total := n.searchDist + n.neighborWeights[i]
					if !haveBoundaryFinish || total < bestBoundaryTotal {
						bestBoundaryTotal = total
						bestBoundaryFinish = n
						haveBoundaryFinish = true
					}
				}
			}
			if haveBoundaryFinish && n.searchDist >= bestBoundaryTotal {
				break
			}
		}

		for i := 0; i < n.NumNeighbors(); i++ {
			nb := n.neighbors[i]
			if nb == nil || nb.searchSettled {
				continue
			}
			cand := n.searchDist + n.neighborWeights[i]
			if !nb.searchHasDist || cand < nb.searchDist {
				nb.searchDist = cand
				nb.searchHasDist = true
				nb.searchPredNode = n
				nb.searchPredSlot = i
				seq++
				heap.Push(pq, searchItem{node: nb, dist: cand, seq: seq})
			}
		}
	}

	var endNode *DetectorNode
	var trailingBoundaryWeight int64
	var trailingBoundaryObservables uint64
	hasTrailingBoundary := false

	if e.To != nil {
		if !e.To.searchHasDist {
			return nil, ErrNoPath
		}
		endNode = e.To
	} else {
		if !haveBoundaryFinish {
			return nil, ErrNoPath
		}
		endNode = bestBoundaryFinish
		for i := 0; i < endNode.NumNeighbors(); i++ {
			if endNode.IsBoundarySlot(i) && endNode.searchDist+endNode.neighborWeights[i] == bestBoundaryTotal {
				trailingBoundaryWeight = endNode.neighborWeights[i]
				trailingBoundaryObservables = endNode.neighborObservables[i]
				hasTrailingBoundary = true
				break
			}
		}
	}

	// Walk predecessors back to a source, collecting edges in reverse.
	var reversedEdges []GraphEdge
	cur := endNode
	for {
		if cur.searchPredNode == nil && cur.searchPredSlot == -1 {
			break // reached e.From itself
		}
		if cur.searchPredNode == nil {
			// reached via a boundary seed: this is the leading edge.
			slot := cur.searchPredSlot
			reversedEdges = append(reversedEdges, GraphEdge{
				From:         cur.Key,
				ToIsBoundary: true,
				Weight:       cur.neighborWeights[slot],
				Observables:  cur.neighborObservables[slot],
			})
			break
		}
		pred := cur.searchPredNode
		slot := cur.searchPredSlot
		reversedEdges = append(reversedEdges, GraphEdge{
			From:        pred.Key,
			To:          cur.Key,
			Weight:      pred.neighborWeights[slot],
			Observables: pred.neighborObservables[slot],
		})
		cur = pred
	}

	out := make([]GraphEdge, 0, len(reversedEdges)+1)
	for i := len(reversedEdges) - 1; i >= 0; i-- {
		out = append(out, reversedEdges[i])
	}
	if hasTrailingBoundary {
		out = append(out, GraphEdge{
			From:         endNode.Key,
			ToIsBoundary: true,
			Weight:       trailingBoundaryWeight,
			Observables:  trailingBoundaryObservables,
		})
	}

	return out, nil
}

// graphOrNil returns n's owning graph, or nil if n itself is nil (the
// boundary).
func (n *DetectorNode) graphOrNil() *Graph {
	if n == nil {
		return nil
	}

	return n.graph
}
