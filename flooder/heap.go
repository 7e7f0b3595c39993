package flooder

import "github.com/katalvlaran/slowmatch/core"

// eventQueue is a min-heap of core.TentativeEvent ordered by (Time, Seq),
// modeled on dijkstra.nodePQ: entries are never removed in place when
// superseded, only marked invalid via TentativeEvent.Invalidate and skipped
// when popped. This keeps every schedule/reschedule operation O(log n)
// instead of requiring an O(n) search-and-remove.
type eventQueue []core.TentativeEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].Time() != q[j].Time() {
		return q[i].Time() < q[j].Time()
	}

	return q[i].Seq() < q[j].Seq()
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(core.TentativeEvent))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}

// peekValid reports whether any event remaining in the queue is still
// valid, without mutating the queue. Used by HasValidEventsQueued, which
// must not have the side effect of discarding stale entries the way a real
// pop-until-valid scan would.
func (q eventQueue) peekValid() bool {
	for _, e := range q {
		if e.IsValid() {
			return true
		}
	}

	return false
}
