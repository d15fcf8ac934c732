package decoder

import (
	"container/heap"
	"strconv"
	"strings"
)

// CubeQueue lazily enumerates instantiated hyperedges from a set of bundles
// in approximately descending score order. It is seeded with the top corner
// of every bundle; each pop pushes the popped entry's one-coordinate
// neighbors. Descending order holds per axis, so the queue's pops are a
// best-first heuristic, not a global guarantee.
type CubeQueue struct {
	scorer  Scorer
	items   cubeHeap
	seen    map[string]bool
	indices map[*Bundle]int
	nextSeq int
}

// cubeItem is one coordinate tuple of one bundle: coords[0] ranks the rule,
// coords[i+1] ranks the vertex in the i-th site's stack.
type cubeItem struct {
	bundle *Bundle
	coords []int
	score  float64
	seq    int
}

// NewCubeQueue seeds the queue with the origin corner of every bundle. A
// bundle with an empty axis contributes nothing.
func NewCubeQueue(scorer Scorer, bundles []*Bundle) *CubeQueue {
	q := &CubeQueue{
		scorer:  scorer,
		seen:    make(map[string]bool),
		indices: make(map[*Bundle]int, len(bundles)),
	}
	for i, b := range bundles {
		q.indices[b] = i
		q.push(b, make([]int, 1+len(b.Stacks)))
	}
	return q
}

// IsEmpty reports whether the queue is exhausted.
func (q *CubeQueue) IsEmpty() bool {
	return q.items.Len() == 0
}

// Pop instantiates the current best coordinate tuple into a hyperedge with
// a fresh provisional head vertex, then pushes its unvisited neighbors.
func (q *CubeQueue) Pop() *SHyperedge {
	item := heap.Pop(&q.items).(*cubeItem)
	b := item.bundle

	tail := make([]*SVertex, len(b.Stacks))
	for i, stack := range b.Stacks {
		tail[i] = stack[item.coords[i+1]]
	}
	edge := &SHyperedge{
		Head:  &SVertex{Node: b.Head},
		Tail:  tail,
		Rule:  b.Rules[item.coords[0]],
		Score: item.score,
	}
	edge.Head.Best = edge

	for axis := range item.coords {
		next := make([]int, len(item.coords))
		copy(next, item.coords)
		next[axis]++
		q.push(b, next)
	}
	return edge
}

// push enqueues a coordinate tuple if it is in range and not yet visited.
func (q *CubeQueue) push(b *Bundle, coords []int) {
	if coords[0] >= len(b.Rules) {
		return
	}
	for i, stack := range b.Stacks {
		if coords[i+1] >= len(stack) {
			return
		}
	}
	key := coordKey(q.indices[b], coords)
	if q.seen[key] {
		return
	}
	q.seen[key] = true

	tailScores := make([]float64, len(b.Stacks))
	for i, stack := range b.Stacks {
		tailScores[i] = stack[coords[i+1]].Score()
	}
	item := &cubeItem{
		bundle: b,
		coords: coords,
		score:  q.scorer.Score(b.Rules[coords[0]], tailScores),
		seq:    q.nextSeq,
	}
	q.nextSeq++
	heap.Push(&q.items, item)
}

func coordKey(bundle int, coords []int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(bundle))
	for _, c := range coords {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// cubeHeap is a max-heap on score; insertion order breaks ties so pops are
// reproducible.
type cubeHeap []*cubeItem

func (h cubeHeap) Len() int { return len(h) }
func (h cubeHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].seq < h[j].seq
}
func (h cubeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *cubeHeap) Push(x any)   { *h = append(*h, x.(*cubeItem)) }
func (h *cubeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
