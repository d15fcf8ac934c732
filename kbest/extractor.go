package kbest

import (
	"container/heap"
	"fmt"

	"github.com/teatak/treedec/decoder"
)

// The extractor enumerates whole-sentence derivations lazily, in descending
// score order, by running local cube pruning over each vertex's incoming
// hyperedges (the best one plus its recombined alternatives). Vertex k-best
// lists are memoized, so asking for more derivations only pays for the new
// ones.

// KVertex wraps a search vertex with its derivation bookkeeping.
type KVertex struct {
	sv         *decoder.SVertex
	edges      []*KHyperedge
	kbest      []*Derivation
	candidates derivHeap
	seen       map[string]bool
	seeded     bool
	nextSeq    int
}

// KHyperedge mirrors one instantiated hyperedge inside the extraction
// lattice. S is nil only for the synthetic unary edges of the supremal
// vertex built over a stack.
type KHyperedge struct {
	Head  *KVertex
	Tail  []*KVertex
	S     *decoder.SHyperedge
	score float64
}

// Derivation is one complete recursive choice of hyperedges. BackPointers
// selects, per tail position, an entry of that tail vertex's k-best list;
// Subderivations caches the selected entries. Never mutated after creation.
type Derivation struct {
	Edge           *KHyperedge
	BackPointers   []int
	Subderivations []*Derivation
	Score          float64
	seq            int
}

// Extractor extracts k-best derivation lists from vertex stacks.
type Extractor struct {
	vertices map[*decoder.SVertex]*KVertex
}

// NewExtractor creates an empty extractor.
func NewExtractor() *Extractor {
	return &Extractor{vertices: make(map[*decoder.SVertex]*KVertex)}
}

// Extract returns up to k derivations of the stack's vertices, best first.
// A supremal vertex with one unary edge per stack entry merges the per-key
// canonical vertices into a single enumeration.
func (x *Extractor) Extract(stack decoder.Stack, k int) []*Derivation {
	if k == 0 || len(stack) == 0 {
		return nil
	}
	sup := &KVertex{seen: make(map[string]bool)}
	for _, v := range stack {
		kv := x.vertex(v)
		sup.edges = append(sup.edges, &KHyperedge{
			Head:  sup,
			Tail:  []*KVertex{kv},
			score: v.Score(),
		})
	}
	x.lazyKthBest(sup, k)
	out := make([]*Derivation, len(sup.kbest))
	for i, d := range sup.kbest {
		out[i] = d.Subderivations[0]
	}
	return out
}

// vertex returns the memoized wrapper for a search vertex, building its
// incoming lattice edges on first use.
func (x *Extractor) vertex(v *decoder.SVertex) *KVertex {
	if kv, ok := x.vertices[v]; ok {
		return kv
	}
	kv := &KVertex{sv: v, seen: make(map[string]bool)}
	x.vertices[v] = kv
	if v.Best != nil {
		kv.edges = append(kv.edges, x.edge(kv, v.Best))
		for _, h := range v.Recombined {
			kv.edges = append(kv.edges, x.edge(kv, h))
		}
	}
	return kv
}

func (x *Extractor) edge(head *KVertex, h *decoder.SHyperedge) *KHyperedge {
	e := &KHyperedge{Head: head, S: h, score: h.Score}
	for _, t := range h.Tail {
		e.Tail = append(e.Tail, x.vertex(t))
	}
	return e
}

// lazyKthBest grows the vertex's k-best list to k entries, or as many as
// exist. Candidates start as the zero-backpointer derivation of every
// incoming edge; each accepted entry then opens its neighbors.
func (x *Extractor) lazyKthBest(v *KVertex, k int) {
	if !v.seeded {
		v.seeded = true
		for _, e := range v.edges {
			if d := x.derivation(e, make([]int, len(e.Tail))); d != nil {
				x.pushCandidate(v, d)
			}
		}
	}
	for len(v.kbest) < k {
		if n := len(v.kbest); n > 0 {
			x.lazyNext(v, v.kbest[n-1])
		}
		if v.candidates.Len() == 0 {
			break
		}
		v.kbest = append(v.kbest, heap.Pop(&v.candidates).(*Derivation))
	}
}

// lazyNext queues the derivations adjacent to d: one backpointer advanced
// by one, all others unchanged.
func (x *Extractor) lazyNext(head *KVertex, d *Derivation) {
	for i := range d.Edge.Tail {
		bp := make([]int, len(d.BackPointers))
		copy(bp, d.BackPointers)
		bp[i]++
		if nd := x.derivation(d.Edge, bp); nd != nil {
			x.pushCandidate(head, nd)
		}
	}
}

// derivation materializes the derivation selected by the backpointers, or
// nil when a tail vertex has too few derivations. The score adjusts the
// edge's base score by each tail's distance from its best.
func (x *Extractor) derivation(e *KHyperedge, bp []int) *Derivation {
	subs := make([]*Derivation, len(e.Tail))
	score := e.score
	for i, tv := range e.Tail {
		x.lazyKthBest(tv, bp[i]+1)
		if bp[i] >= len(tv.kbest) {
			return nil
		}
		subs[i] = tv.kbest[bp[i]]
		score += subs[i].Score - tv.sv.Score()
	}
	return &Derivation{Edge: e, BackPointers: bp, Subderivations: subs, Score: score}
}

func (x *Extractor) pushCandidate(v *KVertex, d *Derivation) {
	sig := fmt.Sprintf("%p:%v", d.Edge, d.BackPointers)
	if v.seen[sig] {
		return
	}
	v.seen[sig] = true
	d.seq = v.nextSeq
	v.nextSeq++
	heap.Push(&v.candidates, d)
}

// derivHeap is a max-heap on derivation score; insertion order breaks ties.
type derivHeap []*Derivation

func (h derivHeap) Len() int { return len(h) }
func (h derivHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	return h[i].seq < h[j].seq
}
func (h derivHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *derivHeap) Push(x any)   { *h = append(*h, x.(*Derivation)) }
func (h *derivHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
