package hydrology

import "container/heap"

// cell is one entry in the flood-fill priority queue: the jittered key
// (height + U), and the grid coordinates it was discovered at. Key ties
// are broken by y, then x, so the ordering is strict even in the
// vanishingly unlikely case of equal jitter.
type cell struct {
	key  float64
	y, x int
}

// cellHeap is a min-heap of cell, ordered by key ascending — the rising
// -altitude flood always pops the lowest not-yet-visited frontier cell.
type cellHeap []cell

func (h cellHeap) Len() int { return len(h) }
func (h cellHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	if h[i].y != h[j].y {
		return h[i].y < h[j].y
	}
	return h[i].x < h[j].x
}
func (h cellHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cellHeap) Push(x any) {
	*h = append(*h, x.(cell))
}

func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// floodQueue wraps cellHeap behind container/heap's package-level
// functions so callers never touch the heap invariant directly.
type floodQueue struct {
	h cellHeap
}

func newFloodQueue(capacityHint int) *floodQueue {
	q := &floodQueue{h: make(cellHeap, 0, capacityHint)}
	heap.Init(&q.h)
	return q
}

func (q *floodQueue) push(key float64, y, x int) {
	heap.Push(&q.h, cell{key: key, y: y, x: x})
}

func (q *floodQueue) pop() cell {
	return heap.Pop(&q.h).(cell)
}

func (q *floodQueue) empty() bool { return q.h.Len() == 0 }
