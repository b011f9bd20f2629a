package routingalgorithm

import (
	"errors"
)

var errEmptyHeap = errors.New("heap is empty")

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T
	seq  uint64
}

// MinHeap binary heap priorityqueue. Entries with equal Rank pop in insertion order so the
// search is deterministic. No decrease-key: stale entries are skipped by the caller.
type MinHeap[T any] struct {
	heap    []PriorityQueueNode[T]
	nextSeq uint64
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

// parent get index dari parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

// heapifyUp swap with parent while the parent is larger. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]
		index = h.parent(index)
	}
}

// heapifyDown swap with the smaller child while it is smaller than index. O(logN).
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, errEmptyHeap
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) Insert(rank float64, item T) {
	h.heap = append(h.heap, PriorityQueueNode[T]{Rank: rank, Item: item, seq: h.nextSeq})
	h.nextSeq++
	h.heapifyUp(h.Size() - 1)
}

// ExtractMin pop the minimum. O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, errEmptyHeap
	}
	root := h.heap[0]
	last := h.Size() - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	h.heapifyDown(0)
	return root, nil
}
