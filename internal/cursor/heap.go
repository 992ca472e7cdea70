package cursor

// TopKHeap is a fixed-capacity min-heap: it fills to k entries, then each
// subsequent Insert replaces the current minimum if the new score beats
// it and sifts down. Insert is O(log k) and allocates nothing beyond the
// initial backing slice; Sorted copies the entries and insertion-sorts
// the copy.
type TopKHeap[T any] struct {
	cap   int
	items []item[T]
	seq   int // insertion sequence, for stable tie-breaking
}

type item[T any] struct {
	value T
	score float64
	seq   int
}

// NewTopKHeap constructs a heap with the given capacity.
func NewTopKHeap[T any](k int) *TopKHeap[T] {
	return &TopKHeap[T]{cap: k, items: make([]item[T], 0, k)}
}

// Len returns the number of entries currently held (<= capacity).
func (h *TopKHeap[T]) Len() int { return len(h.items) }

// Insert adds (value, score) if there is room, or if score beats the
// current minimum. Ties are broken by insertion order.
func (h *TopKHeap[T]) Insert(value T, score float64) {
	it := item[T]{value: value, score: score, seq: h.seq}
	h.seq++
	if len(h.items) < h.cap {
		h.items = append(h.items, it)
		h.siftUp(len(h.items) - 1)
		return
	}
	if h.cap == 0 || !heapLess(h.items[0], it) {
		return
	}
	h.items[0] = it
	h.siftDown(0)
}

// Sorted returns the held entries in descending score order (ties broken
// by insertion order, earlier wins). The heap itself is left unchanged.
func (h *TopKHeap[T]) Sorted() []T {
	ranked := make([]item[T], len(h.items))
	copy(ranked, h.items)
	// Insertion sort; k is small.
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && rankLess(ranked[j-1], ranked[j]) {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
			j--
		}
	}
	out := make([]T, len(ranked))
	for i, it := range ranked {
		out[i] = it.value
	}
	return out
}

// rankLess reports whether a belongs strictly after b in descending
// output order (higher score first, earlier insertion first on a tie) --
// used as the insertion-sort swap condition in Sorted.
func rankLess[T any](a, b item[T]) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.seq > b.seq
}

func (h *TopKHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !heapLess(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *TopKHeap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && heapLess(h.items[l], h.items[smallest]) {
			smallest = l
		}
		if r < n && heapLess(h.items[r], h.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// heapLess is the min-heap ordering: lower score is "smaller" (evicted
// first); on a score tie, the later insertion (higher seq) is "smaller".
// A fresh equal-score candidate is therefore never less than the held
// minimum and does not displace it, so on ties the earlier insertion
// stays in the output (matching rankLess above).
func heapLess[T any](a, b item[T]) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.seq > b.seq
}
