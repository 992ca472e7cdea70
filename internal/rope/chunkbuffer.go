// Package rope provides append-only and mutable chunked storage: the
// arena layer the rest of the engine is built on.
package rope

import "sort"

const firstChunkSize = 1024

// ChunkBuffer is an append-only sequence of T, stored as a list of
// geometrically growing chunks (each new chunk is 5/4 the size of the
// previous one, starting at 1024). Existing chunks are never reallocated,
// so indexes obtained from Append remain stable for the buffer's lifetime.
type ChunkBuffer[T any] struct {
	chunks     [][]T
	chunkBegin []int // logical index of chunks[i][0]
	length     int
}

// Append adds v to the buffer and returns its logical index.
func (b *ChunkBuffer[T]) Append(v T) int {
	if len(b.chunks) == 0 || len(b.chunks[len(b.chunks)-1]) == cap(b.chunks[len(b.chunks)-1]) {
		b.growChunk()
	}
	last := len(b.chunks) - 1
	b.chunks[last] = append(b.chunks[last], v)
	idx := b.length
	b.length++
	return idx
}

func (b *ChunkBuffer[T]) growChunk() {
	size := firstChunkSize
	if len(b.chunks) > 0 {
		prev := cap(b.chunks[len(b.chunks)-1])
		size = prev * 5 / 4
	}
	b.chunks = append(b.chunks, make([]T, 0, size))
	b.chunkBegin = append(b.chunkBegin, b.length)
}

// Len returns the number of appended elements.
func (b *ChunkBuffer[T]) Len() int {
	return b.length
}

// At returns the element at logical index i via binary search over chunk
// offsets.
func (b *ChunkBuffer[T]) At(i int) T {
	ci, off := b.locate(i)
	return b.chunks[ci][off]
}

// Ptr returns a pointer to the element at logical index i, valid for the
// buffer's lifetime since chunks never reallocate.
func (b *ChunkBuffer[T]) Ptr(i int) *T {
	ci, off := b.locate(i)
	return &b.chunks[ci][off]
}

func (b *ChunkBuffer[T]) locate(i int) (chunk, offset int) {
	chunk = sort.Search(len(b.chunkBegin), func(k int) bool {
		return b.chunkBegin[k] > i
	}) - 1
	if chunk < 0 {
		panic("rope: index out of range")
	}
	return chunk, i - b.chunkBegin[chunk]
}

// ForEachIn calls fn for each element in the logical range
// [begin, begin+count), in order.
func (b *ChunkBuffer[T]) ForEachIn(begin, count int, fn func(i int, v T)) {
	for i := begin; i < begin+count; i++ {
		fn(i, b.At(i))
	}
}

// Flatten copies every appended element into a single contiguous slice.
func (b *ChunkBuffer[T]) Flatten() []T {
	out := make([]T, 0, b.length)
	for _, c := range b.chunks {
		out = append(out, c...)
	}
	return out
}
