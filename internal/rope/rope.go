package rope

import "unicode/utf8"

const targetChunkBytes = 4096

// Rope is a chunked mutable text buffer supporting insert/erase by byte
// offset and contiguous reads. Edit positions are snapped to the nearest
// preceding UTF-8 code point boundary so an edit never splits a rune.
type Rope struct {
	chunks []string
}

// NewRope builds a Rope from an initial string, splitting it into chunks of
// roughly targetChunkBytes bytes (split at rune boundaries).
func NewRope(text string) *Rope {
	r := &Rope{}
	r.chunks = splitIntoChunks(text)
	return r
}

func splitIntoChunks(text string) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for len(text) > 0 {
		n := targetChunkBytes
		if n >= len(text) {
			chunks = append(chunks, text)
			break
		}
		n = snapDown(text, n)
		if n == 0 {
			// a single rune longer than targetChunkBytes: take it whole
			_, w := utf8.DecodeRuneInString(text)
			n = w
		}
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	return chunks
}

// snapDown moves offset back to the nearest rune boundary at or before it.
func snapDown(s string, offset int) int {
	if offset >= len(s) {
		return len(s)
	}
	for offset > 0 && !utf8.RuneStart(s[offset]) {
		offset--
	}
	return offset
}

// Size returns the total byte length of the rope's text.
func (r *Rope) Size() int {
	n := 0
	for _, c := range r.chunks {
		n += len(c)
	}
	return n
}

// Read returns the bytes of [offset, offset+length) as a fresh slice:
// a range within a single chunk is converted from that chunk directly,
// and a range spanning several chunks is appended chunk by chunk.
func (r *Rope) Read(offset, length int) []byte {
	if length == 0 {
		return nil
	}
	pos := 0
	end := offset + length
	var out []byte
	for _, c := range r.chunks {
		cEnd := pos + len(c)
		if cEnd > offset && pos < end {
			lo := max(0, offset-pos)
			hi := min(len(c), end-pos)
			if out == nil && pos <= offset && cEnd >= end {
				// entirely within this chunk: one conversion, no appending
				return []byte(c[lo:hi])
			}
			out = append(out, c[lo:hi]...)
		}
		pos = cEnd
	}
	return out
}

// String materializes the entire rope as a string.
func (r *Rope) String() string {
	if len(r.chunks) == 1 {
		return r.chunks[0]
	}
	b := r.Read(0, r.Size())
	return string(b)
}

// InsertAt inserts text at offset, snapped left to the nearest code-point
// boundary.
func (r *Rope) InsertAt(offset int, text string) {
	if text == "" {
		return
	}
	offset = r.snapOffset(offset)
	whole := r.String()
	if offset > len(whole) {
		offset = len(whole)
	}
	merged := whole[:offset] + text + whole[offset:]
	r.chunks = splitIntoChunks(merged)
}

// EraseAt removes length bytes starting at offset. The range is clamped to
// the buffer bounds and snapped to code-point boundaries.
func (r *Rope) EraseAt(offset, length int) {
	size := r.Size()
	offset = clamp(offset, 0, size)
	end := clamp(offset+length, 0, size)
	offset = r.snapOffset(offset)
	end = r.snapOffset(end)
	if end <= offset {
		return
	}
	whole := r.String()
	merged := whole[:offset] + whole[end:]
	r.chunks = splitIntoChunks(merged)
}

func (r *Rope) snapOffset(offset int) int {
	whole := r.String()
	return snapDown(whole, clamp(offset, 0, len(whole)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
