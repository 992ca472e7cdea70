package ast

// AttributeIndex is a flat scratch array of node indexes keyed by
// AttributeKey, used during a single node's visitation to look up its
// children by attribute in O(1) instead of scanning the children range.
//
// At most one Guard may be alive at a time for a given AttributeIndex: Load
// populates the slots for the children passed in and returns a Guard; the
// Guard's Release clears exactly those slots. This mirrors a scoped
// deterministic-release discipline (call Release via defer) rather than
// relying on garbage collection or a finalizer.
type AttributeIndex struct {
	slots []uint32 // NullIndex where absent
	live  bool
}

// NewAttributeIndex allocates an index sized to the full AttributeKey
// range. It is constructed per analysis run (passed by reference to the
// pass that owns it) rather than held as global/thread-local state.
func NewAttributeIndex() *AttributeIndex {
	idx := &AttributeIndex{slots: make([]uint32, attrKeyCount)}
	for i := range idx.slots {
		idx.slots[i] = NullIndex
	}
	return idx
}

// Guard clears the slots it was handed when Release is called.
type Guard struct {
	idx     *AttributeIndex
	touched []AttributeKey
}

// Release clears every slot this guard touched. Safe to call multiple
// times; only the first call has an effect.
func (g *Guard) Release() {
	if g == nil || g.idx == nil {
		return
	}
	for _, k := range g.touched {
		g.idx.slots[k] = NullIndex
	}
	g.idx.live = false
	g.idx = nil
}

// Load indexes children (node indexes into the owning ChunkBuffer) by their
// AttributeKey and returns a Guard that must be Released before the next
// Load on the same AttributeIndex.
func (a *AttributeIndex) Load(children []uint32, attrOf func(childIdx uint32) AttributeKey) *Guard {
	if a.live {
		panic("ast: AttributeIndex already has a live guard")
	}
	g := &Guard{idx: a}
	for _, c := range children {
		k := attrOf(c)
		if k == AttrNone {
			continue
		}
		a.slots[k] = c
		g.touched = append(g.touched, k)
	}
	a.live = true
	return g
}

// Get returns the node index stored under key, or NullIndex if absent.
func (a *AttributeIndex) Get(key AttributeKey) uint32 {
	return a.slots[key]
}
