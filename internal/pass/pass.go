// Package pass drives one or more analysis passes over a flat AST in
// bounded batches ("morsels"). Because the AST is
// laid out post-order, scanning a morsel left to right is equivalent to
// visiting that slice of the tree in post-order: children always occupy
// lower indexes than their parent.
package pass

// MorselSize is the number of nodes handed to Visit per call.
const MorselSize = 1024

// Pass is the interface every analysis stage implements. Prepare runs once
// before the first morsel, Visit runs once per morsel in order, and Finish
// runs once after the last morsel.
type Pass interface {
	Prepare()
	Visit(morsel []int, begin int)
	Finish()
}

// Run drives passes over [0, nodeCount) in order, morsel by morsel, in
// declaration order: every pass's Prepare runs, then for each morsel every
// pass's Visit runs (so passes sharing a single scan see the same morsel
// before the scan advances), then every pass's Finish runs.
//
// Visit receives the morsel expressed as the contiguous index range
// [begin, begin+len(morsel)) rather than copied node values, since the
// passes in this engine address nodes by index into a shared
// rope.ChunkBuffer/[]ast.Node rather than by value.
func Run(nodeCount int, passes ...Pass) {
	for _, p := range passes {
		p.Prepare()
	}
	for begin := 0; begin < nodeCount; begin += MorselSize {
		end := begin + MorselSize
		if end > nodeCount {
			end = nodeCount
		}
		morsel := make([]int, end-begin)
		for i := range morsel {
			morsel[i] = begin + i
		}
		for _, p := range passes {
			p.Visit(morsel, begin)
		}
	}
	for _, p := range passes {
		p.Finish()
	}
}
