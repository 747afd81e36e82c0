package engine

import "github.com/corvidchess/corvid/internal/position"

// pvLine is one slot of the triangular principal-variation table indexed
// by ply; pvSearch writes into sd.pv[ply] and assign() splices a child
// line behind the move that produced it, avoiding per-node allocation.
type pvLine struct {
	items [128]position.Move
	size  int
}

func (l *pvLine) clear() {
	l.size = 0
}

// assign records m as the move at this ply, followed by the child line.
func (l *pvLine) assign(m position.Move, child *pvLine) {
	l.items[0] = m
	copy(l.items[1:], child.items[:child.size])
	l.size = child.size + 1
}

func (l *pvLine) toSlice() []position.Move {
	out := make([]position.Move, l.size)
	copy(out, l.items[:l.size])
	return out
}
