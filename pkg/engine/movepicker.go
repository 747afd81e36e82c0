package engine

import (
	"github.com/dylhunn/dragontoothmg"

	"github.com/corvidchess/corvid/internal/position"
)

// pickerMode selects which subset of legal moves a MovePicker yields,
// per the collaborator contract: MAIN for every legal move in a pvSearch
// node, Quiescence for noisy moves only (or every evasion when in check).
type pickerMode int

const (
	Main pickerMode = iota
	Quiescence
)

const sortKeyImportant = 100000

// MovePicker stages legal moves for a node: the transposition-table hint
// first, then captures and promotions ordered by MVV-LVA (good captures
// ranked ahead of killers, bad captures ranked with history), then the
// two killer moves, then remaining quiets ordered by history score. The
// exact stage order is an ordering heuristic, not part of the
// collaborator contract; only legality and completeness are guaranteed.
type MovePicker struct {
	buf     []position.OrderedMove
	count   int
	index   int
	inCheck bool
}

// Init populates the picker for one node. ttMove, killer1 and killer2 may
// be the zero move when unknown.
func (mp *MovePicker) Init(mode pickerMode, pos *position.Position, sd *searchData, ply int, ttMove position.Move) {
	white := pos.SideToMove() == position.White

	var inCheck bool
	switch mode {
	case Quiescence:
		mp.buf, inCheck = pos.NoisyMoves(mp.buf)
	default:
		mp.buf = pos.Moves(mp.buf)
		inCheck = pos.InCheck()
	}
	mp.inCheck = inCheck
	mp.count = len(mp.buf)
	mp.index = 0

	killer1, killer2 := sd.killer1(ply), sd.killer2(ply)

	for i := 0; i < mp.count; i++ {
		m := mp.buf[i].Move
		var key int32
		switch {
		case m == ttMove:
			key = sortKeyImportant + 2000
		case pos.IsCaptureOrPromotion(m):
			if isGoodCapture(pos, m) {
				key = sortKeyImportant + 1000 + int32(mvvlva(pos, m))
			} else {
				key = int32(mvvlva(pos, m))
			}
		case mode == Main && m == killer1:
			key = sortKeyImportant + 1
		case mode == Main && m == killer2:
			key = sortKeyImportant
		default:
			key = sd.historyScore(white, m)
		}
		mp.buf[i].Key = key
	}
}

// InCheck reports whether the position this picker was initialized for
// has its side to move in check, broadening quiescence to all evasions.
func (mp *MovePicker) InCheck() bool { return mp.inCheck }

// Next returns the next move in staged order, or position.NoMove when
// exhausted. It lazily selects the best remaining candidate rather than
// fully sorting upfront, since most nodes resolve after a handful of
// moves via a cutoff.
func (mp *MovePicker) Next() position.Move {
	if mp.index >= mp.count {
		return position.NoMove
	}
	best := mp.index
	for i := mp.index + 1; i < mp.count; i++ {
		if mp.buf[i].Key > mp.buf[best].Key {
			best = i
		}
	}
	if best != mp.index {
		mp.buf[mp.index], mp.buf[best] = mp.buf[best], mp.buf[mp.index]
	}
	m := mp.buf[mp.index].Move
	mp.index++
	return m
}

var pieceValues = [...]int32{
	dragontoothmg.Pawn:   1,
	dragontoothmg.Knight: 3,
	dragontoothmg.Bishop: 3,
	dragontoothmg.Rook:   5,
	dragontoothmg.Queen:  9,
	dragontoothmg.King:   20,
}

func mvvlva(pos *position.Position, m position.Move) int {
	_, moving, _ := pos.PieceAt(m.From())
	var captured dragontoothmg.Piece
	if _, victim, ok := pos.PieceAt(m.To()); ok {
		captured = victim
	}
	return int(8*(pieceValues[captured]+pieceValues[m.Promote()]) - pieceValues[moving])
}

// isGoodCapture is a cheap static-exchange stand-in: a capture is "good"
// when the captured piece is worth at least as much as the moving piece,
// or when it is a promotion. Full static exchange evaluation needs
// attacker enumeration the move generator does not expose publicly;
// this heuristic keeps bad trades like QxP-defended out of the
// high-priority bucket without it.
func isGoodCapture(pos *position.Position, m position.Move) bool {
	if m.Promote() != dragontoothmg.Nothing {
		return true
	}
	_, moving, _ := pos.PieceAt(m.From())
	_, captured, ok := pos.PieceAt(m.To())
	if !ok {
		return true // en passant: always pawn-takes-pawn
	}
	return pieceValues[captured] >= pieceValues[moving]
}
