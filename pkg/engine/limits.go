package engine

import (
	"time"

	"github.com/corvidchess/corvid/internal/position"
)

// Limits configures one Search call. Zero values mean "unbounded". The
// clock fields take effect only when the side to move has positive
// remaining time, and a positive MoveTime replaces them.
type Limits struct {
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration
	MovesToGo      int
	MoveTime       time.Duration
	Depth          int
	Nodes          int64
	Infinite       bool
	SearchMoves    []position.Move
}

const defaultMovesToGo = 40

// allocatedTime computes the soft time budget for the side to move: split
// the remaining clock evenly over the expected remaining moves and add
// the increment. A zero result disables the time-based stop.
func allocatedTime(l Limits, whiteToMove bool) time.Duration {
	if l.MoveTime > 0 {
		return l.MoveTime
	}
	var main, inc time.Duration
	if whiteToMove {
		main, inc = l.WhiteTime, l.WhiteIncrement
	} else {
		main, inc = l.BlackTime, l.BlackIncrement
	}
	if main <= 0 {
		return 0
	}
	moves := l.MovesToGo
	if moves <= 0 {
		moves = defaultMovesToGo
	}
	return main/time.Duration(moves) + inc
}
