package engine

import (
	"sync/atomic"
	"time"

	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/score"
)

// searchData is created fresh for every idSearch call and is exclusively
// owned by the worker goroutine running it; the only shared state is the
// aborted flag it points to.
type searchData struct {
	pos           *position.Position
	limits        Limits
	startTime     time.Time
	allocatedTime time.Duration
	nbNodes       int64

	aborted *atomic.Bool // shared with the owning Engine, read-only here except via Stop

	killers [score.MaxPly][2]position.Move
	history [2][64 * 64]int32

	pv [score.MaxPly + 1]pvLine
}

func newSearchData(pos *position.Position, limits Limits, aborted *atomic.Bool) *searchData {
	sd := &searchData{
		pos:       pos,
		limits:    limits,
		startTime: time.Now(),
		aborted:   aborted,
	}
	if !limits.Infinite {
		sd.allocatedTime = allocatedTime(limits, pos.SideToMove() == position.White)
	}
	return sd
}

func (sd *searchData) incNodes() int64 {
	return atomic.AddInt64(&sd.nbNodes, 1)
}

func (sd *searchData) nodes() int64 {
	return atomic.LoadInt64(&sd.nbNodes)
}

// shouldStop reports whether the worker should abandon the current
// iteration: an explicit Stop(), a node budget, or the allocated time
// budget being exhausted.
func (sd *searchData) shouldStop() bool {
	if sd.aborted.Load() {
		return true
	}
	if sd.limits.Infinite {
		return false
	}
	if sd.limits.Nodes > 0 && sd.nodes() >= sd.limits.Nodes {
		return true
	}
	if sd.allocatedTime > 0 && time.Since(sd.startTime) >= sd.allocatedTime {
		return true
	}
	return false
}

// stop is the side-effecting counterpart of shouldStop: once any stop
// condition fires, latch aborted so every subsequent node observes it
// without recomputing the clock or node count.
func (sd *searchData) stop() {
	sd.aborted.Store(true)
}

func (sd *searchData) killer1(ply int) position.Move { return sd.killers[ply][0] }
func (sd *searchData) killer2(ply int) position.Move { return sd.killers[ply][1] }

func (sd *searchData) updateKiller(m position.Move, ply int) {
	if sd.killers[ply][0] != m {
		sd.killers[ply][1] = sd.killers[ply][0]
		sd.killers[ply][0] = m
	}
}

func historyIndex(m position.Move) int {
	return int(m.From())<<6 | int(m.To())
}

func sideIndex(white bool) int {
	if white {
		return 0
	}
	return 1
}

func (sd *searchData) historyScore(white bool, m position.Move) int32 {
	return sd.history[sideIndex(white)][historyIndex(m)]
}

// updateHistory rewards the move that caused a beta cutoff and penalizes
// the quiet moves tried and rejected before it, in the style of the
// reference engine's exponential-moving-average history table.
func (sd *searchData) updateHistory(white bool, quietsSearched []position.Move, best position.Move, depth int) {
	bonus := int32(depth * depth)
	if bonus > 400 {
		bonus = 400
	}
	side := sideIndex(white)
	for _, m := range quietsSearched {
		idx := historyIndex(m)
		good := m == best
		var target int32 = -historyMax
		if good {
			target = historyMax
		}
		sd.history[side][idx] += (target - sd.history[side][idx]) * bonus / 512
		if good {
			break
		}
	}
}

const historyMax = 1 << 14
