package engine

import (
	"github.com/dylhunn/dragontoothmg"

	"github.com/corvidchess/corvid/pkg/score"
)

// entry is a single transposition-table slot. Sized to stay cache-line
// friendly; the lock-free CAS-gated layout used when a table is shared
// across search threads is unnecessary here, since this engine's Non-goal
// on multi-threaded search means the table is touched by exactly one
// goroutine for the life of a search.
type entry struct {
	key16 uint16
	move  dragontoothmg.Move
	score int16
	eval  int16
	depth int8
	bound score.Bound
	age   uint16
}

// TranspositionTable is the single-worker TT collaborator used by pvSearch
// and qSearch. Replacement policy: a slot holding the same position is
// overwritten unless the new result is more than three plies shallower
// and not an exact bound; a slot holding another position is overwritten
// when it comes from an older search generation or is no deeper than the
// new result.
type TranspositionTable struct {
	entries []entry
	mask    uint64
	age     uint16
}

// NewTranspositionTable allocates a table sized to roughly megabytes MB.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	size := roundPowerOfTwo(1024 * 1024 * megabytes / 16)
	if size < 1 {
		size = 1
	}
	return &TranspositionTable{
		entries: make([]entry, size),
		mask:    uint64(size - 1),
	}
}

func roundPowerOfTwo(n int) int {
	x := 1
	for x<<1 <= n {
		x <<= 1
	}
	return x
}

// Clear wipes every slot and resets the age generation.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = entry{}
	}
	tt.age = 0
}

// NewSearch ages the table, marking existing entries as eligible for
// eager replacement without erasing them.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Probe looks up hash. If found, the returned score is already converted
// to be relative to ply via score.FromTT.
func (tt *TranspositionTable) Probe(hash uint64, ply int) (hit bool, depth int, s score.Score, bound score.Bound, move dragontoothmg.Move, staticEval score.Score) {
	e := &tt.entries[hash&tt.mask]
	if e.key16 != uint16(hash>>48) || e.bound == score.BoundNone {
		return false, 0, score.None, score.BoundNone, dragontoothmg.NoMove, score.None
	}
	return true, int(e.depth), score.FromTT(score.Score(e.score), ply), e.bound, e.move, score.Score(e.eval)
}

// Store writes a result computed at ply into the table, converting s to
// the ply-independent mate-distance form before persisting it.
func (tt *TranspositionTable) Store(hash uint64, ply, depth int, s score.Score, bound score.Bound, move dragontoothmg.Move, staticEval score.Score) {
	e := &tt.entries[hash&tt.mask]
	key16 := uint16(hash >> 48)

	if e.bound != score.BoundNone && e.key16 == key16 {
		if depth < int(e.depth)-3 && bound != score.BoundExact {
			return
		}
	} else if e.bound != score.BoundNone && e.age == tt.age && depth < int(e.depth) {
		return
	}

	if move == dragontoothmg.NoMove && e.key16 == key16 {
		move = e.move // keep a known good move when this store has none (e.g. fail-low)
	}

	e.key16 = key16
	e.move = move
	e.score = int16(score.ToTT(s, ply))
	e.eval = int16(staticEval)
	e.depth = int8(depth)
	e.bound = bound
	e.age = tt.age
}

// Usage reports table fill in permille, sampled over a fixed prefix as the
// reference engines do rather than scanning the whole table every report.
func (tt *TranspositionTable) Usage() int {
	const sample = 1000
	n := len(tt.entries)
	if n == 0 {
		return 0
	}
	if n > sample {
		n = sample
	}
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].bound != score.BoundNone && tt.entries[i].age == tt.age {
			used++
		}
	}
	return used * 1000 / n
}
