package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"github.com/corvidchess/corvid/pkg/score"
)

func TestTranspositionTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	var hash uint64 = 0xdeadbeefcafef00d
	tt.Store(hash, 2, 5, score.Score(37), score.BoundExact, dragontoothmg.Move(0x1234), score.None)

	hit, depth, s, bound, move, _ := tt.Probe(hash, 2)
	if !hit {
		t.Fatal("expected hit after store")
	}
	if depth != 5 || s != 37 || bound != score.BoundExact || move != dragontoothmg.Move(0x1234) {
		t.Fatalf("unexpected probe result: depth=%d score=%d bound=%v move=%v", depth, s, bound, move)
	}
}

func TestTranspositionTableMissOnDifferentKey(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0x1111111111111111, 0, 4, 10, score.BoundExact, dragontoothmg.NoMove, score.None)

	hit, _, _, _, _, _ := tt.Probe(0x2222222222222222, 0)
	if hit {
		t.Fatal("expected miss for a key that was never stored")
	}
}

func TestTranspositionTableClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0xabc, 0, 3, 1, score.BoundExact, dragontoothmg.NoMove, score.None)
	tt.Clear()

	hit, _, _, _, _, _ := tt.Probe(0xabc, 0)
	if hit {
		t.Fatal("expected miss after Clear")
	}
}

func TestTranspositionTableMateScorePlyAdjustment(t *testing.T) {
	tt := NewTranspositionTable(1)
	var hash uint64 = 42
	// a mate score stored at ply 6 is kept relative to the storing node.
	tt.Store(hash, 6, 1, score.WinIn(2), score.BoundExact, dragontoothmg.NoMove, score.None)

	_, _, s, _, _, _ := tt.Probe(hash, 6)
	if s != score.WinIn(2) {
		t.Fatalf("probe at the storing ply should reverse the ply adjustment exactly: got %d want %d", s, score.WinIn(2))
	}
}
