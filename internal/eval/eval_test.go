package eval

import (
	"testing"

	"github.com/corvidchess/corvid/internal/position"
)

func TestStartPositionIsBalanced(t *testing.T) {
	p := position.StartPosition()
	if s := Evaluate(p); s != 0 {
		t.Fatalf("symmetric start position should evaluate to 0, got %d", s)
	}
}

func TestExtraQueenFavorsItsSide(t *testing.T) {
	p, err := position.FromFEN("4k2Q/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if s := Evaluate(p); s <= 0 {
		t.Fatalf("white up a queen to move should evaluate positive, got %d", s)
	}
}

func TestPawnTableFavorsAdvancedPawnForWhite(t *testing.T) {
	back, err := position.FromFEN("4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	advanced, err := position.FromFEN("4k3/8/P7/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if Evaluate(advanced) <= Evaluate(back) {
		t.Fatalf("white pawn on a6 (%d) should score higher than the same pawn on a2 (%d)",
			Evaluate(advanced), Evaluate(back))
	}
}
