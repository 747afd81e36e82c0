package position

import "testing"

func TestStartPositionMoveCount(t *testing.T) {
	p := StartPosition()
	moves := p.Moves(nil)
	if len(moves) != 20 {
		t.Fatalf("start position has 20 legal moves, got %d", len(moves))
	}
}

func TestDoMoveUndoRestoresHash(t *testing.T) {
	p := StartPosition()
	before := p.Hash()
	moves := p.Moves(nil)
	p.DoMove(moves[0].Move)
	if p.Hash() == before {
		t.Fatal("hash should change after a move")
	}
	p.Undo()
	if p.Hash() != before {
		t.Fatal("hash should be restored after Undo")
	}
}

func TestRepetitionDraw(t *testing.T) {
	p, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	// Shuffle kings back and forth to repeat the starting position.
	king := func(from, to string) OrderedMove {
		for _, m := range p.Moves(nil) {
			if m.Move.String() == from+to {
				return m
			}
		}
		t.Fatalf("move %s%s not found", from, to)
		return OrderedMove{}
	}
	if p.IsRepetitionDraw() {
		t.Fatal("starting position is not a repetition")
	}
	seq := [][2]string{{"e1", "d1"}, {"e8", "d8"}, {"d1", "e1"}, {"d8", "e8"},
		{"e1", "d1"}, {"e8", "d8"}, {"d1", "e1"}, {"d8", "e8"}}
	for _, s := range seq {
		p.DoMove(king(s[0], s[1]).Move)
	}
	if !p.IsRepetitionDraw() {
		t.Fatal("expected threefold repetition after shuffling kings back and forth twice")
	}
}

func TestMaterialDraw(t *testing.T) {
	p, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsMaterialDraw() {
		t.Fatal("bare kings must be an insufficient-material draw")
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	p, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 99 1")
	if err != nil {
		t.Fatal(err)
	}
	if p.IsFiftyMoveDraw() {
		t.Fatal("halfmove clock 99 is not yet a fifty-move draw")
	}
	p2, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 100 1")
	if err != nil {
		t.Fatal(err)
	}
	if !p2.IsFiftyMoveDraw() {
		t.Fatal("halfmove clock 100 must be a fifty-move draw")
	}
}
