// Package position adapts github.com/dylhunn/dragontoothmg's bitboard move
// generator to the collaborator contract the search kernel depends on:
// legal move enumeration, make/unmake, check detection, hashing and the
// three draw predicates (fifty-move, material, repetition). The generator
// itself has no notion of game history, so the repetition ring is tracked
// here, pushed on every DoMove and popped on Undo.
package position

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Side identifies the player to move.
type Side int

const (
	White Side = iota
	Black
)

// Move is the move representation produced by the generator and consumed
// by the search kernel and move picker.
type Move = dragon.Move

// NoMove is the absence of a move.
const NoMove = dragon.NoMove

// OrderedMove pairs a move with an ordering key assigned by the move
// picker; search code never compares keys, only the picker does.
type OrderedMove struct {
	Move Move
	Key  int32
}

// undoFrame is one entry of the repetition/unmake stack.
type undoFrame struct {
	key   uint64
	apply func()
}

// Position is the search kernel's owned, mutable view of the game.
// It is never shared across goroutines.
type Position struct {
	board   dragon.Board
	history []undoFrame
	keys    []uint64 // repetition ring, one entry per ply back to game start
}

// FromFEN parses a FEN string into a fresh position with empty history.
func FromFEN(fen string) (*Position, error) {
	board, err := dragon.ParseFen(fen)
	if err != nil {
		return nil, fmt.Errorf("position: parse fen %q: %w", fen, err)
	}
	return &Position{board: board, keys: []uint64{board.Hash()}}, nil
}

// StartPosition returns the standard chess starting position.
func StartPosition() *Position {
	p, err := FromFEN(dragon.Startpos)
	if err != nil {
		panic("position: built-in start fen failed to parse: " + err.Error())
	}
	return p
}

// Clone returns an independently mutable copy of the board and the
// repetition keys. The unmake stack is not copied, so moves made before
// the clone cannot be undone on it.
func (p *Position) Clone() *Position {
	keys := make([]uint64, len(p.keys))
	copy(keys, p.keys)
	return &Position{board: p.board, keys: keys}
}

// Hash returns the Zobrist hash of the current position.
func (p *Position) Hash() uint64 { return p.board.Hash() }

// SideToMove returns the player to move.
func (p *Position) SideToMove() Side {
	if p.board.Wtomove {
		return White
	}
	return Black
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.board.OurKingInCheck() }

// FEN renders the current position.
func (p *Position) FEN() string { return p.board.ToFen() }

// Moves appends every legal move to buf and returns the resulting slice.
func (p *Position) Moves(buf []OrderedMove) []OrderedMove {
	ml := p.board.GenerateLegalMoves()
	buf = buf[:0]
	for _, m := range ml {
		buf = append(buf, OrderedMove{Move: m})
	}
	return buf
}

// NoisyMoves appends captures and promotions, or every legal evasion when
// the side to move is in check, as required by the quiescence collaborator
// contract. The returned bool reports whether the side to move is in check.
func (p *Position) NoisyMoves(buf []OrderedMove) ([]OrderedMove, bool) {
	ml, inCheck := p.board.GenerateLegalMoves2(true)
	buf = buf[:0]
	for _, m := range ml {
		buf = append(buf, OrderedMove{Move: m})
	}
	return buf, inCheck
}

// DoMove applies a move, pushing an unmake record and the resulting hash
// onto the repetition ring.
func (p *Position) DoMove(m Move) {
	undo := p.board.Apply(m)
	p.history = append(p.history, undoFrame{apply: undo})
	p.keys = append(p.keys, p.board.Hash())
}

// DoNullMove passes the turn without moving a piece, pushing an unmake
// record and the resulting hash like DoMove. Nothing in this module calls
// it; the search kernel never makes null moves.
func (p *Position) DoNullMove() {
	undo := p.board.ApplyNullMove()
	p.history = append(p.history, undoFrame{apply: undo})
	p.keys = append(p.keys, p.board.Hash())
}

// Undo reverses the most recent DoMove/DoNullMove.
func (p *Position) Undo() {
	n := len(p.history) - 1
	p.history[n].apply()
	p.history = p.history[:n]
	p.keys = p.keys[:len(p.keys)-1]
}

// IsFiftyMoveDraw reports the fifty-move rule.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.board.Halfmoveclock >= 100
}

// IsMaterialDraw reports insufficient material for either side to force
// mate: king-only, king+minor vs king, or king+minor vs king+minor.
func (p *Position) IsMaterialDraw() bool {
	b := &p.board
	if b.Bbs[dragon.White][dragon.Pawn] != 0 || b.Bbs[dragon.Black][dragon.Pawn] != 0 {
		return false
	}
	if b.Bbs[dragon.White][dragon.Rook] != 0 || b.Bbs[dragon.Black][dragon.Rook] != 0 {
		return false
	}
	if b.Bbs[dragon.White][dragon.Queen] != 0 || b.Bbs[dragon.Black][dragon.Queen] != 0 {
		return false
	}
	whiteMinors := popcount(b.Bbs[dragon.White][dragon.Knight]) + popcount(b.Bbs[dragon.White][dragon.Bishop])
	blackMinors := popcount(b.Bbs[dragon.Black][dragon.Knight]) + popcount(b.Bbs[dragon.Black][dragon.Bishop])
	return whiteMinors <= 1 && blackMinors <= 1
}

// IsRepetitionDraw reports whether the current hash has occurred at least
// twice before in this search line, counting the current occurrence as a
// threefold repetition.
func (p *Position) IsRepetitionDraw() bool {
	cur := p.board.Hash()
	count := 0
	for i := len(p.keys) - 1; i >= 0; i-- {
		if p.keys[i] == cur {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// PieceAt reports the piece type (dragon.Pawn..dragon.King) and side
// occupying sq, or ok=false if the square is empty.
func (p *Position) PieceAt(sq uint8) (side Side, piece dragon.Piece, ok bool) {
	pc := p.board.PieceAt(sq)
	if pc.Piece == dragon.Nothing {
		return 0, 0, false
	}
	if pc.Color == dragon.White {
		return White, pc.Piece, true
	}
	return Black, pc.Piece, true
}

// IsCaptureOrPromotion reports whether m captures or promotes, used by the
// move picker and the quiet-move history update.
func (p *Position) IsCaptureOrPromotion(m Move) bool {
	if m.Promote() != dragon.Nothing {
		return true
	}
	_, _, occupied := p.PieceAt(m.To())
	if occupied {
		return true
	}
	// en passant: a pawn moving diagonally onto an empty square is
	// always a capture, since a straight pawn push never changes file.
	_, piece, ok := p.PieceAt(m.From())
	return ok && piece == dragon.Pawn && m.From()%8 != m.To()%8
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}
