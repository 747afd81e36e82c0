// Package eval implements the static evaluator the search kernel calls
// at the horizon and at every quiescence standing-pat check: a material
// count plus piece-square tables, in the PeSTO style, without the
// midgame/endgame tapering a tuned evaluator would add.
package eval

import (
	"github.com/dylhunn/dragontoothmg"

	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/score"
)

var pieceValue = [...]int32{
	dragontoothmg.Pawn:   100,
	dragontoothmg.Knight: 320,
	dragontoothmg.Bishop: 330,
	dragontoothmg.Rook:   500,
	dragontoothmg.Queen:  900,
	dragontoothmg.King:   0,
}

// Evaluate returns a deterministic static score for pos from the
// perspective of the side to move, combining material balance with
// piece-square placement.
func Evaluate(pos *position.Position) score.Score {
	var total int32
	for sq := uint8(0); sq < 64; sq++ {
		side, piece, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		v := pieceValue[piece] + pstValue(piece, sq, side == position.White)
		if side == position.White {
			total += v
		} else {
			total -= v
		}
	}
	if pos.SideToMove() != position.White {
		total = -total
	}
	return score.Score(total)
}

// pstValue looks up the piece-square bonus for piece on sq. The tables
// below run rank8 first, white's own frame: a white piece's rank is
// mirrored (r = 7 - sq/8) to index them, while black's rank already
// lines up unflipped, since black's rank2 mirrors white's rank7 and so
// on through the same table.
func pstValue(piece dragontoothmg.Piece, sq uint8, white bool) int32 {
	r, f := int(sq)/8, int(sq)%8
	if white {
		r = 7 - r
	}
	idx := r*8 + f
	switch piece {
	case dragontoothmg.Pawn:
		return pawnPST[idx]
	case dragontoothmg.Knight:
		return knightPST[idx]
	case dragontoothmg.Bishop:
		return bishopPST[idx]
	case dragontoothmg.Rook:
		return rookPST[idx]
	case dragontoothmg.Queen:
		return queenPST[idx]
	case dragontoothmg.King:
		return kingPST[idx]
	default:
		return 0
	}
}

// Tables below run a8..h8 first through a1..h1 last, the usual FEN-rank
// order, scaled in centipawns. Adapted from the PeSTO midgame tables to a
// single untapered set.
var pawnPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	98, 134, 61, 95, 68, 126, 34, -11,
	-6, 7, 26, 31, 65, 56, 25, -20,
	-14, 13, 6, 21, 23, 12, 17, -23,
	-27, -2, -5, 12, 17, 6, 10, -25,
	-26, -4, -4, -10, 3, 3, 33, -12,
	-35, -1, -20, -23, -15, 24, 38, -22,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int32{
	-167, -89, -34, -49, 61, -97, -15, -107,
	-73, -41, 72, 36, 23, 62, 7, -17,
	-47, 60, 37, 65, 84, 129, 73, 44,
	-9, 17, 19, 53, 37, 69, 18, 22,
	-13, 4, 16, 13, 28, 19, 21, -8,
	-23, -9, 12, 10, 19, 17, 25, -16,
	-29, -53, -12, -3, -1, 18, -14, -19,
	-105, -21, -58, -33, -17, -28, -19, -23,
}

var bishopPST = [64]int32{
	-29, 4, -82, -37, -25, -42, 7, -8,
	-26, 16, -18, -13, 30, 59, 18, -47,
	-16, 37, 43, 40, 35, 50, 37, -2,
	-4, 5, 19, 50, 37, 37, 7, -2,
	-6, 13, 13, 26, 34, 12, 10, 4,
	0, 15, 15, 15, 14, 27, 18, 10,
	4, 15, 16, 0, 7, 21, 33, 1,
	-33, -3, -14, -21, -13, -12, -39, -21,
}

var rookPST = [64]int32{
	32, 42, 32, 51, 63, 9, 31, 43,
	27, 32, 58, 62, 80, 67, 26, 44,
	-5, 19, 26, 36, 17, 45, 61, 16,
	-24, -11, 7, 26, 24, 35, -8, -20,
	-36, -26, -12, -1, 9, -7, 6, -23,
	-45, -25, -16, -17, 3, 0, -5, -33,
	-44, -16, -20, -9, -1, 11, -6, -71,
	-19, -13, 1, 17, 16, 7, -37, -26,
}

var queenPST = [64]int32{
	-28, 0, 29, 12, 59, 44, 43, 45,
	-24, -39, -5, 1, -16, 57, 28, 54,
	-13, -17, 7, 8, 29, 56, 47, 57,
	-27, -27, -16, -16, -1, 17, -2, 1,
	-9, -26, -9, -10, -2, -4, 3, -3,
	-14, 2, -11, -2, -5, 2, 14, 5,
	-35, -8, 11, 2, 8, 15, -3, 1,
	-1, -18, -9, 10, -15, -25, -31, -50,
}

var kingPST = [64]int32{
	-65, 23, 16, -15, -56, -34, 2, 13,
	29, -1, -20, -7, -8, -4, -38, -29,
	-9, 24, 2, -16, -20, 6, 22, -22,
	-17, -20, -12, -27, -30, -25, -14, -36,
	-49, -1, -27, -39, -46, -44, -33, -51,
	-14, -14, -22, -46, -44, -30, -15, -27,
	1, 7, -8, -64, -43, -16, 9, 8,
	-15, 36, 12, -54, 8, -28, 24, 14,
}
