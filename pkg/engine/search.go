package engine

import (
	"github.com/corvidchess/corvid/internal/eval"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/score"
)

// nodeType distinguishes a root node and the principal-variation spine
// from ordinary non-PV nodes; only PV nodes are exempt from the
// transposition-table early-cutoff in step 6 of pvSearch.
type nodeType int

const (
	nonPV nodeType = iota
	pv
	root
)

// pvSearch is the negamax search kernel. It returns the score of pos
// from the side-to-move's perspective and, for PV nodes that do not cut
// off, writes the principal variation into sd.pv[ply].
func (t *thread) pvSearch(alpha, beta score.Score, depth, ply int, nt nodeType) score.Score {
	pos := t.sd.pos

	if depth <= 0 {
		return t.qSearch(alpha, beta, ply)
	}

	t.sd.pv[ply].clear()

	if nt != root {
		if t.sd.shouldStop() {
			t.sd.stop()
		}
		if t.sd.aborted.Load() {
			return -score.Infinite
		}
	}

	if pos.IsFiftyMoveDraw() || pos.IsMaterialDraw() || pos.IsRepetitionDraw() {
		return score.Draw
	}

	if ply >= score.MaxPly {
		return eval.Evaluate(pos)
	}

	alphaOrig := alpha

	hash := pos.Hash()
	ttHit, ttDepth, ttScore, ttBound, ttMove, _ := t.tt.Probe(hash, ply)
	if ttHit && nt != pv && nt != root {
		if ttDepth >= depth && ttScore != score.None && ttBound.Matches(ttScore, alpha, beta) {
			return ttScore
		}
	}
	if !ttHit {
		ttMove = position.NoMove
	}

	t.sd.incNodes()

	white := pos.SideToMove() == position.White
	var picker MovePicker
	picker.Init(Main, pos, t.sd, ply, ttMove)

	var (
		bestScore     = -score.Infinite
		bestMove      = position.NoMove
		movesSearched int
		quietsTried   []position.Move
		childPV       = &t.sd.pv[ply+1]
	)

	for {
		m := picker.Next()
		if m == position.NoMove {
			break
		}
		if nt == root && len(t.sd.limits.SearchMoves) > 0 && !containsMove(t.sd.limits.SearchMoves, m) {
			continue
		}

		quiet := !pos.IsCaptureOrPromotion(m)

		pos.DoMove(m)
		movesSearched++

		var childScore score.Score
		childNT := nonPV
		if nt != nonPV && movesSearched == 1 {
			childNT = pv
		}
		if childNT == nonPV {
			childScore = -t.pvSearch(-alpha-1, -alpha, depth-1, ply+1, nonPV)
			if childScore > alpha && nt != nonPV {
				// re-search as a PV node: the null-window probe found a
				// move that might improve alpha, so its true value and
				// principal variation are needed.
				childScore = -t.pvSearch(-beta, -alpha, depth-1, ply+1, pv)
			}
		} else {
			childScore = -t.pvSearch(-beta, -alpha, depth-1, ply+1, childNT)
		}

		pos.Undo()

		if t.sd.aborted.Load() {
			return bestScore
		}

		if quiet {
			quietsTried = append(quietsTried, m)
		}

		if childScore > bestScore {
			bestScore = childScore
			bestMove = m
			if childScore > alpha {
				alpha = childScore
				if nt != nonPV {
					t.sd.pv[ply].assign(m, childPV)
				}
				if alpha >= beta {
					if quiet {
						t.sd.updateKiller(m, ply)
						t.sd.updateHistory(white, quietsTried, m, depth)
					}
					break
				}
			}
		}
	}

	if movesSearched == 0 {
		if pos.InCheck() {
			return score.LossIn(ply)
		}
		return score.Draw
	}

	var bound score.Bound
	switch {
	case bestScore <= alphaOrig:
		bound = score.BoundUpper
	case bestScore >= beta:
		bound = score.BoundLower
	default:
		bound = score.BoundExact
	}
	t.tt.Store(hash, ply, depth, bestScore, bound, bestMove, score.None)

	return bestScore
}

// qSearch extends the search through noisy moves beyond the horizon,
// using a standing-pat bound to cut off positions that are already good
// enough without examining every capture.
func (t *thread) qSearch(alpha, beta score.Score, ply int) score.Score {
	pos := t.sd.pos
	alphaOrig := alpha

	t.sd.pv[ply].clear()

	if t.sd.shouldStop() {
		t.sd.stop()
	}
	if t.sd.aborted.Load() {
		return -score.Infinite
	}

	if pos.IsFiftyMoveDraw() || pos.IsMaterialDraw() || pos.IsRepetitionDraw() {
		return score.Draw
	}
	if ply >= score.MaxPly {
		return eval.Evaluate(pos)
	}

	inCheck := pos.InCheck()

	var standPat score.Score
	if !inCheck {
		standPat = eval.Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	t.sd.incNodes()

	hash := pos.Hash()
	_, _, _, _, ttMove, _ := t.tt.Probe(hash, ply)

	var picker MovePicker
	picker.Init(Quiescence, pos, t.sd, ply, ttMove)

	bestScore := standPat
	if inCheck {
		bestScore = -score.Infinite
	}
	bestMove := position.NoMove
	movesSearched := 0
	childPV := &t.sd.pv[ply+1]

	for {
		m := picker.Next()
		if m == position.NoMove {
			break
		}
		movesSearched++

		pos.DoMove(m)
		childScore := -t.qSearch(-beta, -alpha, ply+1)
		pos.Undo()

		if t.sd.aborted.Load() {
			return bestScore
		}

		if childScore > bestScore {
			bestScore = childScore
			bestMove = m
			if childScore > alpha {
				alpha = childScore
				t.sd.pv[ply].assign(m, childPV)
				if alpha >= beta {
					break
				}
			}
		}
	}

	if inCheck && movesSearched == 0 {
		bestScore = score.LossIn(ply)
	}

	staticEval := score.None
	if !inCheck {
		staticEval = standPat
	}

	depth := 0
	if inCheck {
		depth = 1
	}
	var bound score.Bound
	switch {
	case bestScore <= alphaOrig:
		bound = score.BoundUpper
	case bestScore >= beta:
		bound = score.BoundLower
	default:
		bound = score.BoundExact
	}
	t.tt.Store(hash, ply, depth, bestScore, bound, bestMove, staticEval)

	return bestScore
}

func containsMove(moves []position.Move, m position.Move) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}
