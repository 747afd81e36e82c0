// Package engine implements the alpha-beta negamax search kernel: score
// and bound handling, transposition-table lookups, staged move ordering,
// iterative deepening, and the asynchronous search lifecycle exposed by
// Engine.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/score"
)

// Event reports the result of one completed (or, for the final event of
// a search, possibly discarded-and-reaccepted) iterative-deepening
// iteration.
type Event struct {
	Depth    int
	Score    score.Score
	PV       []position.Move
	Nodes    int64
	Elapsed  time.Duration
	TTUsage  int
	Finished bool
}

// thread is the single worker that runs one Search call end to end. The
// name and one-worker-per-call shape follow the reference engine; unlike
// it, this engine never runs more than one thread concurrently, since
// Lazy-SMP multi-threaded search is explicitly out of scope.
type thread struct {
	sd *searchData
	tt *TranspositionTable
}

// Engine owns the transposition table and the current root position
// across successive searches, and runs at most one search at a time.
type Engine struct {
	mu        sync.Mutex
	pos       *position.Position
	tt        *TranspositionTable
	aborted   atomic.Bool
	searching atomic.Bool
	wg        sync.WaitGroup

	onProgress func(Event)
	onFinish   func(Event)
}

// NewEngine allocates an engine with a transposition table sized to
// hashMB megabytes, starting from the standard chess position.
func NewEngine(hashMB int) *Engine {
	return &Engine{
		pos: position.StartPosition(),
		tt:  NewTranspositionTable(hashMB),
	}
}

// OnSearchProgress registers a sink invoked once per completed depth, and
// once more for the last completed depth when a deeper iteration is
// discarded.
func (e *Engine) OnSearchProgress(f func(Event)) { e.onProgress = f }

// OnSearchFinish registers a sink invoked exactly once when a search ends.
func (e *Engine) OnSearchFinish(f func(Event)) { e.onFinish = f }

// SetPosition replaces the root position. While a search is in progress
// the call is ignored; it returns no error and only logs a warning.
func (e *Engine) SetPosition(pos *position.Position) {
	if e.searching.Load() {
		log.Warn().Msg("SetPosition ignored: search in progress")
		return
	}
	e.mu.Lock()
	e.pos = pos
	e.mu.Unlock()
}

// Clear resets the transposition table, mirroring a UCI ucinewgame.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// IsSearching reports whether a worker is currently running.
func (e *Engine) IsSearching() bool { return e.searching.Load() }

// AwaitIdle blocks until the current search (if any) has finished. This
// is ambient test/shutdown tooling, never consulted by the search kernel
// itself.
func (e *Engine) AwaitIdle() { e.wg.Wait() }

// Search starts a new background search under the current root position.
// It returns immediately; results arrive through the registered sinks.
// A call while already searching is a no-op.
func (e *Engine) Search(limits Limits) {
	if !e.searching.CompareAndSwap(false, true) {
		return
	}

	e.mu.Lock()
	rootPos := e.pos.Clone()
	e.mu.Unlock()

	e.tt.NewSearch()
	e.aborted.Store(false)

	searchID := uuid.New()
	log.Info().Str("search_id", searchID.String()).Str("fen", rootPos.FEN()).Msg("search starting")

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.searching.Store(false)
		e.runWorker(rootPos, limits, searchID)
	}()
}

// Stop requests that the current search abandon its in-progress
// iteration and report its last completed depth. Idempotent, safe from
// any goroutine.
func (e *Engine) Stop() {
	e.aborted.Store(true)
}

func (e *Engine) runWorker(pos *position.Position, limits Limits, searchID uuid.UUID) {
	sd := newSearchData(pos, limits, &e.aborted)
	t := &thread{sd: sd, tt: e.tt}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > score.MaxPly-1 {
		maxDepth = score.MaxPly - 1
	}

	var (
		bestPV       []position.Move
		bestScore    score.Score
		completed    int
		discarded    bool
	)

	for depth := 1; depth <= maxDepth; depth++ {
		t.sd.pv[0].clear()
		s := t.pvSearch(-score.Infinite, score.Infinite, depth, 0, root)

		if depth > 1 && sd.aborted.Load() {
			discarded = true
			break
		}

		bestScore = s
		bestPV = t.sd.pv[0].toSlice()
		completed = depth

		if e.onProgress != nil {
			e.onProgress(Event{
				Depth:   depth,
				Score:   bestScore,
				PV:      bestPV,
				Nodes:   sd.nodes(),
				Elapsed: time.Since(sd.startTime),
				TTUsage: e.tt.Usage(),
			})
		}

		if sd.aborted.Load() {
			break
		}
	}

	// A depth discarded mid-iteration never reached the progress sink
	// above; replay the last accepted depth once more so observers see
	// a progress event for exactly the depth the finish event reports.
	if discarded && e.onProgress != nil {
		e.onProgress(Event{
			Depth:   completed,
			Score:   bestScore,
			PV:      bestPV,
			Nodes:   sd.nodes(),
			Elapsed: time.Since(sd.startTime),
			TTUsage: e.tt.Usage(),
		})
	}

	log.Info().
		Str("search_id", searchID.String()).
		Int("depth", completed).
		Int64("nodes", sd.nodes()).
		Msg("search finished")

	if e.onFinish != nil {
		e.onFinish(Event{
			Depth:    completed,
			Score:    bestScore,
			PV:       bestPV,
			Nodes:    sd.nodes(),
			Elapsed:  time.Since(sd.startTime),
			TTUsage:  e.tt.Usage(),
			Finished: true,
		})
	}
}
