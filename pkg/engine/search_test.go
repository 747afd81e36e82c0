package engine

import (
	"testing"
	"time"

	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/score"
)

func searchSync(t *testing.T, eng *Engine, limits Limits) Event {
	t.Helper()
	done := make(chan Event, 1)
	eng.OnSearchFinish(func(ev Event) { done <- ev })
	eng.Search(limits)
	select {
	case ev := <-done:
		return ev
	case <-time.After(10 * time.Second):
		t.Fatal("search did not finish in time")
		return Event{}
	}
}

func TestMateInOne(t *testing.T) {
	pos, err := position.FromFEN("4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Depth: 2})

	if ev.Score != score.WinIn(1) {
		t.Fatalf("score = %d, want mate-in-1 score %d", ev.Score, score.WinIn(1))
	}
	if len(ev.PV) == 0 {
		t.Fatal("expected a non-empty PV")
	}
	if ev.Depth < 2 {
		t.Fatalf("completed depth = %d, want >= 2", ev.Depth)
	}
}

func TestStalemateIsDraw(t *testing.T) {
	pos, err := position.FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Depth: 1})

	if ev.Score != score.Draw {
		t.Fatalf("score = %d, want SCORE_DRAW", ev.Score)
	}
	if len(ev.PV) != 0 {
		t.Fatalf("expected empty PV at a terminal stalemate node, got %v", ev.PV)
	}
}

func TestMatedInZero(t *testing.T) {
	pos, err := position.FromFEN("R6k/6pp/8/8/8/8/8/6K1 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Depth: 1})

	if ev.Score != score.LossIn(0) {
		t.Fatalf("score = %d, want %d", ev.Score, score.LossIn(0))
	}
}

func TestFiftyMoveDrawAtRoot(t *testing.T) {
	pos, err := position.FromFEN("4k3/8/8/8/8/8/4R3/4K3 w - - 100 1")
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Depth: 1})

	if ev.Score != score.Draw {
		t.Fatalf("score = %d, want SCORE_DRAW at a fifty-move root", ev.Score)
	}
}

func TestNodeLimitStopsSearch(t *testing.T) {
	pos := position.StartPosition()
	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Nodes: 200})

	if ev.Nodes == 0 {
		t.Fatal("expected the node-limited search to visit at least one node")
	}
	if ev.Depth < 1 {
		t.Fatalf("expected at least depth 1 to complete, got %d", ev.Depth)
	}
}

func TestSearchMovesRestrictsRootMoves(t *testing.T) {
	pos := position.StartPosition()
	var restrict position.Move
	for _, om := range pos.Moves(nil) {
		if om.Move.String() == "e2e4" {
			restrict = om.Move
			break
		}
	}
	if restrict == position.NoMove {
		t.Fatal("e2e4 not found among the start position's legal moves")
	}

	eng := NewEngine(1)
	eng.SetPosition(pos)

	ev := searchSync(t, eng, Limits{Depth: 2, SearchMoves: []position.Move{restrict}})

	if len(ev.PV) == 0 || ev.PV[0] != restrict {
		t.Fatalf("PV[0] = %v, want the single restricted root move %v", ev.PV, restrict)
	}
}

func TestStopAbandonsDeeperIteration(t *testing.T) {
	pos := position.StartPosition()
	eng := NewEngine(1)
	eng.SetPosition(pos)

	var last Event
	done := make(chan struct{})
	eng.OnSearchFinish(func(ev Event) { last = ev; close(done) })
	eng.Search(Limits{Infinite: true})

	time.Sleep(20 * time.Millisecond)
	eng.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not honor Stop")
	}
	if last.Depth < 1 {
		t.Fatalf("expected at least depth 1 to complete, got %d", last.Depth)
	}
}

func TestSearchRejectsReentry(t *testing.T) {
	eng := NewEngine(1)
	eng.SetPosition(position.StartPosition())

	done := make(chan struct{})
	eng.OnSearchFinish(func(Event) { close(done) })
	eng.Search(Limits{Depth: 3})
	if !eng.IsSearching() {
		t.Fatal("expected IsSearching true immediately after Search")
	}
	eng.Search(Limits{Depth: 1}) // no-op while busy

	<-done
	eng.AwaitIdle()
	if eng.IsSearching() {
		t.Fatal("expected IsSearching false after finish")
	}
}
