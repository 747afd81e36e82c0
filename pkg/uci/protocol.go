// Package uci implements a minimal Universal Chess Interface front end
// over pkg/engine.Engine: position setup, go/stop, and info/bestmove
// reporting. Threads is pinned at one and never exposed as an option,
// since Lazy-SMP multi-threaded search is out of scope.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/score"
)

const startposFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Protocol drives stdin/stdout as a UCI session on top of an Engine.
type Protocol struct {
	name    string
	author  string
	version string
	engine  *engine.Engine
	logger  zerolog.Logger

	rootPos *position.Position
}

// New constructs a protocol session over eng with the standard starting
// position loaded as root.
func New(name, author, version string, eng *engine.Engine, logger zerolog.Logger) *Protocol {
	return &Protocol{
		name:    name,
		author:  author,
		version: version,
		engine:  eng,
		logger:  logger,
		rootPos: position.StartPosition(),
	}
}

// Run reads UCI commands from stdin until "quit" and writes engine
// output to stdout; it blocks for the life of the session. Concurrently
// with the command loop, a goroutine watches for SIGINT/SIGTERM so a
// search in progress is stopped cleanly even with no GUI attached to
// send "stop"/"quit" itself.
func (p *Protocol) Run() {
	p.engine.OnSearchProgress(func(ev engine.Event) { fmt.Println(formatInfo(ev)) })
	p.engine.OnSearchFinish(func(ev engine.Event) {
		fmt.Println(formatInfo(ev))
		if len(ev.PV) > 0 {
			fmt.Printf("bestmove %s\n", ev.PV[0].String())
		} else {
			fmt.Println("bestmove 0000")
		}
	})

	g, ctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error { return p.watchSignals(ctx) })

	p.readCommands()
	cancel()

	if err := g.Wait(); err != nil {
		p.logger.Error().Err(err).Msg("uci session ended with error")
	}
}

// readCommands scans stdin for UCI commands until "quit" or EOF.
func (p *Protocol) readCommands() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if err := p.handle(line); err != nil {
			p.logger.Error().Err(err).Str("command", line).Msg("uci command failed")
		}
	}
	p.engine.Stop()
	p.engine.AwaitIdle()
}

// watchSignals stops an in-progress search on SIGINT/SIGTERM, returning
// once the command loop ends (ctx cancelled) or a signal arrives.
func (p *Protocol) watchSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		p.logger.Info().Str("signal", sig.String()).Msg("stopping search on signal")
		p.engine.Stop()
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (p *Protocol) handle(line string) error {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "uci":
		fmt.Printf("id name %s %s\n", p.name, p.version)
		fmt.Printf("id author %s\n", p.author)
		fmt.Println("option name Hash type spin default 16 min 1 max 4096")
		fmt.Println("uciok")
		return nil
	case "isready":
		fmt.Println("readyok")
		return nil
	case "ucinewgame":
		p.engine.Clear()
		return nil
	case "setoption":
		return nil // Accepted and ignored; the table size is fixed at startup by -hash.
	case "position":
		return p.positionCommand(args)
	case "go":
		return p.goCommand(args)
	case "stop":
		p.engine.Stop()
		return nil
	default:
		return fmt.Errorf("unhandled command %q", command)
	}
}

func (p *Protocol) positionCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing token")
	}
	var fen string
	movesIdx := -1
	for i, a := range args {
		if a == "moves" {
			movesIdx = i
			break
		}
	}
	switch args[0] {
	case "startpos":
		fen = startposFEN
	case "fen":
		end := len(args)
		if movesIdx >= 0 {
			end = movesIdx
		}
		fen = strings.Join(args[1:end], " ")
	default:
		return fmt.Errorf("position: unknown token %q", args[0])
	}

	pos, err := position.FromFEN(fen)
	if err != nil {
		return err
	}

	if movesIdx >= 0 {
		for _, lan := range args[movesIdx+1:] {
			m, ok := parseLAN(pos, lan)
			if !ok {
				return fmt.Errorf("position: bad move %q", lan)
			}
			pos.DoMove(m)
		}
	}

	p.rootPos = pos
	p.engine.SetPosition(pos)
	return nil
}

func (p *Protocol) goCommand(args []string) error {
	limits := parseLimits(args, p.rootPos)
	p.engine.Search(limits)
	return nil
}

// parseLimits parses a "go" command's tokens into Limits. searchmoves
// collects tokens until the first one that is not a legal move in rootPos;
// parsing resumes at that token.
func parseLimits(args []string, rootPos *position.Position) engine.Limits {
	var l engine.Limits
	for i := 0; i < len(args); i++ {
		next := func() int {
			i++
			if i >= len(args) {
				return 0
			}
			v, _ := strconv.Atoi(args[i])
			return v
		}
		switch args[i] {
		case "wtime":
			l.WhiteTime = time.Duration(next()) * time.Millisecond
		case "btime":
			l.BlackTime = time.Duration(next()) * time.Millisecond
		case "winc":
			l.WhiteIncrement = time.Duration(next()) * time.Millisecond
		case "binc":
			l.BlackIncrement = time.Duration(next()) * time.Millisecond
		case "movestogo":
			l.MovesToGo = next()
		case "depth":
			l.Depth = next()
		case "nodes":
			l.Nodes = int64(next())
		case "movetime":
			l.MoveTime = time.Duration(next()) * time.Millisecond
		case "infinite":
			l.Infinite = true
		case "searchmoves":
			for i+1 < len(args) {
				i++
				m, ok := parseLAN(rootPos, args[i])
				if !ok {
					i--
					break
				}
				l.SearchMoves = append(l.SearchMoves, m)
			}
		}
	}
	return l
}

func formatInfo(ev engine.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", ev.Depth)
	if score.IsWin(ev.Score) {
		fmt.Fprintf(&sb, " score mate %d", (score.Mate-ev.Score+1)/2)
	} else if score.IsLoss(ev.Score) {
		fmt.Fprintf(&sb, " score mate %d", -(score.Mate+ev.Score+1)/2)
	} else {
		fmt.Fprintf(&sb, " score cp %d", ev.Score)
	}
	ms := ev.Elapsed.Milliseconds()
	nps := ev.Nodes * 1000 / (ms + 1)
	fmt.Fprintf(&sb, " nodes %d time %d nps %d hashfull %d", ev.Nodes, ms, nps, ev.TTUsage)
	if len(ev.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range ev.PV {
			sb.WriteString(" ")
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}

// parseLAN resolves a long-algebraic move string (e.g. "e2e4", "e7e8q")
// against pos's legal moves, since the move generator parses moves by
// matching against the legal set rather than by coordinate decoding.
func parseLAN(pos *position.Position, lan string) (position.Move, bool) {
	for _, om := range pos.Moves(nil) {
		if strings.EqualFold(om.Move.String(), lan) {
			return om.Move, true
		}
	}
	return position.NoMove, false
}
