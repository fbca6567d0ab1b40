package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"chess-bestmove/board"
	"chess-bestmove/engine"
)

// movesToGo is the assumed number of moves left when only a clock is given.
const movesToGo = 30

func main() {
	uciLoop(os.Stdin, os.Stdout)
}

type uciState struct {
	pos  *board.Position
	opts engine.Options
	out  io.Writer
}

func uciLoop(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	st := &uciState{
		pos:  board.MustFromFEN(board.Startpos),
		opts: engine.Options{},
		out:  out,
	}
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name chess-bestmove")
			fmt.Fprintln(out, "id author chess-bestmove")
			fmt.Fprintln(out, "option name QuiescenceDepth type spin default 32 min 1 max 64")
			fmt.Fprintln(out, "option name DrawScore type spin default 0 min -1000 max 1000")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			st.pos = board.MustFromFEN(board.Startpos)
		case "quit":
			return
		case "stop":
			// go blocks until the search ends
		case "eval":
			fmt.Fprintf(out, "info string eval %d\n", engine.NewEvaluator(nil, st.opts.DrawScore).Evaluate(st.pos))
		case "d":
			fmt.Fprintln(out, "info string fen", st.pos.ToFEN())
		case "position":
			st.position(tokens[1:])
		case "go":
			st.goCommand(tokens[1:])
		case "setoption":
			st.setOption(tokens[1:])
		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
}

func (st *uciState) position(tokens []string) {
	if len(tokens) == 0 {
		fmt.Fprintln(st.out, "info string Malformed position command")
		return
	}
	rest := tokens[1:]
	var fen string
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		fen = board.Startpos
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		fen = strings.Join(rest[:i], " ")
		rest = rest[i:]
	default:
		fmt.Fprintln(st.out, "info string Invalid position subcommand")
		return
	}
	pos, err := board.FromFEN(fen)
	if err != nil {
		fmt.Fprintln(st.out, "info string Invalid fen position:", err)
		return
	}
	st.pos = pos
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return
	}
	for _, moveStr := range rest[1:] {
		mv, err := st.pos.ParseMove(strings.ToLower(moveStr))
		if err != nil {
			fmt.Fprintln(st.out, "info string Move", moveStr, "not found for position", st.pos.ToFEN())
			return
		}
		st.pos.Apply(mv)
	}
}

func (st *uciState) goCommand(tokens []string) {
	depth := 0
	var moveTime, wTime, bTime, wInc, bInc int
	for i := 0; i < len(tokens); i++ {
		name := strings.ToLower(tokens[i])
		var target *int
		switch name {
		case "infinite":
			continue
		case "depth":
			target = &depth
		case "movetime":
			target = &moveTime
		case "wtime":
			target = &wTime
		case "btime":
			target = &bTime
		case "winc":
			target = &wInc
		case "binc":
			target = &bInc
		default:
			fmt.Fprintln(st.out, "info string Unknown go subcommand", name)
			continue
		}
		if i+1 >= len(tokens) {
			fmt.Fprintln(st.out, "info string Malformed go command option", name)
			break
		}
		i++
		v, err := strconv.Atoi(tokens[i])
		if err != nil {
			fmt.Fprintln(st.out, "info string Malformed go command option; could not convert", name)
			continue
		}
		*target = v
	}

	if moveTime == 0 {
		clock, inc := wTime, wInc
		if !st.pos.SideToMove() {
			clock, inc = bTime, bInc
		}
		if clock > 0 {
			moveTime = clock/movesToGo + inc/2
		}
	}
	if depth <= 0 {
		depth = engine.DefaultDepth
		if moveTime > 0 {
			depth = maxUCIDepth
		}
	}

	if len(st.pos.LegalMoves()) == 0 {
		fmt.Fprintln(st.out, "bestmove 0000")
		return
	}
	ctx, cancel := engine.MoveTimeContext(context.Background(), time.Duration(moveTime)*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := engine.NewSearcher(st.opts).FindBestMove(ctx, st.pos, depth)
	elapsed := time.Since(start)
	ms := elapsed.Milliseconds()
	nps := uint64(float64(res.Nodes) / (elapsed.Seconds() + 1e-9))
	fmt.Fprintf(st.out, "info depth %d score cp %d nodes %d time %d nps %d\n", depth, res.Score, res.Nodes, ms, nps)
	fmt.Fprintln(st.out, "bestmove", res.Move.String())
}

// maxUCIDepth bounds depth when only time limits the search.
const maxUCIDepth = 8

func (st *uciState) setOption(tokens []string) {
	// setoption name <id> value <x>
	if len(tokens) != 4 || strings.ToLower(tokens[0]) != "name" || strings.ToLower(tokens[2]) != "value" {
		fmt.Fprintln(st.out, "info string Malformed setoption command")
		return
	}
	v, err := strconv.Atoi(tokens[3])
	if err != nil {
		fmt.Fprintln(st.out, "info string Malformed setoption value", tokens[3])
		return
	}
	switch strings.ToLower(tokens[1]) {
	case "quiescencedepth":
		st.opts.MaxQuiescenceDepth = v
	case "drawscore":
		st.opts.DrawScore = int32(v)
	default:
		fmt.Fprintln(st.out, "info string Unknown option", tokens[1])
	}
}
