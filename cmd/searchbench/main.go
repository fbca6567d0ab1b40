package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"chess-bestmove/board"
	"chess-bestmove/engine"
)

func main() {
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	qdepth := flag.Int("qdepth", 32, "quiescence depth bound")
	movetime := flag.Duration("movetime", 0, "time limit per search (0 = none)")
	prof := flag.String("profile", "", "cpu or mem; profile written to -profiledir")
	profDir := flag.String("profiledir", ".", "directory for profile output")
	verbose := flag.Bool("v", false, "log every search at debug level")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*profDir), profile.NoShutdownHook).Stop()
	}

	fen := board.Startpos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, *depthFlag, *repeatFlag)

	startAll := time.Now()
	var totalNodes uint64
	for i := 0; i < *repeatFlag; i++ {
		pos, err := board.FromFEN(fen)
		if err != nil {
			log.Fatalf("bad fen: %v", err)
		}
		searcher := engine.NewSearcher(engine.Options{
			MaxQuiescenceDepth: *qdepth,
			Logger:             logger,
		})

		ctx, cancel := engine.MoveTimeContext(context.Background(), *movetime)
		iterStart := time.Now()
		res := searcher.FindBestMove(ctx, pos, *depthFlag)
		iterElapsed := time.Since(iterStart)
		cancel()

		totalNodes += res.Nodes
		fmt.Printf("iteration %d: bestmove %v score %d nodes %d qnodes %d completed %v time=%v\n",
			i+1, res.Move.String(), res.Score, res.Nodes, res.QNodes, res.Completed, iterElapsed)
		res.Stats.Dump(os.Stdout)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nodes: %d nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())
}
