// Package service turns a position into the position after the engine's reply: it
// decodes the request, consults the opening book, falls back to the search and marks
// finished games.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"chess-bestmove/board"
	"chess-bestmove/book"
	"chess-bestmove/config"
	"chess-bestmove/engine"
)

var (
	ErrGameOver = errors.New("game is already over")
	ErrBusy     = errors.New("too many searches in progress")
)

// GameOverMarker prefixes the FEN of a reply whose position ends the game.
const GameOverMarker = "~"

// maxRequestDepth caps the depth a single request may ask for.
const maxRequestDepth = 8

// Reply describes the move played for a request.
type Reply struct {
	FEN       string `json:"fen"`
	Move      string `json:"move"`
	Score     int32  `json:"score"`
	GameOver  bool   `json:"game_over"`
	FromBook  bool   `json:"from_book"`
	Nodes     uint64 `json:"nodes"`
	Completed bool   `json:"completed"`
}

// Text is the plain-text answer: the FEN, marked when the game is over.
func (r Reply) Text() string {
	if r.GameOver {
		return GameOverMarker + r.FEN
	}
	return r.FEN
}

type Service struct {
	cfg  config.Config
	book *book.Book
	sem  *semaphore.Weighted
	log  zerolog.Logger
}

// New builds a Service. A nil book disables book moves.
func New(cfg config.Config, bk *book.Book, log zerolog.Logger) *Service {
	n := cfg.MaxConcurrentSearches
	if n < 1 {
		n = 1
	}
	return &Service{
		cfg:  cfg,
		book: bk,
		sem:  semaphore.NewWeighted(int64(n)),
		log:  log,
	}
}

// MoveEncoded is Move for a base64 or plain FEN at the configured depth.
func (s *Service) MoveEncoded(ctx context.Context, input string) (Reply, error) {
	fen, err := ParseInput(input)
	if err != nil {
		return Reply{}, err
	}
	return s.Move(ctx, fen, 0)
}

// Move plays the engine's reply to fen. A depth of zero selects the configured depth.
func (s *Service) Move(ctx context.Context, fen string, depth int) (Reply, error) {
	log := s.logger(ctx)

	pos, err := board.FromFEN(fen)
	if err != nil {
		return Reply{}, err
	}
	if pos.IsGameOver() {
		return Reply{}, fmt.Errorf("%w: %s", ErrGameOver, fen)
	}
	switch {
	case depth <= 0:
		depth = s.cfg.SearchDepth
	case depth > maxRequestDepth:
		depth = maxRequestDepth
	}

	if timeout := s.cfg.SearchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	defer s.sem.Release(1)

	reply := Reply{Completed: true}
	move, ok := s.bookMove(ctx, pos, log)
	if ok {
		reply.FromBook = true
	} else {
		searcher := engine.NewSearcher(engine.Options{
			MaxQuiescenceDepth: s.cfg.QuiescenceDepth,
			OrderingDepth:      s.cfg.OrderingDepth,
			MaxNodes:           s.cfg.MaxNodes,
			DrawScore:          s.cfg.DrawScore,
			Logger:             *log,
		})
		res := searcher.FindBestMove(ctx, pos, depth)
		move = res.Move
		reply.Score = res.Score
		reply.Nodes = res.Nodes
		reply.Completed = res.Completed
		if !res.Completed {
			log.Warn().Uint64("nodes", res.Nodes).Msg("search budget exhausted, playing best completed move")
		}
	}

	reply.Move = move.String()
	pos.Apply(move)
	reply.FEN = pos.ToFEN()
	reply.GameOver = pos.IsGameOver()

	log.Info().
		Str("move", reply.Move).
		Bool("book", reply.FromBook).
		Int32("score", reply.Score).
		Bool("game_over", reply.GameOver).
		Msg("move played")
	return reply, nil
}

// bookMove tries the opening book. A miss is never an error for the caller.
func (s *Service) bookMove(ctx context.Context, pos *board.Position, log *zerolog.Logger) (engine.Move, bool) {
	if s.book == nil {
		return 0, false
	}
	move, err := s.book.WeightedRandomMove(pos)
	if err != nil {
		log.Debug().Err(err).Msg("book miss")
		return 0, false
	}
	if delay := s.cfg.BookDelay(); delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
	return move, true
}

// logger prefers the request-scoped logger carried by ctx.
func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}
