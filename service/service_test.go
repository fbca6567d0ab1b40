package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chess-bestmove/board"
	"chess-bestmove/book"
	"chess-bestmove/config"
)

const mateInOne = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

func newService(t *testing.T, depth int, bk *book.Book) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.SearchDepth = depth
	cfg.MaxConcurrentSearches = 2
	return New(cfg, bk, zerolog.Nop())
}

func TestStartposDepthOneWithoutBook(t *testing.T) {
	s := newService(t, 1, nil)
	reply, err := s.Move(context.Background(), board.Startpos, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if reply.GameOver || strings.HasPrefix(reply.Text(), GameOverMarker) {
		t.Fatalf("startpos reply must not be game over: %q", reply.Text())
	}
	if reply.FromBook || !reply.Completed {
		t.Fatalf("expected a completed search move, got %+v", reply)
	}

	// The reply must be the start position advanced by exactly one legal move.
	pos := board.MustFromFEN(board.Startpos)
	mv, err := pos.ParseMove(reply.Move)
	if err != nil {
		t.Fatalf("reply move %q is not legal: %v", reply.Move, err)
	}
	pos.Apply(mv)
	if pos.ToFEN() != reply.FEN {
		t.Fatalf("reply FEN %q does not follow from %s (%q)", reply.FEN, reply.Move, pos.ToFEN())
	}
}

func TestMateInOneIsMarkedGameOver(t *testing.T) {
	s := newService(t, 2, nil)
	reply, err := s.Move(context.Background(), mateInOne, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if reply.Move != "a1a8" {
		t.Fatalf("move: got %s want a1a8", reply.Move)
	}
	if !reply.GameOver || !strings.HasPrefix(reply.Text(), GameOverMarker) {
		t.Fatalf("expected game-over marker, got %q", reply.Text())
	}
	if !board.MustFromFEN(reply.FEN).IsCheckmate() {
		t.Fatalf("resulting position is not checkmate: %s", reply.FEN)
	}
}

func TestBookMoveIsPreferred(t *testing.T) {
	bk := book.New().WithRand(func(int) int { return 0 })
	bk.Add(board.Startpos, "b1c3", 1)
	s := newService(t, 1, bk)

	reply, err := s.Move(context.Background(), board.Startpos, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !reply.FromBook || reply.Move != "b1c3" {
		t.Fatalf("expected book move b1c3, got %+v", reply)
	}
}

func TestBookMissFallsBackToSearch(t *testing.T) {
	bk := book.New()
	bk.Add(board.Startpos, "e2e4", 1)
	s := newService(t, 1, bk)

	reply, err := s.Move(context.Background(), mateInOne, 0)
	if err != nil {
		t.Fatalf("book miss must not surface: %v", err)
	}
	if reply.FromBook || reply.Move != "a1a8" {
		t.Fatalf("expected searched move a1a8, got %+v", reply)
	}
}

func TestRejectsBadInput(t *testing.T) {
	s := newService(t, 1, nil)
	if _, err := s.Move(context.Background(), "not a fen", 0); !errors.Is(err, board.ErrInvalidPosition) {
		t.Fatalf("malformed FEN: got %v want ErrInvalidPosition", err)
	}
	if _, err := s.Move(context.Background(), "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", 0); !errors.Is(err, board.ErrInvalidPosition) {
		t.Fatalf("opponent in check: got %v want ErrInvalidPosition", err)
	}
	if _, err := s.Move(context.Background(), "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("stalemate input: got %v want ErrGameOver", err)
	}
	if _, err := s.MoveEncoded(context.Background(), "%%%"); !errors.Is(err, ErrDecode) {
		t.Fatalf("bad base64: got %v want ErrDecode", err)
	}
}

func TestMoveEncodedAcceptsEveryBase64Form(t *testing.T) {
	s := newService(t, 1, nil)
	forms := []string{
		base64.StdEncoding.EncodeToString([]byte(mateInOne)),
		base64.URLEncoding.EncodeToString([]byte(mateInOne)),
		base64.RawURLEncoding.EncodeToString([]byte(mateInOne)),
		mateInOne,
	}
	for _, in := range forms {
		reply, err := s.MoveEncoded(context.Background(), in)
		if err != nil {
			t.Fatalf("MoveEncoded(%q): %v", in, err)
		}
		if reply.Move != "a1a8" {
			t.Fatalf("MoveEncoded(%q): got %s want a1a8", in, reply.Move)
		}
	}
}

func TestBusyWhenEverySlotIsTaken(t *testing.T) {
	cfg := config.Default()
	cfg.MaxConcurrentSearches = 1
	cfg.SearchTimeoutMs = 20
	s := New(cfg, nil, zerolog.Nop())

	if !s.sem.TryAcquire(1) {
		t.Fatalf("could not take the only slot")
	}
	defer s.sem.Release(1)

	start := time.Now()
	if _, err := s.Move(context.Background(), board.Startpos, 1); !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v want ErrBusy", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("waiting for a slot ignored the search timeout")
	}
}

func TestDecodeFEN(t *testing.T) {
	got, err := DecodeFEN(base64.StdEncoding.EncodeToString([]byte(board.Startpos + "\n")))
	if err != nil || got != board.Startpos {
		t.Fatalf("DecodeFEN: got %q, %v", got, err)
	}
	if _, err := DecodeFEN(""); !errors.Is(err, ErrDecode) {
		t.Fatalf("empty input: got %v want ErrDecode", err)
	}
}
