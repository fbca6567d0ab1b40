package book

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chess-bestmove/board"
)

const afterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

func fixed(v int) func(int) int {
	return func(int) int { return v }
}

func TestWeightedRandomMoveFollowsWeights(t *testing.T) {
	b := New()
	b.Add(board.Startpos, "e2e4", 3)
	b.Add(board.Startpos, "d2d4", 1)

	counts := make(map[string]int)
	for r := 0; r < 4; r++ {
		b.WithRand(fixed(r))
		mv, err := b.WeightedRandomMove(board.MustFromFEN(board.Startpos))
		if err != nil {
			t.Fatalf("WeightedRandomMove: %v", err)
		}
		counts[mv.String()]++
	}
	if counts["e2e4"] != 3 || counts["d2d4"] != 1 {
		t.Fatalf("picks over every random value: got %v want e2e4:3 d2d4:1", counts)
	}
}

func TestWeightedRandomMoveMisses(t *testing.T) {
	var nilBook *Book
	if _, err := nilBook.WeightedRandomMove(board.MustFromFEN(board.Startpos)); !errors.Is(err, ErrNoBookEntry) {
		t.Fatalf("nil book: got %v want ErrNoBookEntry", err)
	}
	if _, err := New().WeightedRandomMove(board.MustFromFEN(board.Startpos)); !errors.Is(err, ErrNoBookEntry) {
		t.Fatalf("empty book: got %v want ErrNoBookEntry", err)
	}

	b := New()
	b.Add(board.Startpos, "e2e4", 1)
	if _, err := b.WeightedRandomMove(board.MustFromFEN(afterE4)); !errors.Is(err, ErrNoBookEntry) {
		t.Fatalf("unlisted position: got %v want ErrNoBookEntry", err)
	}

	illegal := New()
	illegal.Add(board.Startpos, "e2e5", 5)
	if _, err := illegal.WeightedRandomMove(board.MustFromFEN(board.Startpos)); !errors.Is(err, ErrNoBookEntry) {
		t.Fatalf("illegal book move: got %v want ErrNoBookEntry", err)
	}
}

func TestKeyIgnoresCountersAndEnPassant(t *testing.T) {
	a := Key(afterE4)
	b := Key("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if a != b || a != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq" {
		t.Fatalf("Key: got %q and %q", a, b)
	}
}

func TestDefaultBook(t *testing.T) {
	b, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	weights := make(map[string]int)
	for _, m := range b.Moves(board.Startpos) {
		weights[m.UCI] = m.Weight
	}
	if weights["e2e4"] != 8 || weights["d2d4"] != 4 || weights["c2c4"] != 1 || weights["g1f3"] != 1 {
		t.Fatalf("startpos weights: got %v", weights)
	}

	// Lines replayed by the SAN parser must be found from positions reached on the board.
	pos := board.MustFromFEN(board.Startpos)
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		mv, err := pos.ParseMove(uci)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", uci, err)
		}
		pos.Apply(mv)
	}
	mv, err := b.WithRand(fixed(0)).WeightedRandomMove(pos)
	if err != nil {
		t.Fatalf("after 1.e4 e5 2.Nf3: %v", err)
	}
	if got := mv.String(); got != "b8c6" && got != "g8f6" {
		t.Fatalf("after 1.e4 e5 2.Nf3: got %s want b8c6 or g8f6", got)
	}
}

func TestReadCSVRejectsBadSAN(t *testing.T) {
	err := New().ReadCSV(strings.NewReader(`X00,Nonsense,"1.e4 e5 2.Ke3"`))
	if err == nil {
		t.Fatalf("expected an error for an illegal SAN move")
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	data := `{"positions": {"` + board.Startpos + `": {"moves": [{"uci": "g1f3", "weight": 2}]}}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	mv, err := b.WeightedRandomMove(board.MustFromFEN(board.Startpos))
	if err != nil || mv.String() != "g1f3" {
		t.Fatalf("got %v, %v want g1f3", mv.String(), err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
