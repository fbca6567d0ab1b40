// Package book holds an opening book: weighted moves keyed by position, picked at
// random in proportion to their weight.
package book

import (
	"errors"
	"strings"

	"lukechampine.com/frand"

	"chess-bestmove/engine"
)

// ErrNoBookEntry is returned when the book has nothing playable for a position.
var ErrNoBookEntry = errors.New("no book entry")

// Position is what a lookup needs from a board.
type Position interface {
	ToFEN() string
	ParseMove(uci string) (engine.Move, error)
}

// BookMove is one candidate of a book position.
type BookMove struct {
	UCI    string `json:"uci"`
	Weight int    `json:"weight"`
}

// Book maps a position key (placement, side to move, castling rights) to its moves.
// A Book is read-only after loading and safe for concurrent lookups.
type Book struct {
	positions map[string][]BookMove
	intn      func(n int) int
}

// New returns an empty book drawing from frand.
func New() *Book {
	return &Book{positions: make(map[string][]BookMove), intn: frand.Intn}
}

// WithRand replaces the random source; intn(n) must return a value in [0, n).
func (b *Book) WithRand(intn func(n int) int) *Book {
	b.intn = intn
	return b
}

// Key reduces a FEN to the fields that identify a book position. En passant and the
// move counters are dropped.
func Key(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

// Add records a move for the position, merging weights of repeated moves.
func (b *Book) Add(fen, uci string, weight int) {
	if weight <= 0 {
		return
	}
	key := Key(fen)
	uci = strings.ToLower(uci)
	moves := b.positions[key]
	for i := range moves {
		if moves[i].UCI == uci {
			moves[i].Weight += weight
			return
		}
	}
	b.positions[key] = append(moves, BookMove{UCI: uci, Weight: weight})
}

// Len is the number of positions in the book.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.positions)
}

// Moves lists the book moves for a FEN.
func (b *Book) Moves(fen string) []BookMove {
	if b == nil {
		return nil
	}
	return b.positions[Key(fen)]
}

// WeightedRandomMove picks one of the legal book moves for pos with probability
// proportional to its weight. A nil or empty book, an unlisted position and a
// position whose listed moves are all illegal give ErrNoBookEntry.
func (b *Book) WeightedRandomMove(pos Position) (engine.Move, error) {
	if b.Len() == 0 {
		return 0, ErrNoBookEntry
	}
	type candidate struct {
		move   engine.Move
		weight int
	}
	var candidates []candidate
	total := 0
	for _, bm := range b.positions[Key(pos.ToFEN())] {
		mv, err := pos.ParseMove(bm.UCI)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{move: mv, weight: bm.Weight})
		total += bm.Weight
	}
	if total == 0 {
		return 0, ErrNoBookEntry
	}

	r := b.intn(total)
	for _, c := range candidates {
		r -= c.weight
		if r < 0 {
			return c.move, nil
		}
	}
	return candidates[0].move, nil
}
