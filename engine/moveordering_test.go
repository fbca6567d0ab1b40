package engine

import (
	"testing"

	"chess-bestmove/board"
)

func TestOrderMovesIsPermutation(t *testing.T) {
	pos := board.MustFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := pos.ToFEN()
	moves := pos.LegalMoves()

	ordered := NewSearcher(Options{}).OrderMoves(pos, moves)
	if len(ordered) != len(moves) {
		t.Fatalf("length: got %d want %d", len(ordered), len(moves))
	}
	seen := make(map[Move]int)
	for _, m := range moves {
		seen[m]++
	}
	for _, m := range ordered {
		seen[m]--
	}
	for m, n := range seen {
		if n != 0 {
			t.Fatalf("move %v count off by %d", m, n)
		}
	}
	if pos.ToFEN() != before {
		t.Fatalf("OrderMoves left the position modified: %s", pos.ToFEN())
	}
}

func TestOrderMovesPutsMateFirst(t *testing.T) {
	pos := board.MustFromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	ordered := NewSearcher(Options{}).OrderMoves(pos, pos.LegalMoves())
	first := ordered[0]
	if first.String() != "a1a8" {
		t.Fatalf("first move: got %s want a1a8", first.String())
	}
}

func TestOrderMovesPrefersWinningMaterialForBlack(t *testing.T) {
	// Black can take an undefended rook on d4.
	pos := board.MustFromFEN("3qk3/8/8/8/3R4/8/8/4K3 b - - 0 1")
	ordered := NewSearcher(Options{}).OrderMoves(pos, pos.LegalMoves())
	first := ordered[0]
	if first.String() != "d8d4" {
		t.Fatalf("first move: got %s want d8d4", first.String())
	}
}

func TestOrderMovesKeepsTiesStable(t *testing.T) {
	// Every candidate leads to the same evaluation, so generator order must survive.
	root := inner(0,
		inner(0, leaf(1), leaf(4)),
		inner(0, leaf(1)),
		inner(0, leaf(7), leaf(1)),
	)
	pos := newTreePosition(root)
	ordered := treeSearcher().OrderMoves(pos, pos.LegalMoves())
	for i, m := range ordered {
		if m != Move(i) {
			t.Fatalf("order changed on equal keys: %v", ordered)
		}
	}
}

func TestCapturesOrderedByVictimThenAttacker(t *testing.T) {
	// Nxd5 wins the queen and comes before bxa3, which only wins a knight.
	pos := board.MustFromFEN("4k3/8/8/3q4/8/n1N5/1P6/4K3 w - - 0 1")
	got := captures(pos, pos.LegalMoves())
	var names []string
	for i := range got {
		names = append(names, got[i].String())
	}
	if len(names) != 2 || names[0] != "c3d5" || names[1] != "b2a3" {
		t.Fatalf("captures: got %v want [c3d5 b2a3]", names)
	}
}
