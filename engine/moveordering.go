package engine

import (
	"golang.org/x/exp/slices"
)

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva [7][7]uint16 = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

type scoredMove struct {
	move  Move
	score int32
}

func sortedMoves(list []scoredMove) []Move {
	slices.SortStableFunc(list, func(a, b scoredMove) bool {
		return a.score > b.score
	})
	out := make([]Move, len(list))
	for i := range list {
		out[i] = list[i].move
	}
	return out
}

// OrderMoves returns moves sorted best-first for the side to move by a two-ply static
// look-ahead: each candidate is keyed by the evaluation after the opponent's strongest
// immediate reply. A candidate that leaves the opponent without a reply is keyed by the
// negated evaluation of the position it reaches (a mate keys as +MateScore). Ties keep
// generator order. pos is left as it was found.
func (s *Searcher) OrderMoves(pos Position, moves []Move) []Move {
	list := make([]scoredMove, len(moves))
	for i, m := range moves {
		list[i] = scoredMove{move: m, score: s.lookahead(pos, m)}
	}
	return sortedMoves(list)
}

func (s *Searcher) lookahead(pos Position, m Move) int32 {
	pos.Apply(m)
	defer pos.Undo()

	replies := pos.LegalMoves()
	if len(replies) == 0 {
		return -s.eval.Evaluate(pos)
	}
	worst := MateScore
	for _, reply := range replies {
		if v := s.afterReply(pos, reply); v < worst {
			worst = v
		}
	}
	return worst
}

// afterReply evaluates the position after the reply, which is the mover's turn again.
func (s *Searcher) afterReply(pos Position, reply Move) int32 {
	pos.Apply(reply)
	defer pos.Undo()
	return s.eval.Evaluate(pos)
}

// orderCaptureFirst is the cheap ordering used below OrderingDepth: captures first by
// MVV-LVA, quiet moves after them in generator order.
func orderCaptureFirst(pos Position, moves []Move) []Move {
	list := make([]scoredMove, len(moves))
	for i, m := range moves {
		list[i] = scoredMove{move: m}
		if pos.IsCapture(m) {
			list[i].score = captureScore(pos, m)
		}
	}
	return sortedMoves(list)
}

// captures keeps only the capturing moves, MVV-LVA ordered.
func captures(pos Position, moves []Move) []Move {
	list := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		if pos.IsCapture(m) {
			list = append(list, scoredMove{move: m, score: captureScore(pos, m)})
		}
	}
	return sortedMoves(list)
}

func captureScore(pos Position, m Move) int32 {
	attacker, _, _ := pos.PieceAt(m.From())
	victim, _, ok := pos.PieceAt(m.To())
	if !ok {
		// en passant
		victim = Pawn
	}
	// Offset keeps every capture ahead of the quiet moves scored 0.
	return 1 + int32(mvvLva[victim][attacker])
}
