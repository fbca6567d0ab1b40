package engine

import (
	"fmt"
	"math/rand"
)

// node is one position of a synthetic game tree. value is the static evaluation from
// the point of view of the side to move at that node; capture marks the move leading
// into it as a capture.
type node struct {
	value    int32
	capture  bool
	children []*node
}

// treePosition walks a synthetic tree. Moves are child indices.
type treePosition struct {
	root  *node
	path  []*node
	moves []Move
}

func newTreePosition(root *node) *treePosition {
	return &treePosition{root: root}
}

func (t *treePosition) cur() *node {
	if len(t.path) == 0 {
		return t.root
	}
	return t.path[len(t.path)-1]
}

func (t *treePosition) LegalMoves() []Move {
	moves := make([]Move, len(t.cur().children))
	for i := range moves {
		moves[i] = Move(i)
	}
	return moves
}

func (t *treePosition) IsCapture(m Move) bool { return t.cur().children[m].capture }

func (t *treePosition) Apply(m Move) {
	t.path = append(t.path, t.cur().children[m])
	t.moves = append(t.moves, m)
}

func (t *treePosition) Undo() {
	if len(t.path) == 0 {
		panic("treePosition: Undo without Apply")
	}
	t.path = t.path[:len(t.path)-1]
	t.moves = t.moves[:len(t.moves)-1]
}

func (t *treePosition) IsCheckmate() bool                 { return false }
func (t *treePosition) IsStalemate() bool                 { return false }
func (t *treePosition) IsInsufficientMaterial() bool      { return false }
func (t *treePosition) CanClaimThreefoldRepetition() bool { return false }
func (t *treePosition) CanClaimFiftyMoveRule() bool       { return false }
func (t *treePosition) IsGameOver() bool                  { return len(t.cur().children) == 0 }
func (t *treePosition) SideToMove() bool                  { return len(t.path)%2 == 0 }
func (t *treePosition) ToFEN() string                     { return fmt.Sprint(t.moves) }

func (t *treePosition) PieceLocations(Piece, bool) []uint8 { return nil }
func (t *treePosition) PieceAt(uint8) (Piece, bool, bool)  { return Pawn, true, true }

type treeEvaluator struct{}

func (treeEvaluator) Evaluate(pos Position) int32 {
	return pos.(*treePosition).cur().value
}

// leaf builds a childless node.
func leaf(v int32) *node { return &node{value: v} }

// inner builds a node whose children are reached by quiet moves.
func inner(v int32, children ...*node) *node { return &node{value: v, children: children} }

// randomTree builds a tree of the given height with 0..maxBranch children per node.
// Roughly a third of the moves are captures so quiescence has something to follow.
func randomTree(r *rand.Rand, height, maxBranch int) *node {
	n := &node{value: int32(r.Intn(2001) - 1000)}
	if height == 0 {
		return n
	}
	branches := r.Intn(maxBranch + 1)
	for i := 0; i < branches; i++ {
		child := randomTree(r, height-1, maxBranch)
		child.capture = r.Intn(3) == 0
		n.children = append(n.children, child)
	}
	return n
}

// minimaxRoot is the unpruned reference search: same root ordering and tie-breaking as
// FindBestMove, full-width below it, and quiescence without stand-pat cutoffs.
func minimaxRoot(s *Searcher, pos Position, maxDepth int) (int32, Move) {
	ordered := s.OrderMoves(pos, pos.LegalMoves())
	best, bestMove := -MateScore, ordered[0]
	for _, m := range ordered {
		pos.Apply(m)
		v := -minimax(s, pos, 1, maxDepth)
		pos.Undo()
		if v > best {
			best, bestMove = v, m
		}
	}
	return best, bestMove
}

func minimax(s *Searcher, pos Position, depth, maxDepth int) int32 {
	if depth >= maxDepth {
		return fullQuiescence(s, pos, 0)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return s.Evaluate(pos)
	}
	best := -MateScore
	for _, m := range moves {
		pos.Apply(m)
		v := -minimax(s, pos, depth+1, maxDepth)
		pos.Undo()
		if v > best {
			best = v
		}
	}
	return best
}

func fullQuiescence(s *Searcher, pos Position, qdepth int) int32 {
	best := s.Evaluate(pos)
	if qdepth >= s.opts.MaxQuiescenceDepth {
		return best
	}
	for _, m := range pos.LegalMoves() {
		if !pos.IsCapture(m) {
			continue
		}
		pos.Apply(m)
		v := -fullQuiescence(s, pos, qdepth+1)
		pos.Undo()
		if v > best {
			best = v
		}
	}
	return best
}
