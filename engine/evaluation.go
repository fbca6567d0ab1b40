package engine

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateScore is returned for the side to move being checkmated (negated for the side
	// delivering it). Every evaluation stays strictly inside (-MateScore, MateScore)
	// otherwise, and negating it never overflows an int32.
	MateScore        int32 = 30000
	DefaultDrawScore int32 = 0
)

// Evaluator scores a position from the point of view of the side to move: positive is
// good for the mover.
type Evaluator interface {
	Evaluate(pos Position) int32
}

// Weights holds the material values and piece-square tables, both indexed by Piece.
// Tables are written a1=0 .. h8=63 from white's side; black reads them mirrored.
type Weights struct {
	Material [7]int32
	PST      [7][64]int32
}

// DefaultWeights keeps rooks and queens on the same 900 scale on purpose; tune it
// through a copy, never in place. The king has no material value but its table is
// scored like every other piece's.
var DefaultWeights = Weights{
	Material: [7]int32{
		Pawn:   100,
		Knight: 320,
		Bishop: 330,
		Rook:   900,
		Queen:  900,
		King:   0,
	},
	PST: [7][64]int32{
		Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			5, 10, 10, -20, -20, 10, 10, 5,
			5, -5, -10, 0, 0, -10, -5, 5,
			0, 0, 0, 20, 20, 0, 0, 0,
			5, 5, 10, 25, 25, 10, 5, 5,
			10, 10, 20, 30, 30, 20, 10, 10,
			50, 50, 50, 50, 50, 50, 50, 50,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		Knight: {
			-50, -40, -30, -30, -30, -30, -40, -50,
			-40, -20, 0, 5, 5, 0, -20, -40,
			-30, 5, 10, 15, 15, 10, 5, -30,
			-30, 0, 15, 20, 20, 15, 0, -30,
			-30, 5, 15, 20, 20, 15, 5, -30,
			-30, 0, 10, 15, 15, 10, 0, -30,
			-40, -20, 0, 0, 0, 0, -20, -40,
			-50, -40, -30, -30, -30, -30, -40, -50,
		},
		Bishop: {
			-20, -10, -10, -10, -10, -10, -10, -20,
			-10, 5, 0, 0, 0, 0, 5, -10,
			-10, 10, 10, 10, 10, 10, 10, -10,
			-10, 0, 10, 10, 10, 10, 0, -10,
			-10, 5, 5, 10, 10, 5, 5, -10,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-20, -10, -10, -10, -10, -10, -10, -20,
		},
		Rook: {
			0, 0, 0, 5, 5, 0, 0, 0,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			5, 10, 10, 10, 10, 10, 10, 5,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		Queen: {
			-20, -10, -10, -5, -5, -10, -10, -20,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-10, 5, 5, 5, 5, 5, 0, -10,
			0, 0, 5, 5, 5, 5, 0, -5,
			-5, 0, 5, 5, 5, 5, 0, -5,
			-10, 0, 5, 5, 5, 5, 0, -10,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-20, -10, -10, -5, -5, -10, -10, -20,
		},
		King: {
			20, 30, 10, 0, 0, 10, 30, 20,
			20, 20, 0, 0, 0, 0, 20, 20,
			-10, -20, -20, -20, -20, -20, -20, -10,
			-20, -30, -30, -40, -40, -30, -30, -20,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
		},
	},
}

// PieceSquareEvaluator is the default Evaluator: material plus piece-square bonuses,
// with checkmate and the claimable draws scored before anything else.
type PieceSquareEvaluator struct {
	Weights   *Weights
	DrawScore int32
}

// NewEvaluator returns a PieceSquareEvaluator. A nil w selects DefaultWeights.
func NewEvaluator(w *Weights, drawScore int32) *PieceSquareEvaluator {
	if w == nil {
		w = &DefaultWeights
	}
	return &PieceSquareEvaluator{Weights: w, DrawScore: drawScore}
}

func (e *PieceSquareEvaluator) Evaluate(pos Position) int32 {
	if pos.IsCheckmate() {
		return -MateScore
	}
	if pos.IsStalemate() || pos.IsInsufficientMaterial() ||
		pos.CanClaimThreefoldRepetition() || pos.CanClaimFiftyMoveRule() {
		return e.DrawScore
	}

	score := Material(pos, e.Weights)
	if !pos.SideToMove() {
		return -score
	}
	return score
}

// Material sums material and piece-square values, white minus black. Black squares
// are mirrored vertically with sq^56.
func Material(pos Position, w *Weights) int32 {
	var score int32
	for piece := Pawn; piece <= King; piece++ {
		value, table := w.Material[piece], &w.PST[piece]
		for _, sq := range pos.PieceLocations(piece, true) {
			score += value + table[sq]
		}
		for _, sq := range pos.PieceLocations(piece, false) {
			score -= value + table[sq^56]
		}
	}
	return score
}
