package engine

import "github.com/dylhunn/dragontoothmg"

// Move is an opaque from/to/promotion value produced by the position's move generator.
type Move = dragontoothmg.Move

// Piece is a colourless piece type.
type Piece = dragontoothmg.Piece

const (
	Pawn   = Piece(dragontoothmg.Pawn)
	Knight = Piece(dragontoothmg.Knight)
	Bishop = Piece(dragontoothmg.Bishop)
	Rook   = Piece(dragontoothmg.Rook)
	Queen  = Piece(dragontoothmg.Queen)
	King   = Piece(dragontoothmg.King)
)

// Position is everything the search needs from a board. The search shares a single
// Position through the whole recursion and never copies it: every Apply is paired
// with exactly one Undo before the call that made it returns.
type Position interface {
	LegalMoves() []Move
	IsCapture(m Move) bool
	Apply(m Move)
	Undo()

	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	CanClaimThreefoldRepetition() bool
	CanClaimFiftyMoveRule() bool
	IsGameOver() bool

	// SideToMove is true when white is to move.
	SideToMove() bool
	ToFEN() string

	// PieceLocations lists the squares (a1=0 .. h8=63) of one side's pieces of a type.
	PieceLocations(piece Piece, white bool) []uint8
	// PieceAt reports the piece on sq; ok is false when the square is empty.
	PieceAt(sq uint8) (piece Piece, white bool, ok bool)
}
