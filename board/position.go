// Package board adapts the dragontoothmg move generator to the make/undo position
// contract the search engine is written against.
package board

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// Position is a mutable chess position. It is not safe for concurrent use; every
// request owns its own Position.
type Position struct {
	b     dragontoothmg.Board
	stack []state
}

// FromFEN builds a Position, rejecting malformed FEN with ErrInvalidPosition.
func FromFEN(fen string) (p *Position, err error) {
	normalized, err := normalizeFEN(fen)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %v", ErrInvalidPosition, r)
		}
	}()
	rule50, _ := strconv.Atoi(strings.Fields(normalized)[4])
	b := dragontoothmg.ParseFen(normalized)
	if opponentInCheck(&b) {
		return nil, invalid("side not to move is in check")
	}
	p = &Position{b: b}
	p.stack = make([]state, 0, 64)
	p.stack = append(p.stack, state{hash: p.b.Hash(), rule50: rule50})
	return p, nil
}

// MustFromFEN is FromFEN for known-good input; it panics on error.
func MustFromFEN(fen string) *Position {
	p, err := FromFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// LegalMoves returns the legal moves for the side to move, in generator order.
func (p *Position) LegalMoves() []dragontoothmg.Move {
	return p.b.GenerateLegalMoves()
}

// IsCapture reports whether m takes a piece, en passant included.
func (p *Position) IsCapture(m dragontoothmg.Move) bool {
	if dragontoothmg.IsCapture(m, &p.b) {
		return true
	}
	// A pawn changing file onto an empty square can only be an en passant capture.
	from, to := m.From(), m.To()
	fromBB := uint64(1) << from
	if (p.b.White.Pawns|p.b.Black.Pawns)&fromBB == 0 {
		return false
	}
	return from%8 != to%8
}

// Apply plays m. Every Apply must be matched by exactly one Undo.
func (p *Position) Apply(m dragontoothmg.Move) {
	rule50 := p.stack[len(p.stack)-1].rule50 + 1
	if p.IsCapture(m) || (p.b.White.Pawns|p.b.Black.Pawns)&(uint64(1)<<m.From()) != 0 {
		rule50 = 0
	}
	unapply := p.b.Apply(m)
	p.stack = append(p.stack, state{
		hash:    p.b.Hash(),
		rule50:  rule50,
		unapply: unapply,
	})
}

// Undo takes back the most recent Apply. It panics when nothing is left to undo.
func (p *Position) Undo() {
	n := len(p.stack)
	if n <= 1 {
		panic("board: Undo without matching Apply")
	}
	top := p.stack[n-1]
	p.stack = p.stack[:n-1]
	top.unapply()
}

// Plies is the number of moves applied and not yet undone.
func (p *Position) Plies() int { return len(p.stack) - 1 }

// SideToMove reports true when white is to move.
func (p *Position) SideToMove() bool { return p.b.Wtomove }

// ToFEN encodes the position. The en passant field names a square only when an en
// passant capture is legal.
func (p *Position) ToFEN() string {
	fields := strings.Fields(p.b.ToFen())
	if len(fields) > 3 && fields[3] != "-" && !p.canCaptureEnPassant(fields[3]) {
		fields[3] = "-"
	}
	return strings.Join(fields, " ")
}

func (p *Position) canCaptureEnPassant(square string) bool {
	if len(square) != 2 {
		return false
	}
	target := uint8(square[0]-'a') + 8*uint8(square[1]-'1')
	pawns := p.b.White.Pawns | p.b.Black.Pawns
	for _, mv := range p.b.GenerateLegalMoves() {
		from, to := mv.From(), mv.To()
		if to == target && pawns&(uint64(1)<<from) != 0 && from%8 != to%8 {
			return true
		}
	}
	return false
}

// opponentInCheck reports whether the side that just moved left its king attacked,
// which no legal game can reach.
func opponentInCheck(b *dragontoothmg.Board) bool {
	b.Wtomove = !b.Wtomove
	defer func() { b.Wtomove = !b.Wtomove }()
	return b.OurKingInCheck()
}

// Hash returns the Zobrist key of the position.
func (p *Position) Hash() uint64 { return p.b.Hash() }

// HalfmoveClock counts plies since the last capture or pawn move.
func (p *Position) HalfmoveClock() int { return p.stack[len(p.stack)-1].rule50 }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.b.OurKingInCheck() }

func (p *Position) hasLegalMoves() bool {
	return len(p.b.GenerateLegalMoves()) > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.b.OurKingInCheck() && !p.hasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal moves and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.b.OurKingInCheck() && !p.hasLegalMoves()
}

// IsInsufficientMaterial reports whether neither side can possibly mate: no pawns,
// rooks or queens, and either at most one minor piece in total or only bishops that
// all stand on squares of one colour.
func (p *Position) IsInsufficientMaterial() bool {
	w, bl := &p.b.White, &p.b.Black
	if w.Pawns|bl.Pawns|w.Rooks|bl.Rooks|w.Queens|bl.Queens != 0 {
		return false
	}
	knights := w.Knights | bl.Knights
	bishops := w.Bishops | bl.Bishops
	if bits.OnesCount64(knights|bishops) <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&lightSquares == 0 || bishops&darkSquares == 0
}

// CanClaimThreefoldRepetition reports whether the current position occurred at least
// three times since the last irreversible move.
func (p *Position) CanClaimThreefoldRepetition() bool {
	return p.repetitions() >= 3
}

// CanClaimFiftyMoveRule reports whether fifty full moves passed without a capture or
// pawn move.
func (p *Position) CanClaimFiftyMoveRule() bool {
	return p.HalfmoveClock() >= fiftyMoveLimit
}

// IsGameOver reports whether the game ended without any claim: checkmate, stalemate,
// insufficient material, the seventy-five move rule or fivefold repetition.
func (p *Position) IsGameOver() bool {
	if p.IsInsufficientMaterial() {
		return true
	}
	if p.HalfmoveClock() >= seventyFiveMoveLimit || p.repetitions() >= 5 {
		return true
	}
	return !p.hasLegalMoves()
}

// PieceLocations lists the squares (a1=0 .. h8=63) holding the given piece type for
// one side.
func (p *Position) PieceLocations(piece dragontoothmg.Piece, white bool) []uint8 {
	bbs := &p.b.Black
	if white {
		bbs = &p.b.White
	}
	var bb uint64
	switch piece {
	case dragontoothmg.Pawn:
		bb = bbs.Pawns
	case dragontoothmg.Knight:
		bb = bbs.Knights
	case dragontoothmg.Bishop:
		bb = bbs.Bishops
	case dragontoothmg.Rook:
		bb = bbs.Rooks
	case dragontoothmg.Queen:
		bb = bbs.Queens
	case dragontoothmg.King:
		bb = bbs.Kings
	}
	squares := make([]uint8, 0, bits.OnesCount64(bb))
	for bb != 0 {
		squares = append(squares, uint8(bits.TrailingZeros64(bb)))
		bb &= bb - 1
	}
	return squares
}

// PieceAt returns the piece type on sq and its colour; ok is false for an empty square.
func (p *Position) PieceAt(sq uint8) (piece dragontoothmg.Piece, white bool, ok bool) {
	if piece, ok = pieceTypeAt(sq, &p.b.White); ok {
		return piece, true, true
	}
	piece, ok = pieceTypeAt(sq, &p.b.Black)
	return piece, false, ok
}

func pieceTypeAt(sq uint8, bitboards *dragontoothmg.Bitboards) (dragontoothmg.Piece, bool) {
	mask := uint64(1) << sq
	switch {
	case bitboards.Pawns&mask != 0:
		return dragontoothmg.Pawn, true
	case bitboards.Knights&mask != 0:
		return dragontoothmg.Knight, true
	case bitboards.Bishops&mask != 0:
		return dragontoothmg.Bishop, true
	case bitboards.Rooks&mask != 0:
		return dragontoothmg.Rook, true
	case bitboards.Queens&mask != 0:
		return dragontoothmg.Queen, true
	case bitboards.Kings&mask != 0:
		return dragontoothmg.King, true
	}
	return dragontoothmg.Nothing, false
}

// ParseMove finds the legal move matching a UCI string such as "e2e4" or "e7e8q".
func (p *Position) ParseMove(uci string) (dragontoothmg.Move, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	for _, mv := range p.b.GenerateLegalMoves() {
		if mv.String() == uci {
			return mv, nil
		}
	}
	return 0, fmt.Errorf("move %q is not legal in %s", uci, p.ToFEN())
}

const (
	lightSquares uint64 = 0x55AA55AA55AA55AA
	darkSquares  uint64 = 0xAA55AA55AA55AA55
)
