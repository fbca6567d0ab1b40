package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Startpos is the FEN string for the standard initial chess position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidPosition is returned for malformed or impossible FEN input.
var ErrInvalidPosition = errors.New("invalid position")

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPosition, reason)
}

// normalizeFEN checks a FEN string field by field and returns it in the six-field
// form the move generator expects. Missing halfmove/fullmove counters default to "0 1".
// The generator itself does no validation, so everything it would index blindly is
// checked here, and castling rights or en passant squares the placement cannot
// support are dropped.
func normalizeFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return "", invalid("not enough fields")
	}
	if len(fields) > 6 {
		return "", invalid("too many fields")
	}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return "", invalid("incorrect number of ranks")
	}
	var whiteKings, blackKings int
	var grid placement
	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return "", invalid("empty rank description")
		}
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return "", invalid("rank does not have 8 columns")
			}
			if !strings.ContainsRune("PNBRQKpnbrqk", ch) {
				return "", invalid("unrecognized piece character")
			}
			if (ch == 'P' || ch == 'p') && (i == 0 || i == 7) {
				return "", invalid("pawn on first or last rank")
			}
			switch ch {
			case 'K':
				whiteKings++
			case 'k':
				blackKings++
			}
			grid[i][file] = ch
			file++
		}
		if file != 8 {
			return "", invalid("rank does not have 8 columns")
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return "", invalid("each side needs exactly one king")
	}

	// 2. Side to move
	if fields[1] != "w" && fields[1] != "b" {
		return "", invalid("side to move must be 'w' or 'b'")
	}

	// 3. Castling rights
	castling := fields[2]
	if castling != "-" {
		if len(castling) > 4 {
			return "", invalid("castling field too long")
		}
		for _, ch := range castling {
			if !strings.ContainsRune("KQkq", ch) {
				return "", invalid("invalid castling rights character")
			}
		}
		castling = grid.castlingRights(castling)
	}

	// 4. En passant target square
	ep := fields[3]
	if ep != "-" {
		if len(ep) != 2 || ep[0] < 'a' || ep[0] > 'h' || (ep[1] != '3' && ep[1] != '6') {
			return "", invalid("invalid en passant square")
		}
		if !grid.enPassantPossible(ep, fields[1] == "w") {
			ep = "-"
		}
	}

	// 5/6. Counters
	halfmove, fullmove := "0", "1"
	if len(fields) > 4 {
		halfmove = fields[4]
	}
	if len(fields) > 5 {
		fullmove = fields[5]
	}
	if n, err := strconv.Atoi(halfmove); err != nil || n < 0 || n > 255 {
		return "", invalid("halfmove clock out of range")
	}
	if n, err := strconv.Atoi(fullmove); err != nil || n < 1 || n > 65535 {
		return "", invalid("fullmove number out of range")
	}

	return strings.Join([]string{fields[0], fields[1], castling, ep, halfmove, fullmove}, " "), nil
}

// placement is the board as written in a FEN: row 0 is rank 8, column 0 is file a,
// and empty squares are zero.
type placement [8][8]rune

// castlingHomes lists, per right, the row and the king and rook columns it needs.
var castlingHomes = []struct {
	right           rune
	row, king, rook int
	kingCh, rookCh  rune
}{
	{'K', 7, 4, 7, 'K', 'R'},
	{'Q', 7, 4, 0, 'K', 'R'},
	{'k', 0, 4, 7, 'k', 'r'},
	{'q', 0, 4, 0, 'k', 'r'},
}

// castlingRights keeps only the rights whose king and rook still stand on their home
// squares; the generator trusts the field as given.
func (g *placement) castlingRights(field string) string {
	var out strings.Builder
	for _, h := range castlingHomes {
		if !strings.ContainsRune(field, h.right) {
			continue
		}
		if g[h.row][h.king] == h.kingCh && g[h.row][h.rook] == h.rookCh {
			out.WriteRune(h.right)
		}
	}
	if out.Len() == 0 {
		return "-"
	}
	return out.String()
}

// enPassantPossible reports whether ep can be the square behind a pawn that just
// made a double step: the pawn stands in front of it and the two squares it crossed
// are empty.
func (g *placement) enPassantPossible(ep string, whiteToMove bool) bool {
	file := int(ep[0] - 'a')
	if whiteToMove {
		// black pawn e7-e5 leaves e6
		return ep[1] == '6' && g[3][file] == 'p' && g[2][file] == 0 && g[1][file] == 0
	}
	return ep[1] == '3' && g[4][file] == 'P' && g[5][file] == 0 && g[6][file] == 0
}
