package board

import "github.com/dylhunn/dragontoothmg"

// Perft counts the leaf nodes of the legal move tree to the given depth. It walks the
// tree through Apply/Undo, so it doubles as a check of the make/undo discipline.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, mv := range moves {
		p.Apply(mv)
		nodes += p.Perft(depth - 1)
		p.Undo()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func (p *Position) PerftDivide(depth int) map[dragontoothmg.Move]uint64 {
	out := make(map[dragontoothmg.Move]uint64)
	if depth <= 0 {
		return out
	}
	for _, mv := range p.LegalMoves() {
		p.Apply(mv)
		out[mv] = p.Perft(depth - 1)
		p.Undo()
	}
	return out
}
