package board

const (
	fiftyMoveLimit       = 100
	seventyFiveMoveLimit = 150
)

// state is one entry of the make/undo stack. The bottom entry describes the position
// the Position was built from and has no unapply closure.
type state struct {
	hash    uint64
	rule50  int
	unapply func()
}

// repetitions counts how often the current position occurred, itself included,
// looking back only as far as the halfmove clock allows.
func (p *Position) repetitions() int {
	n := len(p.stack)
	if n == 0 {
		return 0
	}
	curr := p.stack[n-1]
	start := n - 1 - curr.rule50
	if start < 0 {
		start = 0
	}
	count := 1
	for i := n - 3; i >= start; i -= 2 {
		if p.stack[i].hash == curr.hash {
			count++
		}
	}
	return count
}
