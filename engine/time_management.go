package engine

import (
	"context"
	"time"
)

// budgetCheckMask makes the budget be polled once every 2048 nodes.
const budgetCheckMask = 2047

// budget bounds one search by its context (deadline or cancel) and an optional node
// ceiling. A zero maxNodes means no ceiling.
type budget struct {
	ctx      context.Context
	maxNodes uint64
	start    time.Time
}

func newBudget(ctx context.Context, maxNodes uint64) budget {
	if ctx == nil {
		ctx = context.Background()
	}
	return budget{ctx: ctx, maxNodes: maxNodes, start: time.Now()}
}

func (b budget) exceeded(nodes uint64) bool {
	if b.maxNodes > 0 && nodes >= b.maxNodes {
		return true
	}
	return b.ctx.Err() != nil
}

func (b budget) elapsed() time.Duration {
	return time.Since(b.start)
}

// tick counts a node and reports whether the search has to stop. The budget itself
// is only consulted every budgetCheckMask+1 nodes; once it ran out every later node
// stops as well.
func (s *Searcher) tick() bool {
	s.nodes++
	if s.nodes&budgetCheckMask == 0 && s.budget.exceeded(s.nodes) {
		s.stopped = true
	}
	return s.stopped
}

// MoveTimeContext derives a search context that expires after d; a non-positive d
// returns ctx unchanged with a no-op cancel.
func MoveTimeContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
