package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNoLegalMoves is the panic value of FindBestMove on a position without legal
// moves. Callers check IsGameOver first.
var ErrNoLegalMoves = errors.New("engine: search called on a position with no legal moves")

// Options configures a Searcher. The zero value of a field selects its default.
type Options struct {
	// MaxQuiescenceDepth bounds capture chains below the horizon (default 32 plies).
	MaxQuiescenceDepth int
	// OrderingDepth is the number of plies from the root that use the two-ply
	// look-ahead ordering (default 1, the root only). Deeper nodes use MVV-LVA.
	OrderingDepth int
	// MaxNodes stops the search after roughly this many nodes; 0 is unlimited.
	MaxNodes uint64
	// DrawScore is handed to the default evaluator.
	DrawScore int32
	// Evaluator replaces the default PieceSquareEvaluator.
	Evaluator Evaluator
	Logger    zerolog.Logger
}

// DefaultDepth is the search depth used when a caller has no preference.
const DefaultDepth = 3

const (
	defaultQuiescenceDepth = 32
	defaultOrderingDepth   = 1
)

// Result is the outcome of FindBestMove. Completed is false when the budget ran out;
// Move is then the best of the root moves searched to the end.
type Result struct {
	Move      Move
	Score     int32
	Nodes     uint64
	QNodes    uint64
	Completed bool
	Stats     CutStatistics
}

// Searcher runs fixed-depth negamax searches. It keeps per-search counters and is not
// safe for concurrent use; give every goroutine its own.
type Searcher struct {
	opts     Options
	eval     Evaluator
	log      zerolog.Logger
	maxDepth int

	budget  budget
	nodes   uint64
	qnodes  uint64
	stopped bool
	stats   CutStatistics
}

func NewSearcher(opts Options) *Searcher {
	if opts.MaxQuiescenceDepth <= 0 {
		opts.MaxQuiescenceDepth = defaultQuiescenceDepth
	}
	if opts.OrderingDepth <= 0 {
		opts.OrderingDepth = defaultOrderingDepth
	}
	eval := opts.Evaluator
	if eval == nil {
		eval = NewEvaluator(nil, opts.DrawScore)
	}
	return &Searcher{opts: opts, eval: eval, log: opts.Logger}
}

// Evaluate scores pos with the searcher's evaluator.
func (s *Searcher) Evaluate(pos Position) int32 {
	return s.eval.Evaluate(pos)
}

// Counters reports the nodes visited by the last search or Quiesce call.
func (s *Searcher) Counters() (nodes, qnodes uint64, stats CutStatistics) {
	return s.nodes, s.qnodes, s.stats
}

func (s *Searcher) reset(ctx context.Context) {
	s.budget = newBudget(ctx, s.opts.MaxNodes)
	s.nodes, s.qnodes = 0, 0
	s.stopped = false
	s.stats = CutStatistics{}
}

// FindBestMove searches pos to maxDepth plies plus quiescence and returns the chosen
// move. pos is restored before returning, also when ctx expires mid-search. It panics
// with ErrNoLegalMoves if pos has no legal moves.
func (s *Searcher) FindBestMove(ctx context.Context, pos Position, maxDepth int) Result {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		panic(ErrNoLegalMoves)
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	s.reset(ctx)
	s.maxDepth = maxDepth

	score, move := s.rootsearch(pos, moves)

	res := Result{
		Move:      move,
		Score:     score,
		Nodes:     s.nodes,
		QNodes:    s.qnodes,
		Completed: !s.stopped,
		Stats:     s.stats,
	}
	s.logResult(res)
	return res
}

func (s *Searcher) rootsearch(pos Position, moves []Move) (int32, Move) {
	var alpha int32 = -MateScore
	var beta int32 = MateScore
	var bestScore int32 = -MateScore

	ordered := s.order(pos, moves, 0)
	// Fallback: never return an empty move
	bestMove := ordered[0]

	for _, move := range ordered {
		if s.budget.exceeded(s.nodes) {
			s.stopped = true
		}
		if s.stopped {
			break
		}
		score := s.searchChild(pos, move, 1, -beta, -alpha)
		if s.stopped {
			// The interrupted move's score is not trustworthy.
			break
		}
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
		}
		if score >= beta {
			break
		}
	}
	return bestScore, bestMove
}

// searchChild plays move, searches the child with the given window and returns its
// score from the parent's point of view. The deferred Undo also runs on a stopped search.
func (s *Searcher) searchChild(pos Position, move Move, depth int, alpha, beta int32) int32 {
	pos.Apply(move)
	defer pos.Undo()
	return -s.alphabeta(pos, alpha, beta, depth)
}

func (s *Searcher) alphabeta(pos Position, alpha, beta int32, depth int) int32 {
	if depth >= s.maxDepth {
		return s.quiescence(pos, alpha, beta, 0)
	}
	if s.tick() {
		return 0
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		// checkmate or stalemate
		return s.eval.Evaluate(pos)
	}

	var bestScore int32 = -MateScore
	for _, move := range s.order(pos, moves, depth) {
		score := s.searchChild(pos, move, depth+1, -beta, -alpha)
		if s.stopped {
			return 0
		}
		if score >= beta {
			s.stats.BetaCutoffs++
			return score
		}
		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore
}

// Quiesce runs a standalone quiescence search on pos with no budget.
func (s *Searcher) Quiesce(pos Position, alpha, beta int32) int32 {
	s.reset(context.Background())
	return s.quiescence(pos, alpha, beta, 0)
}

// quiescence only follows captures. It fails hard: the result is clamped to
// [alpha, beta]. qdepth counts plies below the horizon.
func (s *Searcher) quiescence(pos Position, alpha, beta int32, qdepth int) int32 {
	s.qnodes++
	if s.tick() {
		return 0
	}

	standpat := s.eval.Evaluate(pos)
	if standpat >= beta {
		s.stats.QStandPatCutoffs++
		return beta
	}
	if standpat > alpha {
		alpha = standpat
	}
	if qdepth >= s.opts.MaxQuiescenceDepth {
		return alpha
	}

	for _, move := range captures(pos, pos.LegalMoves()) {
		score := s.quiescenceChild(pos, move, -beta, -alpha, qdepth+1)
		if s.stopped {
			return 0
		}
		if score >= beta {
			s.stats.QBetaCutoffs++
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *Searcher) quiescenceChild(pos Position, move Move, alpha, beta int32, qdepth int) int32 {
	pos.Apply(move)
	defer pos.Undo()
	return -s.quiescence(pos, alpha, beta, qdepth)
}

func (s *Searcher) order(pos Position, moves []Move, depth int) []Move {
	if depth < s.opts.OrderingDepth {
		return s.OrderMoves(pos, moves)
	}
	return orderCaptureFirst(pos, moves)
}

func (s *Searcher) logResult(res Result) {
	e := s.log.Debug()
	if !e.Enabled() {
		return
	}
	ms := s.budget.elapsed().Milliseconds()
	if ms == 0 {
		ms = 1
	}
	move := res.Move
	e.Int("depth", s.maxDepth).
		Int32("score", res.Score).
		Uint64("nodes", res.Nodes).
		Uint64("qnodes", res.QNodes).
		Int64("time", ms).
		Uint64("nps", res.Nodes*1000/uint64(ms)).
		Str("move", move.String()).
		Bool("completed", res.Completed).
		Object("cuts", res.Stats).
		Msg("search finished")
}
