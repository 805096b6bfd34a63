// Package engine solves banqi capture puzzles with a best-first (A*) search.
package engine

import (
	"time"

	"github.com/hailam/banqi/internal/board"
)

// NoSolution is the cost reported when no winning position is reachable.
const NoSolution = -1

// infoInterval is the number of expansions between two OnInfo reports.
const infoInterval = 1 << 14

// SearchInfo contains progress information about a running search.
type SearchInfo struct {
	Expanded  uint64 // Nodes popped and expanded
	Generated uint64 // Nodes pushed onto the frontier
	Frontier  int    // Entries waiting in the queue
	Visited   int    // Distinct positions seen
	BestF     int    // Lowest f in the frontier
	Time      time.Duration
}

// Result is the outcome of a search.
type Result struct {
	Found     bool
	Cost      int          // Number of moves, NoSolution when not found
	Moves     []board.Move // Root-to-goal order
	Expanded  uint64
	Generated uint64
	Elapsed   time.Duration
}

// Engine is the puzzle solver.
type Engine struct {
	heuristic Heuristic

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a solver using heuristic h. A nil h selects PieceCount.
func NewEngine(h Heuristic) *Engine {
	if h == nil {
		h = PieceCount{}
	}
	return &Engine{heuristic: h}
}

// Heuristic returns the estimator used to order the search.
func (e *Engine) Heuristic() Heuristic {
	return e.heuristic
}

// Solve searches for the shortest sequence of moves by the side to move that
// captures every opposing piece. The position is not modified.
//
// Exhausting the search space is a normal outcome: Found is false and Cost
// is NoSolution.
func (e *Engine) Solve(pos *board.Position) Result {
	startTime := time.Now()

	s := newSearch(e, pos)
	res := s.run()
	res.Elapsed = time.Since(startTime)
	return res
}

// Perft counts the move sequences of the given length for the side to move.
// The opponent never replies, as in the puzzle. Used to debug move generation.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		child := pos.Copy()
		child.DoMove(m)
		nodes += e.Perft(child, depth-1)
	}

	return nodes
}
