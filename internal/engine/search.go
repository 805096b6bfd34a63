package engine

import (
	"container/heap"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hailam/banqi/internal/board"
)

// node is one position in the search tree. Nodes live in an append-only
// slice and refer to their parent by index; the root has parent -1.
type node struct {
	pos    *board.Position
	g, h   int
	parent int
	move   board.Move
}

// entry is a frontier slot. index is the node index, which also records
// insertion order.
type entry struct {
	f, h  int
	index int
}

// frontier is a min-heap of entries ordered by f, then h, then insertion
// order, so equal keys are expanded first in first out.
type frontier []entry

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].index < q[j].index
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) { *q = append(*q, x.(entry)) }

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// search holds the state of one Solve call. Nothing in it is shared.
type search struct {
	engine  *Engine
	us      board.Color
	nodes   []node
	queue   frontier
	visited *TranspositionTable

	expanded  uint64
	startTime time.Time
}

func newSearch(e *Engine, root *board.Position) *search {
	return &search{
		engine:    e,
		us:        root.SideToMove,
		nodes:     []node{{pos: root.Copy(), parent: -1}},
		visited:   NewTranspositionTable(),
		startTime: time.Now(),
	}
}

func (s *search) run() Result {
	root := &s.nodes[0]
	if root.pos.Winner() == s.us {
		return Result{Found: true, Cost: 0}
	}

	root.h = s.engine.heuristic.Estimate(root.pos)
	s.visited.Store(root.pos.ToFEN(), 0)
	heap.Push(&s.queue, entry{f: root.h, h: root.h, index: 0})

	for s.queue.Len() > 0 {
		e := heap.Pop(&s.queue).(entry)
		n := s.nodes[e.index]

		// A cheaper path to this position was found after it was queued.
		if best, ok := s.visited.Probe(n.pos.ToFEN()); ok && best < n.g {
			continue
		}

		if n.pos.Winner() == s.us {
			return s.result(e.index)
		}

		s.expand(e.index)
	}

	return s.result(-1)
}

// expand pushes every successor of node i that is new or reached more cheaply.
func (s *search) expand(i int) {
	n := s.nodes[i]
	s.expanded++

	moves := n.pos.GenerateMoves()
	for _, m := range moves.Slice() {
		child := n.pos.Copy()
		if !child.DoMove(m) {
			continue
		}

		g := n.g + 1
		key := child.ToFEN()
		if best, ok := s.visited.Probe(key); ok && best <= g {
			continue
		}
		s.visited.Store(key, g)

		h := s.engine.heuristic.Estimate(child)
		s.nodes = append(s.nodes, node{pos: child, g: g, h: h, parent: i, move: m})
		heap.Push(&s.queue, entry{f: g + h, h: h, index: len(s.nodes) - 1})
	}

	if s.engine.OnInfo != nil && s.expanded%infoInterval == 0 {
		s.engine.OnInfo(s.info())
	}
}

func (s *search) info() SearchInfo {
	info := SearchInfo{
		Expanded:  s.expanded,
		Generated: uint64(len(s.nodes) - 1),
		Frontier:  s.queue.Len(),
		Visited:   s.visited.Len(),
		Time:      time.Since(s.startTime),
	}
	if len(s.queue) > 0 {
		info.BestF = s.queue[0].f
	}
	return info
}

// result builds the search outcome; goal is the winning node or -1.
func (s *search) result(goal int) Result {
	res := Result{
		Cost:      NoSolution,
		Expanded:  s.expanded,
		Generated: uint64(len(s.nodes) - 1),
	}
	if goal < 0 {
		return res
	}

	var moves []board.Move
	for i := goal; s.nodes[i].parent >= 0; i = s.nodes[i].parent {
		moves = slices.Insert(moves, 0, s.nodes[i].move)
	}

	res.Found = true
	res.Cost = s.nodes[goal].g
	res.Moves = moves
	return res
}
