package engine

import (
	"fmt"
	"sort"

	"github.com/hailam/banqi/internal/board"
)

// Heuristic estimates the number of moves still needed to capture every
// opposing piece.
type Heuristic interface {
	Name() string
	Estimate(pos *board.Position) int
}

// DefaultUnreachablePenalty is the cost AttackPlan charges for an opposing
// piece no attacker can take in one or two moves.
const DefaultUnreachablePenalty = 20

// HeuristicByName returns the heuristic called name ("count" or "plan").
func HeuristicByName(name string) (Heuristic, error) {
	switch name {
	case "count", "":
		return PieceCount{}, nil
	case "plan":
		return AttackPlan{UnreachablePenalty: DefaultUnreachablePenalty}, nil
	}
	return nil, fmt.Errorf("unknown heuristic %q", name)
}

// PieceCount counts the opposing pieces left. Every move captures at most one
// piece, so it never overestimates.
type PieceCount struct{}

func (PieceCount) Name() string { return "count" }

func (PieceCount) Estimate(pos *board.Position) int {
	return pos.Count(pos.SideToMove.Other(), board.NoPieceType)
}

// AttackPlan assigns every opposing piece to the attacker that can take it
// soonest and charges for the order in which shared attackers must work.
// It is not admissible.
type AttackPlan struct {
	UnreachablePenalty int
}

func (AttackPlan) Name() string { return "plan" }

// plan is the cheapest known way to capture one target.
type plan struct {
	target   board.Square
	attacker board.Square
	cost     int
}

func (a AttackPlan) Estimate(pos *board.Position) int {
	us := pos.SideToMove
	them := us.Other()

	h := 0
	var plans []plan
	for target := range pos.Pieces(them).All() {
		p, ok := bestAttacker(pos, us, target)
		if !ok {
			h += a.UnreachablePenalty
			continue
		}
		plans = append(plans, p)
	}

	// Cheap captures claim their attacker first.
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].cost < plans[j].cost
	})

	var claimed [board.SquareNB]int
	for _, p := range plans {
		cost := p.cost
		if prev := claimed[p.attacker]; prev > 0 {
			cost = max(cost-prev, 1)
		}
		claimed[p.attacker] = p.cost
		h += cost
	}

	return h
}

// bestAttacker finds the cheapest piece of side us able to capture the piece
// on target. A piece already attacking it costs one step. A chariot on the
// target's rank or file whose line is blocked costs two, and so does a
// chariot off the line that can turn through a free corner square. Ties go
// to the lowest attacker square.
func bestAttacker(pos *board.Position, us board.Color, target board.Square) (plan, bool) {
	victim := pos.PieceAt(target).Type()
	best := plan{target: target, attacker: board.NoSquare}

	for from := range pos.Pieces(us).All() {
		mover := pos.PieceAt(from).Type()
		if !mover.IsMovable() || mover <= victim {
			continue
		}

		cost := 0
		switch {
		case board.Attacks(mover, from, pos.All).IsSet(target):
			cost = 1
		case mover != board.Chariot:
			continue
		case board.Aligned(from, target):
			cost = 2
		case chariotTurns(pos, from, target):
			cost = 2
		default:
			continue
		}

		if best.attacker == board.NoSquare || cost < best.cost {
			best.attacker = from
			best.cost = cost
		}
	}

	return best, best.attacker != board.NoSquare
}

// chariotTurns reports whether the chariot on from can reach target in two
// moves through one of the two corners shared with target's rank and file.
func chariotTurns(pos *board.Position, from, target board.Square) bool {
	occupied := pos.All &^ board.SquareBB(from)
	corners := [2]board.Square{
		board.NewSquare(target.File(), from.Rank()),
		board.NewSquare(from.File(), target.Rank()),
	}
	for _, corner := range corners {
		if !pos.IsEmpty(corner) || !board.Aligned(corner, target) {
			continue
		}
		if board.Attacks(board.Chariot, from, pos.All).IsSet(corner) &&
			board.Attacks(board.Chariot, corner, occupied).IsSet(target) {
			return true
		}
	}
	return false
}
