package board

import (
	"fmt"
	"strings"
)

// Move encodes a banqi move in 16 bits:
// bits 0-4:  from square (0-31)
// bits 5-9:  to square (0-31)
// bit  10:   flip flag (reveal the piece on from; to == from)
type Move uint16

// FlagFlip marks a reveal move.
const FlagFlip uint16 = 1 << 10

// NoMove represents an invalid or null move. A1 to A1 is never a relocation.
const NoMove Move = 0

// NewMove creates a relocation from one square to another.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<5
}

// NewFlip creates a reveal move on a square.
func NewFlip(sq Square) Move {
	return Move(sq) | Move(sq)<<5 | Move(FlagFlip)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x1F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 5) & 0x1F)
}

// IsFlip returns true if this is a reveal move.
func (m Move) IsFlip() bool {
	return uint16(m)&FlagFlip != 0
}

// String returns the wire format of the move ("MOVE A1 A2" or "FLIP A1").
func (m Move) String() string {
	if m == NoMove {
		return "NONE"
	}
	if m.IsFlip() {
		return "FLIP " + m.From().String()
	}
	return "MOVE " + m.From().String() + " " + m.To().String()
}

// ParseMove parses the wire format of a move.
func ParseMove(s string) (Move, error) {
	return ParseMoveFields(strings.Fields(s))
}

// ParseMoveFields parses a move already split into its command and squares.
func ParseMoveFields(fields []string) (Move, error) {
	if len(fields) == 0 {
		return NoMove, fmt.Errorf("empty move")
	}

	switch fields[0] {
	case "FLIP":
		if len(fields) != 2 {
			return NoMove, fmt.Errorf("FLIP takes one square, got %d", len(fields)-1)
		}
		sq, err := ParseSquare(fields[1])
		if err != nil {
			return NoMove, err
		}
		return NewFlip(sq), nil

	case "MOVE":
		if len(fields) != 3 {
			return NoMove, fmt.Errorf("MOVE takes two squares, got %d", len(fields)-1)
		}
		from, err := ParseSquare(fields[1])
		if err != nil {
			return NoMove, err
		}
		to, err := ParseSquare(fields[2])
		if err != nil {
			return NoMove, err
		}
		return NewMove(from, to), nil
	}

	return NoMove, fmt.Errorf("unknown move command %q", fields[0])
}

// MaxMoves bounds the moves of any position: at most ten destinations for
// each of the 32 squares.
const MaxMoves = SquareNB * 10

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
