// Package board implements the banqi (Chinese dark chess) board using bitboards.
package board

import "fmt"

// Square represents a square on the 4x8 board (0-31).
// Little-Endian Rank-File Mapping: A1=0, H1=7, A4=24, H4=31.
type Square uint8

// Board geometry.
const (
	FileNB   = 8
	RankNB   = 4
	SquareNB = FileNB * RankNB
)

// Square constants for all 32 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	NoSquare Square = SquareNB
)

// Direction is a square offset for one orthogonal step.
type Direction int8

const (
	North Direction = FileNB
	South Direction = -FileNB
	East  Direction = 1
	West  Direction = -1
)

// Directions lists the four orthogonal steps every piece moves along.
var Directions = [4]Direction{North, South, East, West}

// File returns the file (column) of the square (0-7, where 0=A, 7=H).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-3, where 0=1, 3=4).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the notation used on the wire (e.g., "B3").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'A'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*FileNB + file)
}

// ParseSquare parses notation such as "B3" into a Square.
// The file letter may be given in either case.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	f := s[0]
	if f >= 'a' && f <= 'z' {
		f -= 'a' - 'A'
	}
	file := int(f) - 'A'
	rank := int(s[1]) - '1'

	if file < 0 || file >= FileNB || rank < 0 || rank >= RankNB {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is on the board (0-31).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset steps one square in direction d.
// The second result is false when the step would leave the board.
func (sq Square) Offset(d Direction) (Square, bool) {
	switch d {
	case East:
		if sq.File() == FileNB-1 {
			return NoSquare, false
		}
	case West:
		if sq.File() == 0 {
			return NoSquare, false
		}
	}
	to := int(sq) + int(d)
	if to < 0 || to >= SquareNB {
		return NoSquare, false
	}
	return Square(to), true
}
