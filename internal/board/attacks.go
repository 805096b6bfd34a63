package board

import (
	"fmt"
	"sync"
)

// Pre-computed tables, filled by Init and read-only afterwards.
var (
	pseudoAttacks  [SquareNB]Bitboard // one orthogonal step, for every non-sliding type
	squareDistance [SquareNB][SquareNB]uint8

	initOnce sync.Once
	initErr  error
)

// Init builds the distance, neighbour and magic attack tables.
// It is safe to call more than once; only the first call does the work and
// every call returns the same result. Move generation must not be used
// before Init has returned nil.
func Init() error {
	initOnce.Do(func() {
		initDistance()
		initPseudoAttacks()
		initErr = initMagics()
	})
	return initErr
}

// MustInit calls Init and panics if the attack tables could not be built.
func MustInit() {
	if err := Init(); err != nil {
		panic(fmt.Sprintf("board: attack table initialization failed: %v", err))
	}
}

func initDistance() {
	for a := A1; a < NoSquare; a++ {
		for b := A1; b < NoSquare; b++ {
			squareDistance[a][b] = uint8(RankDistance(a, b) + FileDistance(a, b))
		}
	}
}

func initPseudoAttacks() {
	for sq := A1; sq < NoSquare; sq++ {
		var attacks Bitboard
		for _, d := range Directions {
			if to, ok := sq.Offset(d); ok {
				attacks |= SquareBB(to)
			}
		}
		pseudoAttacks[sq] = attacks
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RankDistance returns the number of ranks between two squares.
func RankDistance(a, b Square) int {
	return abs(a.Rank() - b.Rank())
}

// FileDistance returns the number of files between two squares.
func FileDistance(a, b Square) int {
	return abs(a.File() - b.File())
}

// Distance returns the rank distance plus the file distance of two squares.
func Distance(a, b Square) int {
	return int(squareDistance[a][b])
}

// PseudoAttacks returns the orthogonal neighbours of a square.
func PseudoAttacks(sq Square) Bitboard {
	return pseudoAttacks[sq]
}

// ChariotAttacks returns the chariot attack bitboard for a square with given occupancy.
func ChariotAttacks(sq Square, occupied Bitboard) Bitboard {
	return chariotMagics[sq].attacks(chariotTable, occupied)
}

// CannonAttacks returns the cannon attack bitboard for a square with given occupancy.
func CannonAttacks(sq Square, occupied Bitboard) Bitboard {
	return cannonMagics[sq].attacks(cannonTable, occupied)
}

// Attacks returns the squares a piece of type pt on sq may move to or capture
// on, given the occupied squares. Types that never move have no attacks.
func Attacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Chariot:
		return ChariotAttacks(sq, occupied)
	case Cannon:
		return CannonAttacks(sq, occupied)
	case General, Advisor, Elephant, Horse, Soldier:
		return pseudoAttacks[sq]
	default:
		return Empty
	}
}

// Aligned returns true if the two squares share a rank or a file.
func Aligned(a, b Square) bool {
	return a != b && (a.Rank() == b.Rank() || a.File() == b.File())
}
