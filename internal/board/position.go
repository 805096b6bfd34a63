package board

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// TotalPieces is the size of a full banqi piece set (16 per side).
const TotalPieces = 32

// Position represents a complete banqi position.
type Position struct {
	// Piece on every square, NoPiece when empty.
	Board [SquareNB]Piece

	// Occupancy bitboards, kept in sync with Board by Place and Remove.
	ByType  [PieceTypeNB]Bitboard // indexed by PieceType
	ByColor [SideNB]Bitboard      // face-up pieces of each side
	All     Bitboard              // every occupied square
	FaceUp  Bitboard              // every revealed piece

	// Game state
	SideToMove    Color
	CaptureClock  int   // Moves since the last capture of a lesser opposing piece
	Illegal       Color // Side that attempted an illegal move, NoColor if none
	TimeRemaining [SideNB]time.Duration

	// Pieces not yet revealed, drawn from by FlipAt.
	Bag []Piece

	// StrictOwnership forbids landing on a square held by the mover's own
	// side. Off by default: the capture rule only compares types, so a piece
	// may overwrite a lesser piece of its own colour.
	StrictOwnership bool
}

// NewPosition creates an empty position with Black to move.
func NewPosition() *Position {
	p := &Position{}
	p.Clear()
	return p
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		SideToMove:      p.SideToMove,
		Illegal:         NoColor,
		StrictOwnership: p.StrictOwnership,
	}
	for sq := range p.Board {
		p.Board[sq] = NoPiece
	}
}

// Copy creates an independent deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.Bag = slices.Clone(p.Bag)
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.All.IsSet(sq)
}

// Pieces returns the face-up pieces of a side.
func (p *Position) Pieces(c Color) Bitboard {
	if c >= SideNB {
		return Empty
	}
	return p.ByColor[c]
}

// PiecesOf returns the face-up pieces of a side and type.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	if pt >= PieceTypeNB {
		return Empty
	}
	return p.Pieces(c) & p.ByType[pt]
}

// Count returns the number of face-up pieces of a side, of any type when pt
// is NoPieceType.
func (p *Position) Count(c Color, pt PieceType) int {
	if pt == NoPieceType {
		return p.Pieces(c).PopCount()
	}
	return p.PiecesOf(c, pt).PopCount()
}

// Place puts a piece on a square, removing whatever was there.
func (p *Position) Place(piece Piece, sq Square) {
	if p.Board[sq] != NoPiece {
		p.Remove(sq)
	}
	if piece == NoPiece {
		return
	}

	bb := SquareBB(sq)
	p.Board[sq] = piece
	p.ByType[piece.Type()] |= bb
	p.All |= bb

	if piece.IsFaceUp() {
		p.FaceUp |= bb
		p.ByColor[piece.Color()] |= bb
	}
}

// Remove clears a square and returns the piece that was on it.
func (p *Position) Remove(sq Square) Piece {
	piece := p.Board[sq]
	if piece == NoPiece {
		return NoPiece
	}

	bb := SquareBB(sq)
	p.Board[sq] = NoPiece
	p.ByType[piece.Type()] &^= bb
	p.All &^= bb

	if piece.IsFaceUp() {
		p.FaceUp &^= bb
		p.ByColor[piece.Color()] &^= bb
	}

	return piece
}

// Subordinates returns the opposing pieces of strictly lower type than pt,
// the ones whose capture resets the capture clock.
func (p *Position) Subordinates(c Color, pt PieceType) Bitboard {
	var b Bitboard
	for target := General; target < pt && target <= Duck; target++ {
		b |= p.PiecesOf(c.Other(), target)
	}
	return b
}

// canLand reports whether mover may finish on to. Type order alone decides,
// unless StrictOwnership also rules out the mover's own pieces.
func (p *Position) canLand(mover Piece, to Square) bool {
	target := p.Board[to]
	if mover.Type() <= target.Type() {
		return false
	}
	return !p.StrictOwnership || target == NoPiece || target.Color() != mover.Color()
}

// CanMove reports whether the piece on from may move to to for its owner,
// ignoring whose turn it is. Move generation and DoMove share this check.
func (p *Position) CanMove(from, to Square) bool {
	mover := p.Board[from]
	if !mover.IsFaceUp() || !mover.Type().IsMovable() {
		return false
	}
	if !Attacks(mover.Type(), from, p.All).IsSet(to) {
		return false
	}
	return p.canLand(mover, to)
}

// DoMove applies a move for the side to move.
// An illegal move records the offender in Illegal and leaves the position
// untouched. The side to move is not switched: the puzzle is solved by one
// side moving repeatedly.
func (p *Position) DoMove(m Move) bool {
	if m == NoMove || m.IsFlip() {
		p.Illegal = p.SideToMove
		return false
	}

	from, to := m.From(), m.To()
	mover := p.Board[from]

	if mover.Color() != p.SideToMove || !p.CanMove(from, to) {
		p.Illegal = p.SideToMove
		return false
	}

	if p.Subordinates(mover.Color(), mover.Type()).IsSet(to) {
		p.CaptureClock = 0
	} else {
		p.CaptureClock++
	}

	p.Remove(from)
	p.Place(mover, to)
	return true
}

// Winner returns the side that has won, or NoColor while undecided.
// The side to move wins once the opponent has no face-up pieces left and
// loses when it has no legal move. An opponent that merely cannot move has
// not lost: every piece must be captured.
func (p *Position) Winner() Color {
	us := p.SideToMove
	if us >= SideNB {
		return NoColor
	}
	them := us.Other()

	if p.Pieces(them).Empty() {
		return us
	}
	if !p.HasMoves(us) {
		return them
	}
	return NoColor
}

// TimeLeft returns the remaining time of a side; any other value selects the
// side to move.
func (p *Position) TimeLeft(c Color) time.Duration {
	if c >= SideNB {
		c = p.SideToMove
	}
	if c >= SideNB {
		return 0
	}
	return p.TimeRemaining[c]
}

// DefaultCollection returns the full 32-piece banqi set.
func DefaultCollection() []Piece {
	counts := [...]struct {
		pt PieceType
		n  int
	}{
		{General, 1}, {Advisor, 2}, {Elephant, 2}, {Chariot, 2},
		{Horse, 2}, {Cannon, 2}, {Soldier, 5},
	}

	pieces := make([]Piece, 0, TotalPieces)
	for _, c := range [...]Color{Red, Black} {
		for _, e := range counts {
			for i := 0; i < e.n; i++ {
				pieces = append(pieces, NewPiece(e.pt, c))
			}
		}
	}
	return pieces
}

// AddCollection adds pieces to the bag of unrevealed pieces.
// With no arguments the full default set is added.
func (p *Position) AddCollection(pieces ...Piece) {
	if len(pieces) == 0 {
		pieces = DefaultCollection()
	}
	p.Bag = append(p.Bag, pieces...)
}

// FlipAt reveals the face-down piece on sq by drawing from the bag, or a
// random face-up piece when the bag is empty. Returns false if the square
// does not hold a face-down piece.
func (p *Position) FlipAt(sq Square, rng *rand.Rand) bool {
	if p.Board[sq].Color() != Mystery {
		return false
	}

	var piece Piece
	if len(p.Bag) == 0 {
		piece = NewPiece(General+PieceType(rng.IntN(int(Soldier))), Color(rng.IntN(SideNB)))
	} else {
		i := rng.IntN(len(p.Bag))
		piece = p.Bag[i]
		p.Bag[i] = p.Bag[len(p.Bag)-1]
		p.Bag = p.Bag[:len(p.Bag)-1]
	}

	p.Place(piece, sq)
	return true
}

// Setup fills every square with a face-down piece; unless hidden is set,
// all of them are then flipped.
func (p *Position) Setup(hidden bool, rng *rand.Rand) {
	for sq := A1; sq < NoSquare; sq++ {
		p.Place(NewPiece(Hidden, Mystery), sq)
	}
	if hidden {
		return
	}
	for sq := A1; sq < NoSquare; sq++ {
		p.FlipAt(sq, rng)
	}
}

// Validate checks that the square array and every occupancy bitboard agree.
func (p *Position) Validate() error {
	var byType [PieceTypeNB]Bitboard
	var byColor [SideNB]Bitboard
	var all, faceUp Bitboard

	for sq := A1; sq < NoSquare; sq++ {
		piece := p.Board[sq]
		if piece == NoPiece {
			continue
		}
		if piece.Type() == NoPieceType || piece.Type() >= PieceTypeNB || piece.Color() >= NoColor {
			return fmt.Errorf("corrupt piece %#02x on %v", uint8(piece), sq)
		}
		bb := SquareBB(sq)
		byType[piece.Type()] |= bb
		all |= bb
		if piece.IsFaceUp() {
			faceUp |= bb
			byColor[piece.Color()] |= bb
		}
	}

	for pt := range byType {
		if byType[pt] != p.ByType[pt] {
			return fmt.Errorf("%v bitboard %08x does not match board %08x", PieceType(pt), uint32(p.ByType[pt]), uint32(byType[pt]))
		}
	}
	for c := range byColor {
		if byColor[c] != p.ByColor[c] {
			return fmt.Errorf("%v bitboard %08x does not match board %08x", Color(c), uint32(p.ByColor[c]), uint32(byColor[c]))
		}
	}
	if all != p.All {
		return fmt.Errorf("occupancy %08x does not match board %08x", uint32(p.All), uint32(all))
	}
	if faceUp != p.FaceUp {
		return fmt.Errorf("face-up bitboard %08x does not match board %08x", uint32(p.FaceUp), uint32(faceUp))
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n +---+---+---+---+---+---+---+---+\n")
	for rank := RankNB - 1; rank >= 0; rank-- {
		for file := 0; file < FileNB; file++ {
			piece := p.Board[NewSquare(file, rank)]
			sb.WriteString(" | ")
			if piece == NoPiece {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(piece.Char())
			}
		}
		fmt.Fprintf(&sb, " | %d\n +---+---+---+---+---+---+---+---+\n", rank+1)
	}
	sb.WriteString("   A   B   C   D   E   F   G   H\n")
	fmt.Fprintf(&sb, "%v to play, capture clock %d\n", p.SideToMove, p.CaptureClock)
	return sb.String()
}
