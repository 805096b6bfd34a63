package board

// Color represents the owner of a piece or the side to move.
type Color uint8

const (
	Black   Color = iota // uppercase letters
	Red                  // lowercase letters
	Mystery              // face-down piece, owner unknown
	NoColor
)

// SideNB is the number of playing sides.
const SideNB = 2

// Other returns the opposing side. Mystery and NoColor are returned unchanged.
func (c Color) Other() Color {
	if c > Red {
		return c
	}
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	case Mystery:
		return "Mystery"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a piece.
//
// The declared order is the capture order: a piece may only land on a square
// whose occupant has a strictly lower type. NoPieceType is the lowest so any
// mover outranks an empty square. This order is deliberately non-cyclic, there
// is no soldier-takes-general exception.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	General
	Advisor
	Elephant
	Chariot
	Horse
	Cannon
	Soldier
	Duck
	Hidden
	PieceTypeNB
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case General:
		return "General"
	case Advisor:
		return "Advisor"
	case Elephant:
		return "Elephant"
	case Chariot:
		return "Chariot"
	case Horse:
		return "Horse"
	case Cannon:
		return "Cannon"
	case Soldier:
		return "Soldier"
	case Duck:
		return "Duck"
	case Hidden:
		return "Hidden"
	default:
		return "None"
	}
}

// IsMovable returns true for the types that may be moved by their owner.
func (pt PieceType) IsMovable() bool {
	return pt >= General && pt <= Soldier
}

// Piece combines Color and PieceType into a single value.
// Encoded as: pieceType | color<<4
type Piece uint8

// NoPiece is the value of an empty square.
const NoPiece = Piece(NoPieceType) | Piece(NoColor)<<4

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt >= PieceTypeNB || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<4
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	return PieceType(p & 0x0F)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	return Color(p >> 4)
}

// IsFaceUp returns true if the piece is revealed and owned by a side.
func (p Piece) IsFaceUp() bool {
	return p.Color() < SideNB
}

// pieceChars holds the FEN letters indexed by PieceType; Black is uppercase.
const pieceChars = " KAERNCPD?"

// Char returns the FEN character for the piece.
// Uppercase for Black, lowercase for Red, '?' for a face-down piece.
func (p Piece) Char() byte {
	pt := p.Type()
	if p == NoPiece || pt >= PieceTypeNB {
		return ' '
	}
	c := pieceChars[pt]
	if p.Color() == Red && c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar converts a FEN character to a Piece.
// Returns NoPiece for characters that do not name a piece.
func PieceFromChar(c byte) Piece {
	if c == '?' {
		return NewPiece(Hidden, Mystery)
	}
	color := Black
	if c >= 'a' && c <= 'z' {
		color = Red
		c -= 'a' - 'A'
	}
	for pt := General; pt <= Duck; pt++ {
		if pieceChars[pt] == c {
			return NewPiece(pt, color)
		}
	}
	return NoPiece
}
