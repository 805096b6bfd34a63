package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FENFields is the number of fields in a position string: four ranks and the
// side to move.
const FENFields = RankNB + 1

// ErrMalformedFEN is wrapped by every warning ParseFEN returns.
var ErrMalformedFEN = errors.New("malformed FEN")

// ParseFEN parses a position string such as "R1k5/8/8/8 b".
//
// Ranks are listed from rank 1 upward and squares are filled in order from
// A1. Parsing is forgiving: a wrong field count is reported but parsing goes
// on, and an unknown character stops it. In both cases the returned position
// holds everything read so far and the error describes the problem. The
// position is never nil.
func ParseFEN(fen string) (*Position, error) {
	pos := NewPosition()
	var warnings []error

	tokens := fenTokens(fen)
	if len(tokens) != FENFields {
		warnings = append(warnings, fmt.Errorf("%w: %d fields, want %d", ErrMalformedFEN, len(tokens), FENFields))
	}

	sq := A1
	for i, token := range tokens {
		if i == FENFields-1 {
			if token == "b" {
				pos.SideToMove = Black
			} else {
				pos.SideToMove = Red
			}
			break
		}

		for j := 0; j < len(token); j++ {
			c := token[j]
			if piece := PieceFromChar(c); piece != NoPiece {
				if sq >= NoSquare {
					warnings = append(warnings, fmt.Errorf("%w: too many squares at %q", ErrMalformedFEN, c))
					return pos, errors.Join(warnings...)
				}
				pos.Place(piece, sq)
				sq++
				continue
			}

			empty := int(c) - '0'
			if empty < 1 || empty > FileNB {
				warnings = append(warnings, fmt.Errorf("%w: invalid character %q", ErrMalformedFEN, c))
				return pos, errors.Join(warnings...)
			}
			if int(sq)+empty > SquareNB {
				warnings = append(warnings, fmt.Errorf("%w: too many squares at %q", ErrMalformedFEN, c))
				return pos, errors.Join(warnings...)
			}
			sq += Square(empty)
		}
	}

	return pos, errors.Join(warnings...)
}

// fenTokens splits a position string into its ranks and side token. Ranks
// are separated by '/' and an empty rank is kept as an empty token, so it
// counts toward the field total. Whitespace separates the last rank from the
// side to move.
func fenTokens(fen string) []string {
	ranks := strings.Split(strings.TrimSpace(fen), "/")
	last := strings.Fields(ranks[len(ranks)-1])
	tokens := append(ranks[:len(ranks)-1:len(ranks)-1], last...)
	if len(tokens) == 1 && tokens[0] == "" {
		return nil
	}
	return tokens
}

// ToFEN returns the canonical string form of the position. Face-down pieces
// are written as '?' and the bag is not part of it.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 0; rank < RankNB; rank++ {
		empty := 0
		for file := 0; file < FileNB; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank < RankNB-1 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove == Black {
		sb.WriteString(" b")
	} else {
		sb.WriteString(" r")
	}

	return sb.String()
}
