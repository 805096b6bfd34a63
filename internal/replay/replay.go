// Package replay checks move sequences against a puzzle, move by move.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/banqi/internal/board"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrDidNotWin   = errors.New("did not win")
)

// Exit statuses returned by Run.
const (
	ExitOK          = 0
	ExitIllegal     = 1
	ExitDidNotWin   = 2
	ExitBadPosition = 3
)

// Options configures a replay.
type Options struct {
	StrictOwnership bool
}

// Validate plays moves on a copy of pos until the game is decided and checks
// that the side to move has won. Moves left over once the game is decided are
// not examined.
func Validate(pos *board.Position, moves []board.Move) error {
	p := pos.Copy()
	us := p.SideToMove

	for i, m := range moves {
		if p.Winner() != board.NoColor {
			break
		}
		if !p.DoMove(m) {
			return fmt.Errorf("%w: move %d (%v) in %s", ErrIllegalMove, i+1, m, p.ToFEN())
		}
	}

	if w := p.Winner(); w != us {
		return fmt.Errorf("%w: %v to move, winner %v", ErrDidNotWin, us, w)
	}
	return nil
}

// Run reads a position line followed by moves ("MOVE A1 A2" or "FLIP A1")
// from in and applies them while the game is undecided. Verdicts go to out,
// failures to errOut. The returned value is the process exit status.
func Run(in io.Reader, out, errOut io.Writer, opts Options) int {
	reader := bufio.NewReader(in)

	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err == nil || err == io.EOF {
			err = errors.New("empty position line")
		}
		fmt.Fprintf(errOut, "BAD POSITION: %v\n", err)
		return ExitBadPosition
	}

	pos, err := board.ParseFEN(line)
	if err != nil {
		fmt.Fprintf(errOut, "Warning: %v\n", err)
	}
	pos.StrictOwnership = opts.StrictOwnership
	us := pos.SideToMove

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanWords)

	for pos.Winner() == board.NoColor {
		m, ok := nextMove(scanner)
		if !ok {
			break
		}
		if !pos.DoMove(m) {
			fmt.Fprintln(errOut, "ILLEGAL")
			return ExitIllegal
		}
	}

	if pos.Winner() != us {
		fmt.Fprintln(errOut, "DIDN'T WIN")
		return ExitDidNotWin
	}

	fmt.Fprintln(out, "Good job!")
	return ExitOK
}

// nextMove reads one move from a word scanner. Unparseable input yields
// NoMove, which DoMove rejects. ok is false once the input is exhausted.
func nextMove(scanner *bufio.Scanner) (board.Move, bool) {
	if !scanner.Scan() {
		return board.NoMove, false
	}

	fields := []string{scanner.Text()}
	want := 0
	switch fields[0] {
	case "MOVE":
		want = 2
	case "FLIP":
		want = 1
	}
	for i := 0; i < want; i++ {
		if !scanner.Scan() {
			break
		}
		fields = append(fields, scanner.Text())
	}

	m, err := board.ParseMoveFields(fields)
	if err != nil {
		return board.NoMove, true
	}
	return m, true
}
