// Package puzzle reads collections of capture puzzles.
package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Case is one puzzle with the length of its shortest solution.
type Case struct {
	Name     string
	FEN      string
	Expected int
}

// Load reads puzzles from a file.
func Load(filename string) ([]Case, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader reads puzzles from a reader. Blank lines and lines starting with
// '#' are skipped; the remaining lines come in groups of three: name,
// position, expected number of moves.
func LoadReader(r io.Reader) ([]Case, error) {
	var cases []Case
	var group []string
	var groupLine int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		if len(group) == 0 {
			groupLine = lineNo
		}
		group = append(group, line)
		if len(group) < 3 {
			continue
		}

		expected, err := strconv.Atoi(group[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: expected move count for %q: %w", lineNo, group[0], err)
		}
		cases = append(cases, Case{Name: group[0], FEN: group[1], Expected: expected})
		group = group[:0]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(group) > 0 {
		return nil, fmt.Errorf("line %d: incomplete puzzle %q", groupLine, group[0])
	}

	return cases, nil
}
