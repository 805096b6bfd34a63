// Package judge solves puzzle collections and grades the answers.
package judge

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/banqi/internal/board"
	"github.com/hailam/banqi/internal/engine"
	"github.com/hailam/banqi/internal/puzzle"
	"github.com/hailam/banqi/internal/replay"
)

// Verdict grades one solved puzzle.
type Verdict int

const (
	Pass             Verdict = iota
	Timeout                  // over the time budget
	Suboptimal               // one move longer than expected
	HighlySuboptimal         // any other length
	Invalid                  // no solution, or moves that do not win
	verdictNB
)

// DefaultBudget is the time allowed for one puzzle.
const DefaultBudget = 10 * time.Second

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Pass:
		return "PASS"
	case Timeout:
		return "TIMEOUT"
	case Suboptimal:
		return "SUBOPTIMAL"
	case HighlySuboptimal:
		return "HIGHLY_SUBOPTIMAL"
	case Invalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Report is the outcome of one puzzle.
type Report struct {
	Case     puzzle.Case   `json:"case"`
	Verdict  Verdict       `json:"verdict"`
	Cost     int           `json:"cost"`
	Moves    []string      `json:"moves,omitempty"`
	Expanded uint64        `json:"expanded"`
	Elapsed  time.Duration `json:"elapsed"`
	Reason   string        `json:"reason,omitempty"`
}

// Judge solves puzzles concurrently, one independent search per puzzle.
// The budget is checked once a search returns; searches are never cut short.
type Judge struct {
	Heuristic       engine.Heuristic
	Budget          time.Duration // zero means no limit
	Workers         int           // zero means one under a budget, GOMAXPROCS otherwise
	StrictOwnership bool

	// OnReport, if set, is called as each puzzle finishes. Calls may come
	// from several goroutines at once.
	OnReport func(Report)
}

// Run judges every case. Reports are returned in input order. Only a
// cancelled context makes Run fail.
func (j *Judge) Run(ctx context.Context, cases []puzzle.Case) ([]Report, error) {
	reports := make([]Report, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers())

	for i, c := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = j.judge(c)
			if j.OnReport != nil {
				j.OnReport(reports[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// workers returns how many puzzles run at once. Timed puzzles run one at a
// time unless asked otherwise, so that searches do not share the CPU while
// their time is measured.
func (j *Judge) workers() int {
	switch {
	case j.Workers > 0:
		return j.Workers
	case j.Budget > 0:
		return 1
	default:
		return runtime.GOMAXPROCS(0)
	}
}

// judge solves and grades a single case.
func (j *Judge) judge(c puzzle.Case) Report {
	report := Report{Case: c, Cost: engine.NoSolution}

	pos, err := board.ParseFEN(c.FEN)
	if err != nil {
		report.Verdict = Invalid
		report.Reason = err.Error()
		return report
	}
	pos.StrictOwnership = j.StrictOwnership

	res := engine.NewEngine(j.Heuristic).Solve(pos)
	report.Cost = res.Cost
	report.Expanded = res.Expanded
	report.Elapsed = res.Elapsed
	for _, m := range res.Moves {
		report.Moves = append(report.Moves, m.String())
	}

	var replayErr error
	if res.Found {
		replayErr = replay.Validate(pos, res.Moves)
	}
	report.Verdict, report.Reason = grade(c.Expected, res, replayErr, j.Budget)
	return report
}

// grade classifies a result: the time budget first, then move validity, then
// the move count.
func grade(expected int, res engine.Result, replayErr error, budget time.Duration) (Verdict, string) {
	switch {
	case budget > 0 && res.Elapsed > budget:
		return Timeout, fmt.Sprintf("took %v, budget %v", res.Elapsed.Round(time.Millisecond), budget)
	case !res.Found:
		return Invalid, "no solution found"
	case replayErr != nil:
		return Invalid, replayErr.Error()
	case res.Cost == expected:
		return Pass, ""
	case res.Cost == expected+1:
		return Suboptimal, fmt.Sprintf("%d moves, expected %d", res.Cost, expected)
	default:
		return HighlySuboptimal, fmt.Sprintf("%d moves, expected %d", res.Cost, expected)
	}
}

// Summary aggregates the verdicts of a run.
type Summary struct {
	Total   int            `json:"total"`
	Counts  [verdictNB]int `json:"counts"`
	Elapsed time.Duration  `json:"elapsed"`
	Slowest string         `json:"slowest,omitempty"`
}

// Summarize aggregates reports.
func Summarize(reports []Report) Summary {
	var s Summary
	var slowest time.Duration
	for _, r := range reports {
		s.Total++
		if r.Verdict >= 0 && r.Verdict < verdictNB {
			s.Counts[r.Verdict]++
		}
		s.Elapsed += r.Elapsed
		if r.Elapsed > slowest {
			slowest = r.Elapsed
			s.Slowest = r.Case.Name
		}
	}
	return s
}

// Count returns the number of reports with verdict v.
func (s Summary) Count(v Verdict) int {
	if v < 0 || v >= verdictNB {
		return 0
	}
	return s.Counts[v]
}

// String returns a one-line summary such as "3/4 passed (SUBOPTIMAL 1)".
func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/%d passed", s.Counts[Pass], s.Total)

	var rest []string
	for v := Timeout; v < verdictNB; v++ {
		if s.Counts[v] > 0 {
			rest = append(rest, fmt.Sprintf("%v %d", v, s.Counts[v]))
		}
	}
	if len(rest) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(rest, ", "))
	}
	fmt.Fprintf(&sb, " in %v", s.Elapsed.Round(time.Millisecond))
	return sb.String()
}
