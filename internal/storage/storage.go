// Package storage persists solved puzzles, judge runs and solver statistics.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/banqi/internal/judge"
)

// Storage keys
const (
	keyStats          = "stats"
	prefixSolution    = "solution/"
	prefixRun         = "run/"
	defaultRunListCap = 16
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Solution is a solved puzzle, cached by heuristic and canonical position.
type Solution struct {
	ID        string        `json:"id"`
	FEN       string        `json:"fen"`
	Heuristic string        `json:"heuristic"`
	Strict    bool          `json:"strict"`
	Cost      int           `json:"cost"`
	Moves     []string      `json:"moves"`
	Expanded  uint64        `json:"expanded"`
	Elapsed   time.Duration `json:"elapsed"`
	SolvedAt  time.Time     `json:"solved_at"`
}

// Run is the record of one judge run.
type Run struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	Heuristic string         `json:"heuristic"`
	Strict    bool           `json:"strict"`
	Reports   []judge.Report `json:"reports"`
	Summary   judge.Summary  `json:"summary"`
}

// SolverStats accumulates solver activity across sessions.
type SolverStats struct {
	Searches      int           `json:"searches"`
	Solved        int           `json:"solved"`
	Unsolved      int           `json:"unsolved"`
	CacheHits     int           `json:"cache_hits"`
	TotalExpanded uint64        `json:"total_expanded"`
	TotalTime     time.Duration `json:"total_time"`
}

// NewSolverStats returns empty statistics
func NewSolverStats() *SolverStats {
	return &SolverStats{}
}

// SolveRate returns the share of searches that found a solution (0-100).
func (s *SolverStats) SolveRate() float64 {
	if s.Searches == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Searches) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// solutionKey separates solutions by heuristic and by ownership rule: the
// same placement can have different optimal answers under the two rules.
func solutionKey(heuristic string, strict bool, fen string) []byte {
	mode := "loose/"
	if strict {
		mode = "strict/"
	}
	return []byte(prefixSolution + heuristic + "/" + mode + fen)
}

func runKey(id string) []byte {
	return []byte(prefixRun + id)
}

// put stores v as JSON under key.
func (s *Storage) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// get decodes the JSON value under key into v.
func (s *Storage) get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveSolution stores a solution, assigning an ID and time stamp if missing.
func (s *Storage) SaveSolution(sol *Solution) error {
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	if sol.SolvedAt.IsZero() {
		sol.SolvedAt = time.Now()
	}
	return s.put(solutionKey(sol.Heuristic, sol.Strict, sol.FEN), sol)
}

// LoadSolution returns the cached solution of a position for a heuristic and
// ownership rule. found is false when nothing is cached.
func (s *Storage) LoadSolution(heuristic string, strict bool, fen string) (sol *Solution, found bool, err error) {
	sol = &Solution{}
	err = s.get(solutionKey(heuristic, strict, fen), sol)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return sol, true, nil
}

// DeleteSolution removes a cached solution.
func (s *Storage) DeleteSolution(heuristic string, strict bool, fen string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(solutionKey(heuristic, strict, fen))
	})
}

// SaveRun stores a judge run, assigning an ID if missing.
func (s *Storage) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return s.put(runKey(run.ID), run)
}

// LoadRun returns the judge run with the given ID, or ErrNotFound.
func (s *Storage) LoadRun(id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("run id %q: %w", id, err)
	}

	run := &Run{}
	if err := s.get(runKey(id), run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns every stored judge run, newest first.
func (s *Storage) ListRuns() ([]*Run, error) {
	runs := make([]*Run, 0, defaultRunListCap)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixRun)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			run := &Run{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, run)
			})
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// SaveStats saves solver statistics
func (s *Storage) SaveStats(stats *SolverStats) error {
	return s.put([]byte(keyStats), stats)
}

// LoadStats loads solver statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*SolverStats, error) {
	stats := NewSolverStats()
	err := s.get([]byte(keyStats), stats)
	if errors.Is(err, ErrNotFound) {
		return stats, nil // Use empty stats
	}
	return stats, err
}

// SearchRecord describes one finished search for RecordSearch.
type SearchRecord struct {
	Found    bool
	Cached   bool
	Expanded uint64
	Elapsed  time.Duration
}

// RecordSearch adds a finished search to the statistics
func (s *Storage) RecordSearch(rec SearchRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Searches++
	if rec.Found {
		stats.Solved++
	} else {
		stats.Unsolved++
	}
	if rec.Cached {
		stats.CacheHits++
	}
	stats.TotalExpanded += rec.Expanded
	stats.TotalTime += rec.Elapsed

	return s.SaveStats(stats)
}
