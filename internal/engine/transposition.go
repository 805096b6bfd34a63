package engine

// TranspositionTable records the cheapest known path cost of every position
// reached during a search, keyed by the canonical FEN. Positions reached by
// different move orders share one entry.
type TranspositionTable struct {
	entries map[string]int

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates an empty table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[string]int)}
}

// Probe returns the best path cost recorded for key.
func (tt *TranspositionTable) Probe(key string) (int, bool) {
	tt.probes++
	g, ok := tt.entries[key]
	if ok {
		tt.hits++
	}
	return g, ok
}

// Store records g as the best path cost for key.
func (tt *TranspositionTable) Store(key string, g int) {
	tt.entries[key] = g
}

// Len returns the number of distinct positions stored.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// Clear removes every entry and resets the statistics.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits = 0
	tt.probes = 0
}

// HitRate returns the fraction of probes that found an entry.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes)
}
