package telemetry

import (
	"encoding/json"
	"sort"
)

// HallOfFame keeps the best runs of a session, sorted by score descending.
type HallOfFame struct {
	entries []RunRecord
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]RunRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a finished run to the hall.
// Returns true if the run was added.
func (hof *HallOfFame) Consider(record RunRecord) bool {
	// Find insertion point (sorted descending by score, ties keep the earlier run)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Score < record.Score
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, RunRecord{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = record

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Entries returns the hall's runs, best first.
func (hof *HallOfFame) Entries() []RunRecord {
	return hof.entries
}

// Best returns the highest scoring run, if any.
func (hof *HallOfFame) Best() (RunRecord, bool) {
	if len(hof.entries) == 0 {
		return RunRecord{}, false
	}
	return hof.entries[0], true
}

// Len returns the number of runs held.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// MarshalJSON exports the hall as an indented JSON array.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}
