package ranker

import (
	"sort"
	"sync"

	"MomentumScout/internal/model"
)

// Results collects asset results for one ranking run. It is owned by the
// caller and safe for concurrent Add from several workers.
type Results struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	seq    int // position of the asset in the universe
	result model.AssetResult
}

// NewResults creates an empty collector.
func NewResults() *Results {
	return &Results{}
}

// Add records the result of the asset found at position seq of the universe.
func (r *Results) Add(seq int, res model.AssetResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{seq: seq, result: res})
}

// Len returns the number of collected results.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Ranked returns every collected result ordered by total score, descending.
// Equal scores keep universe order regardless of completion order.
func (r *Results) Ranked() model.RankedList {
	r.mu.Lock()
	entries := make([]entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	list := make([]model.AssetResult, len(entries))
	for i, e := range entries {
		list[i] = e.result
	}
	return Sort(list)
}

// Sort orders results by total score, descending, keeping the relative order of
// equal scores. The input slice is not modified.
func Sort(results []model.AssetResult) model.RankedList {
	out := make(model.RankedList, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out
}
