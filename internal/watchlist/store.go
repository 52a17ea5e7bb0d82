package watchlist

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"MomentumScout/internal/model"
)

// Store holds the watchlist in memory with concurrency safety and persists it
// to a CSV file.
type Store struct {
	mu       sync.Mutex
	assets   []model.Asset
	filePath string
}

// Open creates a Store, loading the list from disk when the file exists.
func Open(filePath string) (*Store, error) {
	assets, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", filePath).Int("assets", len(assets)).Msg("watchlist loaded")
	return &Store{assets: assets, filePath: filePath}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.filePath }

// Assets returns a copy of the current list.
func (s *Store) Assets() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// ListAssets lets the watchlist serve as the ranking universe.
func (s *Store) ListAssets(_ context.Context) ([]model.Asset, error) {
	return s.Assets(), nil
}

// Merge appends assets not already present, keyed by ID, keeping first-seen
// order. It returns the number of assets added.
func (s *Store) Merge(assets []model.Asset) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.assets))
	for _, a := range s.assets {
		seen[a.ID] = struct{}{}
	}
	added := 0
	for _, a := range assets {
		if a.ID == "" {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		s.assets = append(s.assets, a)
		added++
	}
	return added
}

// MergeRanked merges the assets of the top n ranked results and saves the
// list when anything changed.
func (s *Store) MergeRanked(list model.RankedList, n int) error {
	top := list.Top(n)
	assets := make([]model.Asset, len(top))
	for i, r := range top {
		assets[i] = r.Asset
	}
	added := s.Merge(assets)
	if added == 0 {
		return nil
	}
	log.Info().Int("added", added).Str("path", s.filePath).Msg("watchlist updated")
	return s.Save()
}

// Save persists the current list.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Save(s.filePath, s.assets)
}
