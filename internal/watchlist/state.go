package watchlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"MomentumScout/internal/model"
)

var header = []string{"id", "symbol", "name"}

// Load reads a watchlist CSV file. Returns an empty list if the file doesn't exist.
func Load(filePath string) ([]model.Asset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]model.Asset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), col) {
			return nil, fmt.Errorf("watchlist header: want %v, got %v", header, first)
		}
	}

	var assets []model.Asset
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read watchlist: %w", err)
		}
		a := model.Asset{
			ID:     strings.TrimSpace(rec[0]),
			Symbol: strings.TrimSpace(rec[1]),
			Name:   strings.TrimSpace(rec[2]),
		}
		if a.ID == "" {
			continue
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// Save writes the watchlist to filePath via a temp file and rename, so a
// reader never sees a partially written list.
func Save(filePath string, assets []model.Asset) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".watchlist-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, a := range assets {
		if err := w.Write([]string{a.ID, a.Symbol, a.Name}); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
