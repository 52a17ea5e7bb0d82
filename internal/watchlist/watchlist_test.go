package watchlist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumScout/internal/model"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	assets, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	content := "id,symbol,name\nbitcoin,btc,Bitcoin\n,xxx,No Id\n ethereum, eth, Ethereum\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Asset{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}, assets)
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"wrong header":  "coin,ticker,title\nbitcoin,btc,Bitcoin\n",
		"short record":  "id,symbol,name\nbitcoin,btc\n",
		"extra columns": "id,symbol,name\nbitcoin,btc,Bitcoin,1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decode(strings.NewReader(content))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "list.csv")
	want := []model.Asset{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "usd-coin", Symbol: "usdc", Name: "USD Coin, bridged"},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestStore_MergeKeepsFirstSeen(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "list.csv"))
	require.NoError(t, err)

	added := s.Merge([]model.Asset{
		{ID: "a", Symbol: "A", Name: "Alpha"},
		{ID: "b", Symbol: "B", Name: "Beta"},
		{ID: "a", Symbol: "A2", Name: "Alpha again"},
		{ID: ""},
	})
	assert.Equal(t, 2, added)
	assert.Zero(t, s.Merge([]model.Asset{{ID: "b", Name: "Beta 2"}}))

	assets, err := s.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Asset{
		{ID: "a", Symbol: "A", Name: "Alpha"},
		{ID: "b", Symbol: "B", Name: "Beta"},
	}, assets)
}

func TestStore_MergeRankedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	s, err := Open(path)
	require.NoError(t, err)

	list := model.RankedList{
		{Asset: model.Asset{ID: "x", Symbol: "X", Name: "Ex"}, TotalScore: 3},
		{Asset: model.Asset{ID: "y", Symbol: "Y", Name: "Why"}, TotalScore: 2},
		{Asset: model.Asset{ID: "z", Symbol: "Z", Name: "Zed"}, TotalScore: 1},
	}
	require.NoError(t, s.MergeRanked(list, 2))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Asset{
		{ID: "x", Symbol: "X", Name: "Ex"},
		{ID: "y", Symbol: "Y", Name: "Why"},
	}, reopened.Assets())
}
