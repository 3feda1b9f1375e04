package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	cfg := Get()

	assert.Equal(t, uint64(29117863), cfg.Marketplace.AppId)
	assert.Equal(t, uint64(9500), cfg.Marketplace.RoyaltyCap)
	assert.Equal(t, 12, cfg.Marketplace.GroupSize)
	assert.Equal(t, NullAddress, cfg.Marketplace.NullAddress)
	assert.Equal(t, int64(2630000), cfg.Staking.MonthSeconds)
	assert.Equal(t, []uint64{29103397}, cfg.Marketplace.Optins[29088600])
}

func TestGetReadsEnvironment(t *testing.T) {
	t.Setenv("GROUP_SIZE", "8")
	t.Setenv("LIST_FEE", "2500")
	t.Setenv("DEBUG", "true")

	cfg := Get()
	assert.Equal(t, 8, cfg.Marketplace.GroupSize)
	assert.Equal(t, uint64(2500), cfg.Marketplace.ListFee)
	assert.True(t, cfg.Debug)
}

func TestCollectionOptinsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketplace.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"optins": {"42": [7, 8], "bad": [1]}}`), 0o600))

	optins := collectionOptins(path)
	assert.Equal(t, map[uint64][]uint64{42: {7, 8}}, optins)
}

func TestCollectionOptinsFallback(t *testing.T) {
	assert.Equal(t, defaultOptins, collectionOptins(filepath.Join(t.TempDir(), "missing.json")))
}
