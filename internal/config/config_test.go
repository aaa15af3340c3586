package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	for _, k := range []string{"ATEST_HOME", "ATEST_STATE_DB", "ATEST_LOG_LEVEL", "ATEST_LOG_FORMAT", "ATEST_RECENT_LIMIT", "ATEST_LOG_USE_CASES"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".atest"), cfg.Home)
	assert.Equal(t, filepath.Join("/home/tester", ".atest", "state.db"), cfg.StateDB)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10, cfg.RecentLimit)
	assert.False(t, cfg.LogUseCases)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ATEST_HOME", "/srv/atest")
	t.Setenv("ATEST_STATE_DB", "")
	t.Setenv("ATEST_LOG_LEVEL", "DEBUG")
	t.Setenv("ATEST_LOG_FORMAT", "json")
	t.Setenv("ATEST_RECENT_LIMIT", "3")
	t.Setenv("ATEST_LOG_USE_CASES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/atest", cfg.Home)
	assert.Equal(t, filepath.Join("/srv/atest", "state.db"), cfg.StateDB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3, cfg.RecentLimit)
	assert.True(t, cfg.LogUseCases)

	t.Setenv("ATEST_STATE_DB", "/tmp/elsewhere.db")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", cfg.StateDB)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("ATEST_LOG_LEVEL", "loud")
	t.Setenv("ATEST_LOG_FORMAT", "xml")
	t.Setenv("ATEST_RECENT_LIMIT", "-2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10, cfg.RecentLimit)
}

func TestEnsureHome(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	cfg := Config{StateDB: filepath.Join(dir, "state.db")}

	require.NoError(t, cfg.EnsureHome())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, Config{StateDB: ":memory:"}.EnsureHome())
}
