package skipqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, uint32(DefaultLevelCap), cfg.LevelCap)
	require.Equal(t, uint32(0), cfg.MaxSize)
}

func TestConfigWithDefaultsFillsZeroLevelCap(t *testing.T) {
	cfg := Config{MaxSize: 5}.withDefaults()
	require.Equal(t, uint32(DefaultLevelCap), cfg.LevelCap)
	require.Equal(t, uint32(5), cfg.MaxSize)
}

func TestConfigWithDefaultsPreservesExplicitLevelCap(t *testing.T) {
	cfg := Config{LevelCap: 8}.withDefaults()
	require.Equal(t, uint32(8), cfg.LevelCap)
}

func TestConfigWithDefaultsFillsNilBackoff(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.NotNil(t, cfg.Backoff)
	require.Equal(t, DefaultBackoff(2), cfg.Backoff(2))
}

func TestConfigWithDefaultsPreservesExplicitBackoff(t *testing.T) {
	custom := Backoff(func(attempt int) time.Duration { return time.Second })
	cfg := Config{Backoff: custom}.withDefaults()
	require.Equal(t, time.Second, cfg.Backoff(0))
}
