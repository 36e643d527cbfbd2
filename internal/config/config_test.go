package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)

	// No config file in the test working directory: defaults apply.
	cfg, err := Load()
	req.NoError(err)

	req.Equal("release", cfg.Mode)
	req.Equal(3000, cfg.Port)
	req.Equal("redis://127.0.0.1:6379/0", cfg.StoreURI)
	req.Equal(int64(32768), cfg.ReadLimit)
	req.Equal(54*time.Second, cfg.PingPeriod)
}
