package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/internal/config"
	"datacleaner/pkg/contracts"
)

type fixedCounter int

func (c fixedCounter) ClientCount() int { return int(c) }

func TestHealthService_HealthCheck(t *testing.T) {
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir(), DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	hs := NewHealthService(paths, fixedCounter(3), nil)

	t.Run("degraded without outputs dir", func(t *testing.T) {
		status := hs.HealthCheck(context.Background())
		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "not_ready", status.Services["storage"].Status)
	})

	t.Run("ok once directories exist", func(t *testing.T) {
		require.NoError(t, paths.EnsureDirectories())
		status := hs.HealthCheck(context.Background())

		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, contracts.Version, status.Version)
		assert.Equal(t, "3 clients connected", status.Services["websocket"].Message)

		entries, err := os.ReadDir(paths.OutputsDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService(nil, nil, nil)
	info := hs.Version()
	assert.Equal(t, contracts.Version, info.Version)
	assert.Equal(t, contracts.APIVersion, info.APIVersion)
	assert.Equal(t, "not_ready", hs.HealthCheck(context.Background()).Services["storage"].Status)
}
