package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/config"
	sharedConfig "github.com/gorodok-inc/gorodok/internal/shared/config"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func TestMapEnvToGinMode(t *testing.T) {
	cases := map[string]string{
		"production":  "release",
		"prod":        "release",
		"test":        "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range cases {
		assert.Equal(t, want, MapEnvToGinMode(env), env)
	}
}

func TestLoadDirectory(t *testing.T) {
	t.Run("missing file gives empty directory", func(t *testing.T) {
		cfg := config.Config{Wifi: sharedConfig.WifiConfig{PointsFile: filepath.Join(t.TempDir(), "nope.yaml")}}
		d, err := LoadDirectory(cfg, logger.NewNopLogger())
		require.NoError(t, err)
		assert.Empty(t, d.Points())
	})

	t.Run("reads points", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "points.yaml")
		require.NoError(t, os.WriteFile(path, []byte("points:\n  - id: p1\n    name: Park\n    lat: 55.7\n    lon: 37.6\n"), 0o644))

		d, err := LoadDirectory(config.Config{Wifi: sharedConfig.WifiConfig{PointsFile: path}}, logger.NewNopLogger())
		require.NoError(t, err)
		assert.True(t, d.Has("p1"))
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "points.yaml")
		require.NoError(t, os.WriteFile(path, []byte("points: [{id: p1, lat: 500, lon: 0}]"), 0o644))

		_, err := LoadDirectory(config.Config{Wifi: sharedConfig.WifiConfig{PointsFile: path}}, logger.NewNopLogger())
		assert.Error(t, err)
	})
}

func TestNewLocal_MemoryStore(t *testing.T) {
	cfg := &config.Config{
		Store:  sharedConfig.StoreConfig{Backend: "memory"},
		Notify: sharedConfig.NotifyConfig{Driver: "none"},
	}

	l, err := NewLocal(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)

	r, err := l.Service.Submit(context.Background(), report.WifiSuggestionPayload{
		Name:    "Школа №3",
		Address: "ул. Садовая, 1",
		Comment: "нужна точка у школы",
	}, nil)
	require.NoError(t, err)

	list, err := l.Service.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID(), list[0].ID())

	require.NoError(t, l.Close())
}

func TestNewLocal_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: sharedConfig.StoreConfig{Backend: "s3"}}
	_, err := NewLocal(context.Background(), cfg, logger.NewNopLogger())
	assert.Error(t, err)
}
