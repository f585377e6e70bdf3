package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodeflow/internal/host"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(Config{GraphPaths: []string{"a.json"}})
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.WorkerCount)
		assert.Equal(t, host.DefaultLogCapacity, cfg.LogCapacity)
		assert.Zero(t, cfg.NodeTimeout)
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(Config{GraphPaths: []string{"a.json"}, WorkerCount: 3, LogCapacity: 10, NodeTimeout: time.Second})
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.WorkerCount)
		assert.Equal(t, 10, cfg.LogCapacity)
		assert.Equal(t, time.Second, cfg.NodeTimeout)
	})

	testCases := []struct {
		name      string
		cfg       Config
		expectErr string
	}{
		{name: "no graphs", cfg: Config{}, expectErr: "at least one graph path is required"},
		{name: "empty path", cfg: Config{GraphPaths: []string{"a.json", ""}}, expectErr: "graph paths cannot be empty"},
		{name: "negative workers", cfg: Config{GraphPaths: []string{"a.json"}, WorkerCount: -1}, expectErr: "worker count cannot be negative"},
		{name: "negative capacity", cfg: Config{GraphPaths: []string{"a.json"}, LogCapacity: -1}, expectErr: "log capacity cannot be negative"},
		{name: "negative timeout", cfg: Config{GraphPaths: []string{"a.json"}, NodeTimeout: -time.Second}, expectErr: "node timeout cannot be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}
