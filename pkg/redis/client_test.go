package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("empty url", func(t *testing.T) {
		_, err := options(Config{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("default port and url password", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://:secret@cache.local"})
		require.NoError(t, err)
		assert.Equal(t, "cache.local:6379", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Nil(t, opts.TLSConfig)
	})

	t.Run("tls with explicit password", func(t *testing.T) {
		opts, err := options(Config{URL: "rediss://:fromurl@cache.local:6380", Password: "explicit"})
		require.NoError(t, err)
		assert.Equal(t, "cache.local:6380", opts.Addr)
		assert.Equal(t, "explicit", opts.Password)
		assert.NotNil(t, opts.TLSConfig)
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := options(Config{URL: "http://cache.local"})
		assert.Error(t, err)
	})
}

func TestHealthCheckNilClient(t *testing.T) {
	assert.Error(t, HealthCheck(context.Background(), nil))
}
