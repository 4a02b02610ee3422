package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"later/internal/config"
)

func TestOpenStorage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := OpenStorage(ctx, &config.Config{Storage: "memory"}, logger)
		require.NoError(t, err)
		defer s.Close()
		assert.Nil(t, s.Pool)
		assert.NotNil(t, s.Repos.Matcher)
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, err := OpenStorage(ctx, &config.Config{Storage: "postgres"}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := OpenStorage(ctx, &config.Config{Storage: "sqlite"}, logger)
		assert.ErrorContains(t, err, "sqlite")
	})
}
