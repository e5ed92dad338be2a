package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"syntax_feed_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SYNTAX_FEED_STORAGE_LOCAL_PATH", filepath.Join(dir, "uploads"))
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("feed:\n  quiz_every: 5\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			select {
			case got <- cfg:
			default:
			}
		})
	}()

	// let the watcher register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("feed:\n  quiz_every: 7\n"), 0o644))

	select {
	case cfg := <-got:
		assert.Equal(t, 7, cfg.Feed.QuizEvery)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}
