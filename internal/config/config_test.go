package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"syntax_feed_backend/internal/grader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SYNTAX_FEED_STORAGE_LOCAL_PATH", filepath.Join(dir, "uploads"))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Feed.QuizEvery)
	assert.Equal(t, 15, cfg.Feed.AdEvery)
	assert.Equal(t, 1500*time.Millisecond, cfg.Feed.AutoAdvanceDelay)
	assert.Equal(t, 30*time.Minute, cfg.Feed.SessionTTL)
	assert.Equal(t, grader.ModeMock, cfg.Grader.Mode)
	assert.InDelta(t, 0.7, cfg.Grader.PassRate, 1e-9)
	assert.Equal(t, time.Second, cfg.Grader.RunDelay)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)

	_, err = os.Stat(filepath.Join(dir, "uploads"))
	assert.NoError(t, err, "local storage dir is created")
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	yaml := []byte(`
feed:
  quiz_every: 3
  ad_every: 9
  auto_advance_delay: 2s
grader:
  mode: judge0
  judge0:
    url: http://judge0.local
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("SYNTAX_FEED_FEED_AD_EVERY", "12")
	t.Setenv("JWT_SECRET", "from-conventional-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Feed.QuizEvery)
	assert.Equal(t, 12, cfg.Feed.AdEvery, "env wins over file")
	assert.Equal(t, 2*time.Second, cfg.Feed.AutoAdvanceDelay)
	assert.Equal(t, grader.ModeJudge0, cfg.Grader.Mode)
	assert.Equal(t, "http://judge0.local", cfg.Grader.Judge0.URL)
	assert.Equal(t, "from-conventional-env", cfg.JWT.Secret)
	assert.Equal(t, 3, cfg.Feed.Layout().QuizEvery)
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"driver":    "SYNTAX_FEED_DATABASE_DRIVER=oracle",
		"quiz":      "SYNTAX_FEED_FEED_QUIZ_EVERY=0",
		"pass rate": "SYNTAX_FEED_GRADER_PASS_RATE=1.5",
		"mode":      "SYNTAX_FEED_GRADER_MODE=docker",
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			k, v, _ := strings.Cut(kv, "=")
			t.Setenv(k, v)

			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestReleaseModeNeedsStrongSecret(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SYNTAX_FEED_SERVER_MODE", "release")
	t.Setenv("SYNTAX_FEED_JWT_SECRET", "short")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
