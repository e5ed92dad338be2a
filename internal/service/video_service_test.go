package service

import (
	"os"
	"path/filepath"
	"testing"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ftyp box of an ISO mp4
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

func newVideoService(t *testing.T, root string) (*VideoService, *int) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	svc := NewVideoService(cat, root)
	calls := 0
	svc.probe = func(path string) (*util.VideoInfo, error) {
		calls++
		return &util.VideoInfo{Duration: 180, Width: 1280, Height: 720, Format: "mov,mp4,m4a,3gp,3g2,mj2"}, nil
	}
	return svc, &calls
}

func TestVideoServiceProbesLocalFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "videos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "videos", "python-intro.mp4"), mp4Header, 0o644))

	svc, calls := newVideoService(t, root)
	meta, err := svc.Metadata("1", 1)
	require.NoError(t, err)
	assert.Equal(t, "/videos/python-intro.mp4", meta.URL)
	assert.Equal(t, "Introduction to Python", meta.Title)
	assert.True(t, meta.Probed)
	require.NotNil(t, meta.Info)
	assert.Equal(t, 1280, meta.Info.Width)
	assert.Equal(t, 1, *calls)
}

func TestVideoServiceFallsBackToURL(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "videos"), 0o755))
	// right extension, wrong content
	require.NoError(t, os.WriteFile(filepath.Join(root, "videos", "python-variables.mp4"), []byte("plain text"), 0o644))

	svc, calls := newVideoService(t, root)

	meta, err := svc.Metadata("1", 3)
	require.NoError(t, err)
	assert.False(t, meta.Probed)
	assert.Equal(t, "/videos/python-variables.mp4", meta.URL)

	// missing file
	meta, err = svc.Metadata("1", 5)
	require.NoError(t, err)
	assert.False(t, meta.Probed)
	assert.Zero(t, *calls)
}

func TestVideoServiceRejectsNonVideo(t *testing.T) {
	svc, _ := newVideoService(t, t.TempDir())

	_, err := svc.Metadata("1", 2)
	assert.ErrorIs(t, err, util.ErrNotVideoLesson)
	_, err = svc.Metadata("1", 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestVideoServiceLocalPath(t *testing.T) {
	svc, _ := newVideoService(t, "/srv/media")

	p, ok := svc.localPath("/videos/a.mp4")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/media", "videos", "a.mp4"), p)

	_, ok = svc.localPath("/../etc/passwd")
	assert.False(t, ok)
	_, ok = svc.localPath("https://cdn.example/a.mp4")
	assert.False(t, ok)

	svc.MediaRoot = ""
	_, ok = svc.localPath("/videos/a.mp4")
	assert.False(t, ok)
}
