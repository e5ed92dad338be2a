package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNotes(t *testing.T) {
	n := model.Notes{
		Title:    "Go Channels",
		Overview: "Send values between goroutines.",
		Sections: []model.NotesSection{
			{Title: "Make", Content: "Create with make.", CodeExample: "ch := make(chan int)"},
			{Title: "Close", Content: "Close when done.", CodeExample: "close(ch)"},
		},
		KeyPoints: []string{"Unbuffered sends block", "Range stops on close"},
		Exercises: []string{"Write a pipeline", "Fan out to workers"},
	}

	want := "Go Channels\n\n" +
		"Send values between goroutines.\n\n" +
		"Make\nCreate with make.\nch := make(chan int)\n\n" +
		"Close\nClose when done.\nclose(ch)\n\n" +
		"Key Points:\n• Unbuffered sends block\n• Range stops on close\n\n" +
		"Exercises:\n1. Write a pipeline\n2. Fan out to workers"
	assert.Equal(t, want, RenderNotes(n))
	assert.Equal(t, "Go_Channels_notes.txt", NotesFileName(n))
}

func TestNotesFileNameStripsSeparators(t *testing.T) {
	assert.Equal(t, "Algorithm_Binary_Search_notes.txt", NotesFileName(model.Notes{Title: "Algorithm: Binary Search"}))
}

func newNotesService(t *testing.T, dir string) *NotesService {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{
		Type:      "local",
		LocalPath: dir,
		LocalURL:  "/files/",
	}}}
	return NewNotesService(cat, storage, "https://syntax.example/")
}

func TestNotesServiceDownloadAndShare(t *testing.T) {
	svc := newNotesService(t, t.TempDir())

	dl, err := svc.Download("1")
	require.NoError(t, err)
	assert.Equal(t, "Python_List_Comprehensions_notes.txt", dl.FileName)
	assert.Contains(t, dl.Content, "Python List Comprehensions\n\nBuild lists with a single expression")
	assert.Contains(t, dl.Content, "\n\nExercises:\n1. Build a list of the first ten cube numbers")

	// derived notes for lessons without a written document
	derived, err := svc.Get("20")
	require.NoError(t, err)
	assert.Equal(t, "CSS Animation Fundamentals", derived.Title)
	require.Len(t, derived.Sections, 1)

	_, err = svc.Download("missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	share, err := svc.Share("1")
	require.NoError(t, err)
	assert.Equal(t, "https://syntax.example/notes/1", share.URL)
	assert.Equal(t, "Build lists with a single expression instead of an append loop.", share.Text)
}

func TestNotesServiceExport(t *testing.T) {
	dir := t.TempDir()
	svc := newNotesService(t, dir)

	exp, err := svc.Export(context.Background(), "l1", "1")
	require.NoError(t, err)
	assert.Equal(t, "local", exp.Storage)
	assert.Equal(t, "/files/notes/l1/Python_List_Comprehensions_notes.txt", exp.URL)

	data, err := os.ReadFile(filepath.Join(dir, "notes", "l1", exp.FileName))
	require.NoError(t, err)
	dl, err := svc.Download("1")
	require.NoError(t, err)
	assert.Equal(t, dl.Content, string(data))
}
