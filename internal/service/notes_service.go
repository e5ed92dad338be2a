package service

import (
	"context"
	"fmt"
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"

	"go.uber.org/zap"
)

type NotesService struct {
	Catalog   *catalog.Catalog
	Storage   *StorageService
	PublicURL string
}

func NewNotesService(cat *catalog.Catalog, storage *StorageService, publicURL string) *NotesService {
	return &NotesService{Catalog: cat, Storage: storage, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (s *NotesService) Get(lessonID string) (*model.Notes, error) {
	n, err := s.Catalog.Notes(lessonID)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// RenderNotes produces the plain-text download: title, overview, the sections,
// then key points and numbered exercises, separated by blank lines.
func RenderNotes(n model.Notes) string {
	sections := make([]string, len(n.Sections))
	for i, sec := range n.Sections {
		sections[i] = sec.Title + "\n" + sec.Content + "\n" + sec.CodeExample
	}
	points := make([]string, len(n.KeyPoints))
	for i, p := range n.KeyPoints {
		points[i] = "• " + p
	}
	exercises := make([]string, len(n.Exercises))
	for i, e := range n.Exercises {
		exercises[i] = fmt.Sprintf("%d. %s", i+1, e)
	}

	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	b.WriteString(n.Overview)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(sections, "\n\n"))
	b.WriteString("\n\nKey Points:\n")
	b.WriteString(strings.Join(points, "\n"))
	b.WriteString("\n\nExercises:\n")
	b.WriteString(strings.Join(exercises, "\n"))
	return b.String()
}

// NotesFileName is the attachment name, e.g. "Python_List_Comprehensions_notes.txt".
func NotesFileName(n model.Notes) string {
	return util.SafeFileName(n.Title) + "_notes.txt"
}

type NotesDownload struct {
	FileName string
	Content  string
}

func (s *NotesService) Download(lessonID string) (*NotesDownload, error) {
	n, err := s.Catalog.Notes(lessonID)
	if err != nil {
		return nil, err
	}
	return &NotesDownload{FileName: NotesFileName(n), Content: RenderNotes(n)}, nil
}

type NotesExport struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
	Storage  string `json:"storage"`
}

// Export writes the rendered notes to the configured storage and returns
// where they can be fetched.
func (s *NotesService) Export(ctx context.Context, learnerID, lessonID string) (*NotesExport, error) {
	dl, err := s.Download(lessonID)
	if err != nil {
		return nil, err
	}

	key := "notes/" + learnerID + "/" + dl.FileName
	url, err := s.Storage.Upload(ctx, key, strings.NewReader(dl.Content), int64(len(dl.Content)), util.MimeTextPlain)
	if err != nil {
		logger.Log.Error("Notes export failed",
			zap.String("lessonId", lessonID),
			zap.String("storage", s.Storage.Provider.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrStorageUnavailable, err)
	}
	return &NotesExport{FileName: dl.FileName, URL: url, Storage: s.Storage.Provider.Name()}, nil
}

func (s *NotesService) Share(lessonID string) (*SharePayload, error) {
	n, err := s.Catalog.Notes(lessonID)
	if err != nil {
		return nil, err
	}
	return &SharePayload{Title: n.Title, Text: n.Overview, URL: s.PublicURL + "/notes/" + n.LessonID}, nil
}
