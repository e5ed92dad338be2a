package service

import (
	"os"
	"path/filepath"
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"

	"go.uber.org/zap"
)

// VideoService resolves curriculum video URLs against the local media root
// and probes the files it finds there.
type VideoService struct {
	Catalog   *catalog.Catalog
	MediaRoot string

	probe func(path string) (*util.VideoInfo, error)
}

func NewVideoService(cat *catalog.Catalog, mediaRoot string) *VideoService {
	return &VideoService{Catalog: cat, MediaRoot: mediaRoot, probe: util.GetVideoInfo}
}

type VideoMetadata struct {
	CourseID string          `json:"courseId"`
	LessonID int             `json:"lessonId"`
	Title    string          `json:"title"`
	URL      string          `json:"url"`
	Probed   bool            `json:"probed"`
	Info     *util.VideoInfo `json:"info,omitempty"`
}

func (s *VideoService) Metadata(courseID string, lessonID int) (*VideoMetadata, error) {
	stub, err := s.Catalog.CurriculumLesson(courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if stub.Type != model.CurriculumVideo || stub.VideoURL == "" {
		return nil, util.ErrNotVideoLesson
	}

	meta := &VideoMetadata{CourseID: courseID, LessonID: lessonID, Title: stub.Title, URL: stub.VideoURL}

	path, ok := s.localPath(stub.VideoURL)
	if !ok {
		return meta, nil
	}
	info, err := s.inspect(path)
	if err != nil {
		logger.Log.Warn("Video probe skipped", zap.String("path", path), zap.Error(err))
		return meta, nil
	}
	meta.Probed = true
	meta.Info = info
	return meta, nil
}

// localPath maps a URL path like /videos/x.mp4 into the media root. Remote
// URLs and paths escaping the root are rejected.
func (s *VideoService) localPath(videoURL string) (string, bool) {
	if s.MediaRoot == "" || strings.Contains(videoURL, "://") {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(videoURL, "/")))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", false
	}
	return filepath.Join(s.MediaRoot, rel), true
}

func (s *VideoService) inspect(path string) (*util.VideoInfo, error) {
	if !util.HasVideoExtension(path) {
		return nil, util.ErrMediaNotAvailable
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, util.ErrMediaNotAvailable
	}
	mime, err := util.ValidateMimeType(f, []string{util.MimeVideo, "application/octet-stream"})
	f.Close()
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("Probing video", zap.String("path", path), zap.String("mime", mime))
	return s.probe(path)
}
