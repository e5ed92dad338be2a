package service

import (
	"sort"
	"strings"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/util"
)

const (
	SortRecent       = "recent"
	SortProgress     = "progress"
	SortAlphabetical = "alphabetical"
)

type CourseService struct {
	Catalog      *catalog.Catalog
	ProgressRepo *repository.ProgressRepository
}

func NewCourseService(cat *catalog.Catalog, progressRepo *repository.ProgressRepository) *CourseService {
	return &CourseService{Catalog: cat, ProgressRepo: progressRepo}
}

func (s *CourseService) List() []model.Course {
	return s.Catalog.Courses()
}

// CourseDetail is a course with the learner's completion flags merged into
// its curriculum.
type CourseDetail struct {
	model.Course
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

func (s *CourseService) Detail(learnerID, courseID string) (*CourseDetail, error) {
	course, err := s.Catalog.Course(courseID)
	if err != nil {
		return nil, err
	}
	done := map[int]bool{}
	if learnerID != "" {
		if done, err = s.ProgressRepo.CompletedLessons(learnerID, courseID); err != nil {
			return nil, err
		}
	}

	detail := &CourseDetail{Course: course}
	for i := range detail.Curriculum {
		if done[detail.Curriculum[i].ID] {
			detail.Curriculum[i].Completed = true
			detail.Completed++
		}
	}
	detail.Progress = percent(detail.Completed, len(detail.Curriculum))
	return detail, nil
}

// SetComplete marks a curriculum stub done or not done and returns the
// updated course.
func (s *CourseService) SetComplete(learnerID, courseID string, lessonID int, done bool) (*CourseDetail, error) {
	if _, err := s.Catalog.CurriculumLesson(courseID, lessonID); err != nil {
		return nil, err
	}
	var err error
	if done {
		err = s.ProgressRepo.MarkComplete(learnerID, courseID, lessonID)
	} else {
		err = s.ProgressRepo.MarkIncomplete(learnerID, courseID, lessonID)
	}
	if err != nil {
		return nil, err
	}
	return s.Detail(learnerID, courseID)
}

type EnrolledCourse struct {
	model.Course
	Completed    int       `json:"completed"`
	Total        int       `json:"total"`
	Progress     int       `json:"progress"`
	LastActivity time.Time `json:"lastActivity"`
}

// MyCourses lists courses with at least one completed stub.
func (s *CourseService) MyCourses(learnerID, sortBy string) ([]EnrolledCourse, error) {
	if sortBy == "" {
		sortBy = SortRecent
	}
	less, ok := enrolledOrder[sortBy]
	if !ok {
		return nil, util.ErrInvalidSort
	}

	activity, err := s.ProgressRepo.EnrolledCourses(learnerID)
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, 0, len(activity))
	for _, a := range activity {
		detail, err := s.Detail(learnerID, a.CourseID)
		if err != nil {
			// completions for a course that is no longer in the catalog
			continue
		}
		if detail.Completed == 0 {
			continue
		}
		total := len(detail.Curriculum)
		out = append(out, EnrolledCourse{
			Course:       detail.Course.Summary(),
			Completed:    detail.Completed,
			Total:        total,
			Progress:     detail.Progress,
			LastActivity: a.LastActivity,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

var enrolledOrder = map[string]func(a, b EnrolledCourse) bool{
	SortRecent: func(a, b EnrolledCourse) bool {
		return a.LastActivity.After(b.LastActivity)
	},
	SortProgress: func(a, b EnrolledCourse) bool {
		if a.Progress != b.Progress {
			return a.Progress > b.Progress
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	},
	SortAlphabetical: func(a, b EnrolledCourse) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	},
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}
