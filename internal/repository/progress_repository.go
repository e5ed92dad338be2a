package repository

import (
	"time"

	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkComplete is idempotent.
func (r *ProgressRepository) MarkComplete(learnerID, courseID string, lessonID int) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}, {Name: "course_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(&model.LessonCompletion{LearnerID: learnerID, CourseID: courseID, LessonID: lessonID}).Error
}

func (r *ProgressRepository) MarkIncomplete(learnerID, courseID string, lessonID int) error {
	return r.DB.Unscoped().
		Where("learner_id = ? AND course_id = ? AND lesson_id = ?", learnerID, courseID, lessonID).
		Delete(&model.LessonCompletion{}).Error
}

func (r *ProgressRepository) CompletedLessons(learnerID, courseID string) (map[int]bool, error) {
	var ids []int
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// CourseActivity is one enrolled course: how many stubs are done and when the
// learner last completed one.
type CourseActivity struct {
	CourseID     string
	Completed    int
	LastActivity time.Time
}

func (r *ProgressRepository) EnrolledCourses(learnerID string) ([]CourseActivity, error) {
	var rows []model.LessonCompletion
	if err := r.DB.Where("learner_id = ?", learnerID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byCourse := make(map[string]*CourseActivity)
	var order []string
	for _, row := range rows {
		a, ok := byCourse[row.CourseID]
		if !ok {
			a = &CourseActivity{CourseID: row.CourseID}
			byCourse[row.CourseID] = a
			order = append(order, row.CourseID)
		}
		a.Completed++
		if row.UpdatedAt.After(a.LastActivity) {
			a.LastActivity = row.UpdatedAt
		}
	}

	out := make([]CourseActivity, 0, len(order))
	for _, id := range order {
		out = append(out, *byCourse[id])
	}
	return out, nil
}
