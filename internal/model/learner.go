package model

import "time"

// Learner is an anonymous guest identified by a signed session token.
// swagger:model Learner
type Learner struct {
	UUIDBase
	DisplayName string    `gorm:"size:100" json:"displayName"`
	LastSeen    time.Time `json:"lastSeen"`
}

func (Learner) TableName() string {
	return "learners"
}

// LessonReaction holds the like and save flags a learner set on a feed lesson.
type LessonReaction struct {
	BaseModel
	LearnerID string `gorm:"size:36;not null;uniqueIndex:idx_reaction_learner_lesson" json:"learnerId"`
	LessonID  string `gorm:"size:64;not null;uniqueIndex:idx_reaction_learner_lesson" json:"lessonId"`
	Liked     bool   `gorm:"default:false" json:"liked"`
	Saved     bool   `gorm:"default:false" json:"saved"`
}

func (LessonReaction) TableName() string {
	return "lesson_reactions"
}

// LessonCompletion marks a curriculum stub as completed for one learner.
type LessonCompletion struct {
	BaseModel
	LearnerID string `gorm:"size:36;not null;uniqueIndex:idx_completion" json:"learnerId"`
	CourseID  string `gorm:"size:64;not null;uniqueIndex:idx_completion" json:"courseId"`
	LessonID  int    `gorm:"not null;uniqueIndex:idx_completion" json:"lessonId"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}
