package model

type ActivityKind string

const (
	ActivityLessonView ActivityKind = "lesson_view"
	ActivityQuiz       ActivityKind = "quiz"
	ActivityPractice   ActivityKind = "practice"
)

// ActivityDay counts a learner's activity on one calendar day.
type ActivityDay struct {
	BaseModel
	LearnerID string `gorm:"size:36;not null;uniqueIndex:idx_activity_day" json:"learnerId"`
	Day       string `gorm:"size:10;not null;uniqueIndex:idx_activity_day" json:"day"` // YYYY-MM-DD
	Count     int    `gorm:"default:0" json:"count"`
}

func (ActivityDay) TableName() string {
	return "activity_days"
}

// StreakData summarises a learner's streak.
// swagger:model StreakData
type StreakData struct {
	CurrentStreak  int  `json:"currentStreak"`
	LongestStreak  int  `json:"longestStreak"`
	TodayComplete  bool `json:"todayComplete"`
	WeeklyGoal     int  `json:"weeklyGoal"`
	WeeklyProgress int  `json:"weeklyProgress"`
	TotalDays      int  `json:"totalDays"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Intensity int    `json:"intensity"`
	Count     int    `json:"count"`
}
