package model

type ExerciseTest struct {
	Input       string `yaml:"input" json:"input"`
	Expected    string `yaml:"expected" json:"expected"`
	Description string `yaml:"description" json:"description"`
}

// swagger:model PracticeExercise
type PracticeExercise struct {
	ID          string         `yaml:"id" json:"id"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Language    string         `yaml:"language" json:"language"`
	Difficulty  Difficulty     `yaml:"difficulty" json:"difficulty"`
	StarterCode string         `yaml:"starterCode" json:"starterCode"`
	Solution    string         `yaml:"solution" json:"-"`
	Tests       []ExerciseTest `yaml:"tests" json:"tests"`
	Hints       []string       `yaml:"hints" json:"-"`
}

// ExerciseAttempt records one run of the practice grader.
type ExerciseAttempt struct {
	BaseModel
	LearnerID  string `gorm:"size:36;index;not null" json:"learnerId"`
	ExerciseID string `gorm:"size:64;index;not null" json:"exerciseId"`
	Grader     string `gorm:"size:20" json:"grader"`
	Passed     int    `json:"passed"`
	Total      int    `json:"total"`
	AllPassed  bool   `json:"allPassed"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
