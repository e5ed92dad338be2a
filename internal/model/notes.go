package model

type NotesSection struct {
	Title       string `yaml:"title" json:"title"`
	Content     string `yaml:"content" json:"content"`
	CodeExample string `yaml:"codeExample" json:"codeExample,omitempty"`
}

// swagger:model Notes
type Notes struct {
	LessonID  string         `yaml:"lessonId" json:"lessonId"`
	Title     string         `yaml:"title" json:"title"`
	Language  string         `yaml:"language" json:"language"`
	Level     Level          `yaml:"level" json:"level"`
	Duration  string         `yaml:"duration" json:"duration"`
	Overview  string         `yaml:"overview" json:"overview"`
	Sections  []NotesSection `yaml:"sections" json:"sections"`
	KeyPoints []string       `yaml:"keyPoints" json:"keyPoints"`
	Exercises []string       `yaml:"exercises" json:"exercises"`
}
