package model

type CurriculumType string

const (
	CurriculumVideo CurriculumType = "video"
	CurriculumNotes CurriculumType = "notes"
)

// CurriculumLesson is a stub inside a course. Completed is filled per learner
// from LessonCompletion rows and is never read from content files.
type CurriculumLesson struct {
	ID           int            `yaml:"id" json:"id"`
	Title        string         `yaml:"title" json:"title"`
	Duration     string         `yaml:"duration" json:"duration"`
	Type         CurriculumType `yaml:"type" json:"type"`
	VideoURL     string         `yaml:"videoUrl" json:"videoUrl,omitempty"`
	NotesContent string         `yaml:"notesContent" json:"notesContent,omitempty"`
	Completed    bool           `yaml:"-" json:"completed"`
}

// swagger:model Course
type Course struct {
	ID            string             `yaml:"id" json:"id"`
	Title         string             `yaml:"title" json:"title"`
	Description   string             `yaml:"description" json:"description"`
	Instructor    string             `yaml:"instructor" json:"instructor"`
	InstructorBio string             `yaml:"instructorBio" json:"instructorBio"`
	Level         Level              `yaml:"level" json:"level"`
	EstimatedTime string             `yaml:"estimatedTime" json:"estimatedTime"`
	Lessons       int                `yaml:"lessons" json:"lessons"`
	Students      int                `yaml:"students" json:"students"`
	Rating        float64            `yaml:"rating" json:"rating"`
	Thumbnail     string             `yaml:"thumbnail" json:"thumbnail"`
	Topics        []string           `yaml:"topics" json:"topics"`
	Skills        []string           `yaml:"skills" json:"skills"`
	Curriculum    []CurriculumLesson `yaml:"curriculum" json:"curriculum,omitempty"`
}

// Summary drops the curriculum for list views.
func (c Course) Summary() Course {
	s := c
	s.Curriculum = nil
	s.Topics = append([]string(nil), c.Topics...)
	s.Skills = append([]string(nil), c.Skills...)
	return s
}

// WithCurriculum returns a copy whose curriculum can be mutated safely.
func (c Course) WithCurriculum() Course {
	s := c
	s.Curriculum = append([]CurriculumLesson(nil), c.Curriculum...)
	return s
}
