package model

// Lesson is one swipeable card in the feed.
// swagger:model Lesson
type Lesson struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Creator     string   `yaml:"creator" json:"creator"`
	Language    string   `yaml:"language" json:"language"`
	Topic       string   `yaml:"topic" json:"topic"`
	Level       Level    `yaml:"level" json:"level"`
	Duration    string   `yaml:"duration" json:"duration"`
	Caption     string   `yaml:"caption" json:"caption"`
	CodeSnippet string   `yaml:"codeSnippet" json:"codeSnippet"`
	Takeaways   []string `yaml:"takeaways" json:"takeaways"`
	Likes       int      `yaml:"likes" json:"likes"`
	IsLiked     bool     `yaml:"isLiked" json:"isLiked"`
	IsSaved     bool     `yaml:"isSaved" json:"isSaved"`
	Comments    int      `yaml:"comments" json:"comments"`
	Shares      int      `yaml:"shares" json:"shares"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Clone returns a copy that does not share slices with l.
func (l Lesson) Clone() Lesson {
	c := l
	c.Takeaways = append([]string(nil), l.Takeaways...)
	c.Tags = append([]string(nil), l.Tags...)
	return c
}

type QuizType string

const (
	QuizMCQ     QuizType = "mcq"
	QuizReorder QuizType = "reorder"
	QuizFindBug QuizType = "find-bug"
	QuizMatch   QuizType = "match"
	QuizPredict QuizType = "predict"
)

// swagger:model Quiz
type Quiz struct {
	ID            string   `yaml:"id" json:"id"`
	Type          QuizType `yaml:"type" json:"type"`
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correctAnswer" json:"correctAnswer"`
	Explanation   string   `yaml:"explanation" json:"explanation"`
	Language      string   `yaml:"language" json:"language"`
	Topic         string   `yaml:"topic" json:"topic"`
}

// swagger:model Ad
type Ad struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	CTA         string `yaml:"cta" json:"cta"`
	Image       string `yaml:"image" json:"image"`
	Color       string `yaml:"color" json:"color"`
}
