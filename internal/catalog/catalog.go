package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"syntax_feed_backend/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var embedded embed.FS

var (
	ErrNotFound       = errors.New("content not found")
	ErrInvalidContent = errors.New("invalid content")
)

// Catalog is the read-only content set: feed lessons, quiz bank, ads, courses,
// practice exercises, notes and community fixtures. Accessors hand out copies
// so callers can mutate what they get back.
type Catalog struct {
	lessons      []model.Lesson
	quizzes      []model.Quiz
	ads          []model.Ad
	courses      []model.Course
	exercises    []model.PracticeExercise
	notes        map[string]model.Notes
	workshops    []model.Workshop
	friends      []model.Friend
	achievements []model.Achievement
	onboarding   model.OnboardingOptions

	lessonIdx   map[string]int
	quizIdx     map[string]int
	courseIdx   map[string]int
	exerciseIdx map[string]int
	workshopIdx map[string]int
	friendIdx   map[string]int
}

type contentFile struct {
	Lessons      []model.Lesson           `yaml:"lessons"`
	Quizzes      []model.Quiz             `yaml:"quizzes"`
	Ads          []model.Ad               `yaml:"ads"`
	Courses      []model.Course           `yaml:"courses"`
	Exercises    []model.PracticeExercise `yaml:"exercises"`
	Notes        []model.Notes            `yaml:"notes"`
	Workshops    []model.Workshop         `yaml:"workshops"`
	Friends      []model.Friend           `yaml:"friends"`
	Achievements []model.Achievement      `yaml:"achievements"`
	Onboarding   *model.OnboardingOptions `yaml:"onboarding"`
}

var contentFiles = []string{
	"lessons.yaml",
	"quizzes.yaml",
	"ads.yaml",
	"courses.yaml",
	"exercises.yaml",
	"notes.yaml",
	"workshops.yaml",
	"community.yaml",
	"achievements.yaml",
	"onboarding.yaml",
}

// Default loads the content compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads content from a directory on disk. An empty dir selects the
// embedded content.
func LoadDir(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// Load reads every known content file from fsys. Missing files leave the
// corresponding table empty.
func Load(fsys fs.FS) (*Catalog, error) {
	var merged contentFile
	for _, name := range contentFiles {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var f contentFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		merged.Lessons = append(merged.Lessons, f.Lessons...)
		merged.Quizzes = append(merged.Quizzes, f.Quizzes...)
		merged.Ads = append(merged.Ads, f.Ads...)
		merged.Courses = append(merged.Courses, f.Courses...)
		merged.Exercises = append(merged.Exercises, f.Exercises...)
		merged.Notes = append(merged.Notes, f.Notes...)
		merged.Workshops = append(merged.Workshops, f.Workshops...)
		merged.Friends = append(merged.Friends, f.Friends...)
		merged.Achievements = append(merged.Achievements, f.Achievements...)
		if f.Onboarding != nil {
			merged.Onboarding = f.Onboarding
		}
	}
	return build(merged)
}

func build(f contentFile) (*Catalog, error) {
	c := &Catalog{
		lessons:      f.Lessons,
		quizzes:      f.Quizzes,
		ads:          f.Ads,
		courses:      f.Courses,
		exercises:    f.Exercises,
		workshops:    f.Workshops,
		friends:      f.Friends,
		achievements: f.Achievements,
		notes:        make(map[string]model.Notes, len(f.Notes)),
	}
	if f.Onboarding != nil {
		c.onboarding = *f.Onboarding
	}

	var err error
	if c.lessonIdx, err = index("lesson", len(c.lessons), func(i int) string { return c.lessons[i].ID }); err != nil {
		return nil, err
	}
	if c.quizIdx, err = index("quiz", len(c.quizzes), func(i int) string { return c.quizzes[i].ID }); err != nil {
		return nil, err
	}
	if c.courseIdx, err = index("course", len(c.courses), func(i int) string { return c.courses[i].ID }); err != nil {
		return nil, err
	}
	if c.exerciseIdx, err = index("exercise", len(c.exercises), func(i int) string { return c.exercises[i].ID }); err != nil {
		return nil, err
	}
	if c.workshopIdx, err = index("workshop", len(c.workshops), func(i int) string { return c.workshops[i].ID }); err != nil {
		return nil, err
	}
	if c.friendIdx, err = index("friend", len(c.friends), func(i int) string { return c.friends[i].ID }); err != nil {
		return nil, err
	}
	for _, n := range f.Notes {
		c.notes[n.LessonID] = n
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func index(kind string, n int, id func(int) string) (map[string]int, error) {
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			return nil, fmt.Errorf("%w: %s #%d has no id", ErrInvalidContent, kind, i)
		}
		if _, dup := idx[key]; dup {
			return nil, fmt.Errorf("%w: duplicate %s id %q", ErrInvalidContent, kind, key)
		}
		idx[key] = i
	}
	return idx, nil
}

func (c *Catalog) validate() error {
	for _, l := range c.lessons {
		if !l.Level.Valid() {
			return fmt.Errorf("%w: lesson %s has level %q", ErrInvalidContent, l.ID, l.Level)
		}
	}
	for _, q := range c.quizzes {
		if q.Type == "" || q.Type == model.QuizMCQ {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("%w: quiz %s correctAnswer %d out of range", ErrInvalidContent, q.ID, q.CorrectAnswer)
			}
		}
	}
	for _, co := range c.courses {
		if !co.Level.Valid() {
			return fmt.Errorf("%w: course %s has level %q", ErrInvalidContent, co.ID, co.Level)
		}
	}
	for _, e := range c.exercises {
		if !e.Difficulty.Valid() {
			return fmt.Errorf("%w: exercise %s has difficulty %q", ErrInvalidContent, e.ID, e.Difficulty)
		}
	}
	return nil
}

func (c *Catalog) Lessons() []model.Lesson {
	out := make([]model.Lesson, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = l.Clone()
	}
	return out
}

func (c *Catalog) Lesson(id string) (model.Lesson, error) {
	i, ok := c.lessonIdx[id]
	if !ok {
		return model.Lesson{}, ErrNotFound
	}
	return c.lessons[i].Clone(), nil
}

func (c *Catalog) Quizzes() []model.Quiz {
	return append([]model.Quiz(nil), c.quizzes...)
}

func (c *Catalog) Quiz(id string) (model.Quiz, error) {
	i, ok := c.quizIdx[id]
	if !ok {
		return model.Quiz{}, ErrNotFound
	}
	return c.quizzes[i], nil
}

func (c *Catalog) Ads() []model.Ad {
	return append([]model.Ad(nil), c.ads...)
}

// Courses returns every course without its curriculum.
func (c *Catalog) Courses() []model.Course {
	out := make([]model.Course, len(c.courses))
	for i, co := range c.courses {
		out[i] = co.Summary()
	}
	return out
}

func (c *Catalog) Course(id string) (model.Course, error) {
	i, ok := c.courseIdx[id]
	if !ok {
		return model.Course{}, ErrNotFound
	}
	return c.courses[i].WithCurriculum(), nil
}

func (c *Catalog) CurriculumLesson(courseID string, lessonID int) (model.CurriculumLesson, error) {
	co, err := c.Course(courseID)
	if err != nil {
		return model.CurriculumLesson{}, err
	}
	for _, l := range co.Curriculum {
		if l.ID == lessonID {
			return l, nil
		}
	}
	return model.CurriculumLesson{}, ErrNotFound
}

// Exercises lists practice exercises, optionally for one language
// (case-insensitive).
func (c *Catalog) Exercises(language string) []model.PracticeExercise {
	var out []model.PracticeExercise
	for _, e := range c.exercises {
		if language == "" || strings.EqualFold(e.Language, language) {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) Exercise(id string) (model.PracticeExercise, error) {
	i, ok := c.exerciseIdx[id]
	if !ok {
		return model.PracticeExercise{}, ErrNotFound
	}
	return c.exercises[i], nil
}

// Notes returns the study notes for a feed lesson. Lessons without a written
// notes document get one derived from the lesson card itself.
func (c *Catalog) Notes(lessonID string) (model.Notes, error) {
	if n, ok := c.notes[lessonID]; ok {
		return n, nil
	}
	l, err := c.Lesson(lessonID)
	if err != nil {
		return model.Notes{}, err
	}
	return model.Notes{
		LessonID: l.ID,
		Title:    l.Title,
		Language: l.Language,
		Level:    l.Level,
		Duration: l.Duration,
		Overview: l.Caption,
		Sections: []model.NotesSection{{
			Title:       l.Topic,
			Content:     l.Caption,
			CodeExample: l.CodeSnippet,
		}},
		KeyPoints: l.Takeaways,
	}, nil
}

func (c *Catalog) Workshops() []model.Workshop {
	return append([]model.Workshop(nil), c.workshops...)
}

func (c *Catalog) Workshop(id string) (model.Workshop, error) {
	i, ok := c.workshopIdx[id]
	if !ok {
		return model.Workshop{}, ErrNotFound
	}
	return c.workshops[i], nil
}

func (c *Catalog) Friends() []model.Friend {
	return append([]model.Friend(nil), c.friends...)
}

func (c *Catalog) Friend(id string) (model.Friend, error) {
	i, ok := c.friendIdx[id]
	if !ok {
		return model.Friend{}, ErrNotFound
	}
	return c.friends[i], nil
}

func (c *Catalog) Achievements() []model.Achievement {
	return append([]model.Achievement(nil), c.achievements...)
}

func (c *Catalog) Onboarding() model.OnboardingOptions {
	return c.onboarding
}
