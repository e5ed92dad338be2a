package feed

import "syntax_feed_backend/internal/model"

const (
	DefaultQuizEvery = 5
	DefaultAdEvery   = 15
)

// Layout controls how often quizzes and ads are interleaved with lessons.
type Layout struct {
	QuizEvery int `mapstructure:"quiz_every" json:"quizEvery"`
	AdEvery   int `mapstructure:"ad_every" json:"adEvery"`
}

func DefaultLayout() Layout {
	return Layout{QuizEvery: DefaultQuizEvery, AdEvery: DefaultAdEvery}
}

// normalize replaces non-positive intervals with the defaults.
func (l Layout) normalize() Layout {
	if l.QuizEvery <= 0 {
		l.QuizEvery = DefaultQuizEvery
	}
	if l.AdEvery <= 0 {
		l.AdEvery = DefaultAdEvery
	}
	return l
}

// Build interleaves lessons, quizzes and ads. After lesson i the quiz
// quizzes[i/QuizEvery] follows when (i+1) is a multiple of QuizEvery, then the
// ad ads[i/AdEvery] when (i+1) is a multiple of AdEvery. Missing quizzes or ads
// are skipped. The result depends only on the inputs.
func Build(lessons []model.Lesson, quizzes []model.Quiz, ads []model.Ad, layout Layout) []Item {
	layout = layout.normalize()

	items := make([]Item, 0, len(lessons)+len(lessons)/layout.QuizEvery+len(lessons)/layout.AdEvery)
	for i, l := range lessons {
		items = append(items, LessonItem(l))

		if (i+1)%layout.QuizEvery == 0 {
			if qi := i / layout.QuizEvery; qi < len(quizzes) {
				items = append(items, QuizItem(quizzes[qi]))
			}
		}
		if (i+1)%layout.AdEvery == 0 {
			if ai := i / layout.AdEvery; ai < len(ads) {
				items = append(items, AdItem(ads[ai]))
			}
		}
	}
	return items
}

// Reaction is a learner's stored like/save state for one lesson.
type Reaction struct {
	Liked bool
	Saved bool
}

// ApplyReactions overlays stored reactions on lesson items. The like count is
// moved by one whenever the stored flag differs from the catalog default.
func ApplyReactions(items []Item, reactions map[string]Reaction) {
	for i := range items {
		if items[i].Kind != KindLesson {
			continue
		}
		l := items[i].Lesson
		r, ok := reactions[l.ID]
		if !ok {
			continue
		}
		if r.Liked != l.IsLiked {
			if r.Liked {
				l.Likes++
			} else if l.Likes > 0 {
				l.Likes--
			}
			l.IsLiked = r.Liked
		}
		l.IsSaved = r.Saved
	}
}
