package feed

import (
	"fmt"

	"syntax_feed_backend/internal/model"
)

type Kind string

const (
	KindLesson Kind = "lesson"
	KindQuiz   Kind = "quiz"
	KindAd     Kind = "ad"
)

// Item is one entry of the feed. Exactly one of Lesson, Quiz or Ad is set,
// matching Kind.
// swagger:model FeedItem
type Item struct {
	Kind   Kind          `json:"kind"`
	Lesson *model.Lesson `json:"lesson,omitempty"`
	Quiz   *model.Quiz   `json:"quiz,omitempty"`
	Ad     *model.Ad     `json:"ad,omitempty"`
}

func LessonItem(l model.Lesson) Item {
	l = l.Clone()
	return Item{Kind: KindLesson, Lesson: &l}
}

func QuizItem(q model.Quiz) Item {
	q.Options = append([]string(nil), q.Options...)
	return Item{Kind: KindQuiz, Quiz: &q}
}

func AdItem(a model.Ad) Item {
	return Item{Kind: KindAd, Ad: &a}
}

// Key identifies the item within a feed, e.g. "lesson-3" or "quiz-quiz-1".
func (it Item) Key() string {
	switch it.Kind {
	case KindLesson:
		return fmt.Sprintf("lesson-%s", it.Lesson.ID)
	case KindQuiz:
		return fmt.Sprintf("quiz-%s", it.Quiz.ID)
	case KindAd:
		return fmt.Sprintf("ad-%s", it.Ad.ID)
	}
	return ""
}

// Title is the display title regardless of kind.
func (it Item) Title() string {
	switch it.Kind {
	case KindLesson:
		return it.Lesson.Title
	case KindQuiz:
		return it.Quiz.Question
	case KindAd:
		return it.Ad.Title
	}
	return ""
}

func (it Item) clone() Item {
	switch it.Kind {
	case KindLesson:
		return LessonItem(*it.Lesson)
	case KindQuiz:
		return QuizItem(*it.Quiz)
	case KindAd:
		return AdItem(*it.Ad)
	}
	return it
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}
