package feed

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"syntax_feed_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessons(n int) []model.Lesson {
	out := make([]model.Lesson, n)
	for i := range out {
		out[i] = model.Lesson{ID: fmt.Sprint(i + 1), Title: fmt.Sprintf("Lesson %d", i+1), Level: model.Beginner, Likes: 10}
	}
	return out
}

func quizzes(n int) []model.Quiz {
	out := make([]model.Quiz, n)
	for i := range out {
		out[i] = model.Quiz{ID: fmt.Sprintf("q%d", i+1), Type: model.QuizMCQ, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1}
	}
	return out
}

func ads(n int) []model.Ad {
	out := make([]model.Ad, n)
	for i := range out {
		out[i] = model.Ad{ID: fmt.Sprintf("ad%d", i+1)}
	}
	return out
}

func keys(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func intp(v int) *int { return &v }

// manualScheduler fires timers only when told to.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every timer that has not been stopped, even if Stop lost a
// race, to mimic time.AfterFunc delivering late.
func (s *manualScheduler) fireAll(includeStopped bool) {
	s.mu.Lock()
	ts := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range ts {
		if t.fired || (t.stopped && !includeStopped) {
			continue
		}
		t.fired = true
		t.f()
	}
}

func TestBuild(t *testing.T) {
	t.Run("sixteen lessons", func(t *testing.T) {
		items := Build(lessons(16), quizzes(4), ads(2), DefaultLayout())
		require.Len(t, items, 20)

		want := []string{
			"lesson-1", "lesson-2", "lesson-3", "lesson-4", "lesson-5", "quiz-q1",
			"lesson-6", "lesson-7", "lesson-8", "lesson-9", "lesson-10", "quiz-q2",
			"lesson-11", "lesson-12", "lesson-13", "lesson-14", "lesson-15", "quiz-q3", "ad-ad1",
			"lesson-16",
		}
		assert.Equal(t, want, keys(items))
	})

	t.Run("missing quiz and ad slots are skipped", func(t *testing.T) {
		items := Build(lessons(15), quizzes(1), nil, DefaultLayout())
		assert.Len(t, items, 16)
		assert.Equal(t, KindQuiz, items[5].Kind)
		for _, it := range items[6:] {
			assert.Equal(t, KindLesson, it.Kind)
		}
	})

	t.Run("custom layout", func(t *testing.T) {
		items := Build(lessons(4), quizzes(4), ads(4), Layout{QuizEvery: 2, AdEvery: 4})
		assert.Equal(t, []string{
			"lesson-1", "lesson-2", "quiz-q1",
			"lesson-3", "lesson-4", "quiz-q2", "ad-ad1",
		}, keys(items))
	})

	t.Run("non-positive layout falls back to defaults", func(t *testing.T) {
		a := Build(lessons(16), quizzes(4), ads(2), Layout{})
		b := Build(lessons(16), quizzes(4), ads(2), DefaultLayout())
		assert.Equal(t, keys(b), keys(a))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Build(nil, quizzes(3), ads(3), DefaultLayout()))
	})

	t.Run("inputs are not shared", func(t *testing.T) {
		ls := lessons(1)
		items := Build(ls, nil, nil, DefaultLayout())
		items[0].Lesson.Title = "changed"
		assert.Equal(t, "Lesson 1", ls[0].Title)
	})
}

func TestApplyReactions(t *testing.T) {
	items := Build(lessons(3), nil, nil, DefaultLayout())
	items[2].Lesson.IsLiked = true

	ApplyReactions(items, map[string]Reaction{
		"1": {Liked: true, Saved: true},
		"3": {Liked: false},
	})

	assert.True(t, items[0].Lesson.IsLiked)
	assert.True(t, items[0].Lesson.IsSaved)
	assert.Equal(t, 11, items[0].Lesson.Likes)
	assert.Equal(t, 10, items[1].Lesson.Likes)
	assert.False(t, items[2].Lesson.IsLiked)
	assert.Equal(t, 9, items[2].Lesson.Likes)
}

func TestGradeQuiz(t *testing.T) {
	q := model.Quiz{Options: []string{"a", "b", "c"}, CorrectAnswer: 1}

	ok, err := GradeQuiz(q, intp(1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = GradeQuiz(q, intp(2))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = GradeQuiz(q, nil)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = GradeQuiz(q, intp(3))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = GradeQuiz(q, intp(-1))
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestControllerNavigation(t *testing.T) {
	items := Build(lessons(6), quizzes(1), nil, DefaultLayout())
	c := NewController(items, Options{})
	n := c.Len()
	require.Equal(t, 7, n)

	assert.False(t, c.Prev(""), "prev at start")
	assert.Equal(t, 0, c.Index())

	assert.True(t, c.Next(""))
	assert.Equal(t, 1, c.Index())

	assert.True(t, c.Goto(100, ReasonSwipe))
	assert.Equal(t, n-1, c.Index())
	assert.False(t, c.Next(""), "next at end")
	assert.Equal(t, n-1, c.Index())

	assert.True(t, c.Goto(-5, ""))
	assert.Equal(t, 0, c.Index())

	for i := 0; i < 3*n; i++ {
		if i%3 == 0 {
			c.Prev(ReasonDrag)
		} else {
			c.Next(ReasonSwipe)
		}
		idx := c.Index()
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, n)
	}
}

func TestControllerEmptyFeed(t *testing.T) {
	c := NewController(nil, Options{})

	_, _, err := c.Current()
	assert.ErrorIs(t, err, ErrEmptyFeed)
	assert.False(t, c.Next(""))
	assert.False(t, c.Goto(3, ""))

	st := c.State()
	assert.Equal(t, StatusLoading, st.Status)
	assert.Empty(t, st.Items)

	_, err = c.Answer(0, intp(0))
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestControllerVisibilityIsAdvisory(t *testing.T) {
	c := NewController(Build(lessons(5), nil, nil, DefaultLayout()), Options{})

	assert.True(t, c.ObserveVisible(3, 0.9))
	assert.True(t, c.ObserveVisible(4, 0.6))
	assert.False(t, c.ObserveVisible(9, 1))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 2, c.VisibilityReports())
}

func TestControllerAnswerAutoAdvancesOnce(t *testing.T) {
	sched := &manualScheduler{}
	var (
		mu     sync.Mutex
		events []Event
	)
	c := NewController(Build(lessons(6), quizzes(1), nil, DefaultLayout()), Options{
		Scheduler: sched,
		Listener: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})
	require.True(t, c.Goto(5, ""))

	res, err := c.Answer(5, intp(1))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 5, c.Index(), "no move before the delay")

	require.Len(t, sched.timers, 1)
	assert.Equal(t, DefaultAutoAdvanceDelay, sched.timers[0].d)

	sched.fireAll(true)
	assert.Equal(t, 6, c.Index())
	sched.fireAll(true)
	assert.Equal(t, 6, c.Index(), "fires exactly once")

	mu.Lock()
	defer mu.Unlock()
	var auto int
	for _, ev := range events {
		if ev.Type == EventIndexChanged && ev.Reason == ReasonAutoAdvance {
			auto++
		}
	}
	assert.Equal(t, 1, auto)
}

func TestControllerAnswerErrors(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(Build(lessons(5), quizzes(1), nil, DefaultLayout()), Options{Scheduler: sched})

	_, err := c.Answer(5, nil)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, sched.timers, "nil selection schedules nothing")

	_, err = c.Answer(0, intp(1))
	assert.ErrorIs(t, err, ErrNotQuiz)

	_, err = c.Answer(42, intp(1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = c.Answer(5, intp(7))
	assert.ErrorIs(t, err, ErrInvalidOption)

	res, err := c.Answer(5, intp(0))
	require.NoError(t, err)
	assert.False(t, res.Correct)

	_, err = c.Answer(5, intp(1))
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestControllerAutoAdvanceDroppedAfterMove(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(Build(lessons(10), quizzes(2), nil, DefaultLayout()), Options{Scheduler: sched})
	c.Goto(5, "")

	_, err := c.Answer(5, intp(1))
	require.NoError(t, err)
	c.Prev("")
	assert.Equal(t, 4, c.Index())

	sched.fireAll(true)
	assert.Equal(t, 4, c.Index())
}

func TestControllerAutoAdvanceDroppedAfterClose(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(Build(lessons(6), quizzes(1), nil, DefaultLayout()), Options{Scheduler: sched})
	c.Goto(5, "")

	_, err := c.Answer(5, intp(1))
	require.NoError(t, err)
	c.Close()

	sched.fireAll(true)
	assert.Equal(t, 5, c.Index())
	assert.False(t, c.Next(""))
}

func TestControllerRealTimer(t *testing.T) {
	c := NewController(Build(lessons(6), quizzes(1), nil, DefaultLayout()), Options{AutoAdvanceDelay: 10 * time.Millisecond})
	c.Goto(5, "")

	_, err := c.Answer(5, intp(1))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return c.Index() == 6 }, time.Second, 5*time.Millisecond)
}

func TestControllerSkip(t *testing.T) {
	c := NewController(Build(lessons(6), quizzes(1), nil, DefaultLayout()), Options{Scheduler: &manualScheduler{}})
	c.Goto(5, "")

	res, moved, err := c.Skip(5)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.True(t, res.Skipped)
	assert.Equal(t, 6, c.Index())

	_, _, err = c.Skip(5)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestControllerToggles(t *testing.T) {
	c := NewController(Build(lessons(3), nil, nil, DefaultLayout()), Options{})
	c.Goto(2, "")

	before, _, err := c.Current()
	require.NoError(t, err)

	l, err := c.ToggleLike("1")
	require.NoError(t, err)
	assert.True(t, l.IsLiked)
	assert.Equal(t, 11, l.Likes)

	l, err = c.ToggleLike("1")
	require.NoError(t, err)
	assert.False(t, l.IsLiked)
	assert.Equal(t, 10, l.Likes)

	l, err = c.ToggleSave("2")
	require.NoError(t, err)
	assert.True(t, l.IsSaved)
	l, err = c.ToggleSave("2")
	require.NoError(t, err)
	assert.False(t, l.IsSaved)

	after, _, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, before.Key(), after.Key(), "toggles do not move the pointer")
	assert.Equal(t, 2, c.Index())

	_, err = c.ToggleLike("404")
	assert.ErrorIs(t, err, ErrLessonNotInFeed)
}

func TestControllerToggleLikeKeepsCountNonNegative(t *testing.T) {
	ls := lessons(1)
	ls[0].IsLiked = true
	ls[0].Likes = 0
	c := NewController(Build(ls, nil, nil, DefaultLayout()), Options{})

	l, err := c.ToggleLike("1")
	require.NoError(t, err)
	assert.False(t, l.IsLiked)
	assert.Equal(t, 0, l.Likes)

	l, err = c.ToggleLike("1")
	require.NoError(t, err)
	assert.True(t, l.IsLiked)
	assert.Equal(t, 1, l.Likes)
}

func TestControllerCopiesItems(t *testing.T) {
	items := Build(lessons(2), nil, nil, DefaultLayout())
	c := NewController(items, Options{})

	_, err := c.ToggleLike("1")
	require.NoError(t, err)
	assert.False(t, items[0].Lesson.IsLiked)

	st := c.State()
	st.Items[0].Lesson.Title = "changed"
	cur, _, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, "Lesson 1", cur.Lesson.Title)
}
