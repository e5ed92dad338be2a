package service

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedService(t *testing.T, env *testEnv) (*FeedService, *stepScheduler, *fixedClock) {
	t.Helper()
	svc := NewFeedService(env.catalog, env.reactions, env.growth, nil, config.FeedConfig{
		QuizEvery:        feed.DefaultQuizEvery,
		AdEvery:          feed.DefaultAdEvery,
		AutoAdvanceDelay: feed.DefaultAutoAdvanceDelay,
	})
	sched := &stepScheduler{}
	svc.Scheduler = sched
	clock := newClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	svc.now = clock.Now
	return svc, sched, clock
}

func TestFeedServiceOpenAndNavigate(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)

	opened, err := svc.Open("l1")
	require.NoError(t, err)
	require.NotEmpty(t, opened.SessionID)

	// 20 lessons, a quiz after every 5th and one ad after the 15th
	assert.Equal(t, 25, opened.State.Total)
	assert.Equal(t, feed.StatusReady, opened.State.Status)
	assert.Equal(t, 0, opened.State.Index)
	assert.Equal(t, feed.KindQuiz, opened.State.Items[5].Kind)
	assert.Equal(t, feed.KindAd, opened.State.Items[18].Kind)
	assert.Equal(t, 1, svc.ActiveSessions())

	sid := opened.SessionID

	res, err := svc.Prev(sid, "l1", "")
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, 0, res.Index)

	res, err = svc.Next(sid, "l1", feed.ReasonSwipe)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, 1, res.Index)

	res, err = svc.Goto(sid, "l1", 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 24, res.Index)

	res, err = svc.Next(sid, "l1", "")
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, 24, res.Index)

	_, err = svc.Next(sid, "l1", "teleport")
	assert.ErrorIs(t, err, util.ErrInvalidReason)

	cur, err := svc.Current(sid, "l1")
	require.NoError(t, err)
	assert.Equal(t, 24, cur.Index)
	assert.Equal(t, 25, cur.Total)

	_, err = svc.State(sid, "someone-else")
	assert.ErrorIs(t, err, util.ErrSessionForbidden)
	_, err = svc.State("missing", "l1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// moving onto lessons counted as activity
	streak, err := env.growth.Streak("l1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak.TotalDays)
}

func TestFeedServiceVisibilityIsAdvisory(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)
	opened, err := svc.Open("l1")
	require.NoError(t, err)

	ok, err := svc.Visible(opened.SessionID, "l1", VisibilityRequest{Index: 7, Ratio: 0.9})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Visible(opened.SessionID, "l1", VisibilityRequest{Index: 99, Ratio: 0.9})
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := svc.State(opened.SessionID, "l1")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Index)
}

func TestFeedServiceAnswerAutoAdvances(t *testing.T) {
	env := newTestEnv(t)
	svc, sched, _ := newFeedService(t, env)
	opened, err := svc.Open("l1")
	require.NoError(t, err)
	sid := opened.SessionID

	quiz := opened.State.Items[5].Quiz
	require.NotNil(t, quiz)

	_, err = svc.Goto(sid, "l1", 5, "")
	require.NoError(t, err)

	_, err = svc.Answer(sid, "l1", 5, nil)
	assert.ErrorIs(t, err, feed.ErrNoSelection)
	_, err = svc.Answer(sid, "l1", 0, intPtr(0))
	assert.ErrorIs(t, err, feed.ErrNotQuiz)

	res, err := svc.Answer(sid, "l1", 5, intPtr(quiz.CorrectAnswer))
	require.NoError(t, err)
	assert.True(t, res.Correct)

	_, err = svc.Answer(sid, "l1", 5, intPtr(quiz.CorrectAnswer))
	assert.ErrorIs(t, err, feed.ErrAlreadyAnswered)

	st, err := svc.State(sid, "l1")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Index)

	assert.Equal(t, 1, sched.fire())
	st, err = svc.State(sid, "l1")
	require.NoError(t, err)
	assert.Equal(t, 6, st.Index)
	assert.True(t, st.Answers[5].Correct)
}

func TestFeedServiceSkip(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)
	opened, err := svc.Open("l1")
	require.NoError(t, err)

	_, err = svc.Goto(opened.SessionID, "l1", 11, "")
	require.NoError(t, err)
	skip, err := svc.Skip(opened.SessionID, "l1", 11)
	require.NoError(t, err)
	assert.True(t, skip.Result.Skipped)
	assert.True(t, skip.Moved)
	assert.Equal(t, 12, skip.Index)
}

func TestFeedServiceReactionsPersist(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)
	first, err := svc.Open("l1")
	require.NoError(t, err)

	original := *first.State.Items[0].Lesson
	liked, err := svc.ToggleLike(first.SessionID, "l1", original.ID)
	require.NoError(t, err)
	assert.Equal(t, !original.IsLiked, liked.IsLiked)

	saved, err := svc.ToggleSave(first.SessionID, "l1", original.ID)
	require.NoError(t, err)
	assert.Equal(t, !original.IsSaved, saved.IsSaved)

	_, err = svc.ToggleLike(first.SessionID, "l1", "no-such-lesson")
	assert.ErrorIs(t, err, feed.ErrLessonNotInFeed)

	second, err := svc.Open("l1")
	require.NoError(t, err)
	again := second.State.Items[0].Lesson
	assert.Equal(t, liked.IsLiked, again.IsLiked)
	assert.Equal(t, liked.Likes, again.Likes)
	assert.Equal(t, saved.IsSaved, again.IsSaved)

	// other learners see catalog defaults
	other, err := svc.Open("l2")
	require.NoError(t, err)
	assert.Equal(t, original.IsLiked, other.State.Items[0].Lesson.IsLiked)
	assert.Equal(t, original.Likes, other.State.Items[0].Lesson.Likes)
}

func feedLesson(t *testing.T, st feed.State, id string) *model.Lesson {
	t.Helper()
	for _, it := range st.Items {
		if it.Kind == feed.KindLesson && it.Lesson.ID == id {
			return it.Lesson
		}
	}
	t.Fatalf("lesson %s not in feed", id)
	return nil
}

func TestFeedServiceToggleKeepsOtherReaction(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)

	first, err := svc.Open("l1")
	require.NoError(t, err)
	two := feedLesson(t, first.State, "2")
	require.True(t, two.IsLiked)
	require.True(t, two.IsSaved)

	_, err = svc.ToggleSave(first.SessionID, "l1", "2")
	require.NoError(t, err)
	_, err = svc.ToggleLike(first.SessionID, "l1", "4")
	require.NoError(t, err)

	second, err := svc.Open("l1")
	require.NoError(t, err)
	two = feedLesson(t, second.State, "2")
	assert.True(t, two.IsLiked, "saving does not unlike")
	assert.Equal(t, 567, two.Likes)
	assert.False(t, two.IsSaved)

	four := feedLesson(t, second.State, "4")
	assert.True(t, four.IsLiked)
	assert.True(t, four.IsSaved, "liking does not unsave")
}

func TestFeedServiceConcurrentTogglesMatchStore(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)
	open, err := svc.Open("l1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(open.SessionID, "l1", "1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := svc.State(open.SessionID, "l1")
	require.NoError(t, err)
	inSession := feedLesson(t, *st, "1")
	assert.True(t, inSession.IsLiked)

	rows, err := env.reactions.FindByLearner("l1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inSession.IsLiked, rows[0].Liked)
}

func TestFeedServiceSweepAndClose(t *testing.T) {
	env := newTestEnv(t)
	svc, _, clock := newFeedService(t, env)

	idle, err := svc.Open("l1")
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	active, err := svc.Open("l1")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, svc.SweepIdle(30*time.Minute))
	_, err = svc.State(idle.SessionID, "l1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	_, err = svc.State(active.SessionID, "l1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Close(active.SessionID, "l2"), util.ErrSessionForbidden)
	require.NoError(t, svc.Close(active.SessionID, "l1"))
	assert.Zero(t, svc.ActiveSessions())
}

func TestFeedServiceUpdateConfig(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)

	svc.UpdateConfig(config.FeedConfig{QuizEvery: 10, AdEvery: 20, AutoAdvanceDelay: time.Second})
	opened, err := svc.Open("l1")
	require.NoError(t, err)
	// quizzes after lessons 10 and 20, an ad after lesson 20
	assert.Equal(t, 23, opened.State.Total)
}

func TestFeedServiceHandleInbound(t *testing.T) {
	env := newTestEnv(t)
	svc, _, _ := newFeedService(t, env)
	opened, err := svc.Open("l1")
	require.NoError(t, err)
	sid := opened.SessionID

	svc.HandleInbound(sid, WSMessage{Type: "NEXT", Data: json.RawMessage(`{"reason":"swipe"}`)})
	svc.HandleInbound(sid, WSMessage{Type: "NEXT"})
	svc.HandleInbound(sid, WSMessage{Type: "PREV", Data: json.RawMessage(`{"reason":"bogus"}`)})
	svc.HandleInbound(sid, WSMessage{Type: "VISIBLE", Data: json.RawMessage(`{"index":4,"ratio":0.6}`)})
	svc.HandleInbound("missing", WSMessage{Type: "NEXT"})

	st, err := svc.State(sid, "l1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Index)
}
