package feed

import (
	"errors"
	"sync"
	"time"

	"syntax_feed_backend/internal/model"
)

const DefaultAutoAdvanceDelay = 1500 * time.Millisecond

var (
	ErrEmptyFeed        = errors.New("feed is empty")
	ErrOutOfRange       = errors.New("position out of range")
	ErrNotQuiz          = errors.New("item is not a quiz")
	ErrAlreadyAnswered  = errors.New("quiz already answered")
	ErrLessonNotInFeed  = errors.New("lesson not in feed")
	ErrControllerClosed = errors.New("feed session closed")
)

type EventType string

const (
	EventIndexChanged EventType = "INDEX_CHANGED"
	EventQuizResult   EventType = "QUIZ_RESULT"
	EventItemUpdated  EventType = "ITEM_UPDATED"
)

// Reason tells why the index changed.
type Reason string

const (
	ReasonNext        Reason = "next"
	ReasonPrev        Reason = "prev"
	ReasonSwipe       Reason = "swipe"
	ReasonDrag        Reason = "drag"
	ReasonGoto        Reason = "goto"
	ReasonAutoAdvance Reason = "quiz-answered"
	ReasonQuizSkipped Reason = "quiz-skipped"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonNext, ReasonPrev, ReasonSwipe, ReasonDrag, ReasonGoto, ReasonAutoAdvance, ReasonQuizSkipped:
		return true
	}
	return false
}

type Event struct {
	Type     EventType   `json:"type"`
	Index    int         `json:"index"`
	Previous int         `json:"previous"`
	Reason   Reason      `json:"reason,omitempty"`
	Item     *Item       `json:"item,omitempty"`
	Result   *QuizResult `json:"result,omitempty"`
	At       time.Time   `json:"at"`
}

type Listener func(Event)

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Options struct {
	AutoAdvanceDelay time.Duration
	Scheduler        Scheduler
	Listener         Listener
}

// State is a point-in-time copy of a controller.
type State struct {
	Status  string             `json:"status"`
	Index   int                `json:"index"`
	Total   int                `json:"total"`
	Items   []Item             `json:"items"`
	Answers map[int]QuizResult `json:"answers,omitempty"`
}

const (
	StatusReady   = "ready"
	StatusLoading = "loading"
)

// Controller owns the position within one feed. The index is the only source
// of truth for which item is active: visibility reports are recorded but
// never move it.
type Controller struct {
	mu sync.Mutex

	items    []Item
	index    int
	answers  map[int]QuizResult
	visible  map[int]float64
	reports  int
	closed   bool
	delay    time.Duration
	sched    Scheduler
	listener Listener

	// pending auto-advance. gen is bumped whenever it is cancelled, so a timer
	// that fires after losing the race with Stop is ignored.
	pending Timer
	gen     uint64
}

// NewController copies items, so mutations made through the controller never
// leak into the caller's slice.
func NewController(items []Item, opts Options) *Controller {
	if opts.AutoAdvanceDelay <= 0 {
		opts.AutoAdvanceDelay = DefaultAutoAdvanceDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	return &Controller{
		items:    cloneItems(items),
		answers:  make(map[int]QuizResult),
		visible:  make(map[int]float64),
		delay:    opts.AutoAdvanceDelay,
		sched:    opts.Scheduler,
		listener: opts.Listener,
	}
}

func (c *Controller) SetListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// SetAutoAdvanceDelay affects auto-advances scheduled after the call.
func (c *Controller) SetAutoAdvanceDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.delay = d
	c.mu.Unlock()
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Controller) Current() (Item, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return Item{}, 0, ErrEmptyFeed
	}
	return c.items[c.index].clone(), c.index, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{Status: StatusReady, Index: c.index, Total: len(c.items), Items: cloneItems(c.items)}
	if len(c.items) == 0 {
		st.Status = StatusLoading
	}
	if len(c.answers) > 0 {
		st.Answers = make(map[int]QuizResult, len(c.answers))
		for k, v := range c.answers {
			st.Answers[k] = v
		}
	}
	return st
}

func (c *Controller) Next(reason Reason) bool {
	if reason == "" {
		reason = ReasonNext
	}
	return c.move(func(i int) int { return i + 1 }, reason)
}

func (c *Controller) Prev(reason Reason) bool {
	if reason == "" {
		reason = ReasonPrev
	}
	return c.move(func(i int) int { return i - 1 }, reason)
}

// Goto clamps target into range. It reports whether the index changed.
func (c *Controller) Goto(target int, reason Reason) bool {
	if reason == "" {
		reason = ReasonGoto
	}
	return c.move(func(int) int { return target }, reason)
}

func (c *Controller) move(next func(int) int, reason Reason) bool {
	c.mu.Lock()
	ev, moved := c.moveLocked(next(c.index), reason)
	listener := c.listener
	c.mu.Unlock()

	if moved {
		emit(listener, ev)
	}
	return moved
}

func (c *Controller) moveLocked(target int, reason Reason) (Event, bool) {
	if c.closed || len(c.items) == 0 {
		return Event{}, false
	}
	target = clamp(target, 0, len(c.items)-1)
	if target == c.index {
		return Event{}, false
	}

	prev := c.index
	c.index = target
	c.stopPendingLocked()

	item := c.items[target].clone()
	return Event{
		Type:     EventIndexChanged,
		Index:    target,
		Previous: prev,
		Reason:   reason,
		Item:     &item,
		At:       time.Now(),
	}, true
}

// ObserveVisible records that the item at index was reported visible with
// the given intersection ratio. It never moves the index.
func (c *Controller) ObserveVisible(index int, ratio float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return false
	}
	c.visible[index] = ratio
	c.reports++
	return true
}

// VisibilityReports returns how many advisory reports were recorded.
func (c *Controller) VisibilityReports() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports
}

// Answer grades the quiz at position. A correct or incorrect answer schedules
// exactly one auto-advance; it is dropped if the index moves first or the
// controller is closed.
func (c *Controller) Answer(position int, selected *int) (QuizResult, error) {
	c.mu.Lock()

	q, err := c.quizAtLocked(position)
	if err != nil {
		c.mu.Unlock()
		return QuizResult{}, err
	}
	correct, err := GradeQuiz(*q, selected)
	if err != nil {
		c.mu.Unlock()
		return QuizResult{}, err
	}

	sel := *selected
	res := QuizResult{
		Position:      position,
		QuizID:        q.ID,
		Selected:      &sel,
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	c.answers[position] = res

	c.stopPendingLocked()
	gen := c.gen
	c.pending = c.sched.AfterFunc(c.delay, func() { c.autoAdvance(gen) })

	listener := c.listener
	c.mu.Unlock()

	emit(listener, Event{Type: EventQuizResult, Index: position, Previous: position, Result: &res, At: time.Now()})
	return res, nil
}

func (c *Controller) autoAdvance(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	ev, moved := c.moveLocked(c.index+1, ReasonAutoAdvance)
	listener := c.listener
	c.mu.Unlock()

	if moved {
		emit(listener, ev)
	}
}

// Skip marks the quiz at position as skipped and advances immediately.
func (c *Controller) Skip(position int) (QuizResult, bool, error) {
	c.mu.Lock()

	q, err := c.quizAtLocked(position)
	if err != nil {
		c.mu.Unlock()
		return QuizResult{}, false, err
	}
	res := QuizResult{
		Position:      position,
		QuizID:        q.ID,
		Skipped:       true,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	c.answers[position] = res

	ev, moved := c.moveLocked(c.index+1, ReasonQuizSkipped)
	listener := c.listener
	c.mu.Unlock()

	emit(listener, Event{Type: EventQuizResult, Index: position, Previous: position, Result: &res, At: time.Now()})
	if moved {
		emit(listener, ev)
	}
	return res, moved, nil
}

func (c *Controller) quizAtLocked(position int) (*model.Quiz, error) {
	if c.closed {
		return nil, ErrControllerClosed
	}
	if len(c.items) == 0 {
		return nil, ErrEmptyFeed
	}
	if position < 0 || position >= len(c.items) {
		return nil, ErrOutOfRange
	}
	it := c.items[position]
	if it.Kind != KindQuiz {
		return nil, ErrNotQuiz
	}
	if _, done := c.answers[position]; done {
		return nil, ErrAlreadyAnswered
	}
	return it.Quiz, nil
}

// ToggleLike flips isLiked on the lesson and moves its like count by one.
// The count never drops below zero.
func (c *Controller) ToggleLike(lessonID string) (model.Lesson, error) {
	return c.updateLesson(lessonID, func(l *model.Lesson) {
		if l.IsLiked {
			if l.Likes > 0 {
				l.Likes--
			}
		} else {
			l.Likes++
		}
		l.IsLiked = !l.IsLiked
	})
}

func (c *Controller) ToggleSave(lessonID string) (model.Lesson, error) {
	return c.updateLesson(lessonID, func(l *model.Lesson) {
		l.IsSaved = !l.IsSaved
	})
}

func (c *Controller) updateLesson(lessonID string, fn func(*model.Lesson)) (model.Lesson, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.Lesson{}, ErrControllerClosed
	}

	pos := -1
	for i, it := range c.items {
		if it.Kind == KindLesson && it.Lesson.ID == lessonID {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.mu.Unlock()
		return model.Lesson{}, ErrLessonNotInFeed
	}

	fn(c.items[pos].Lesson)
	updated := c.items[pos].clone()
	listener := c.listener
	idx := c.index
	c.mu.Unlock()

	emit(listener, Event{Type: EventItemUpdated, Index: idx, Previous: idx, Item: &updated, At: time.Now()})
	return *updated.Lesson, nil
}

// Close cancels any pending auto-advance. Later mutations fail or are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopPendingLocked()
}

func (c *Controller) stopPendingLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func emit(l Listener, ev Event) {
	if l != nil {
		l(ev)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
