package service

import (
	"encoding/json"
	"sync"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"
	"syntax_feed_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type feedSession struct {
	id        string
	learnerID string
	ctrl      *feed.Controller
	lastSeen  time.Time

	// serializes a reaction toggle with its write
	reactMu sync.Mutex
}

// FeedService keeps one feed controller per open feed session. Sessions live
// in memory and expire after they have been idle for the configured TTL.
type FeedService struct {
	Catalog      *catalog.Catalog
	ReactionRepo *repository.ReactionRepository
	Growth       *GrowthService
	Hub          *FeedHub

	// Scheduler drives auto-advance timers. Nil means wall-clock timers.
	Scheduler feed.Scheduler

	mu       sync.Mutex
	sessions map[string]*feedSession
	layout   feed.Layout
	delay    time.Duration
	now      func() time.Time
}

func NewFeedService(cat *catalog.Catalog, reactionRepo *repository.ReactionRepository, growth *GrowthService, hub *FeedHub, cfg config.FeedConfig) *FeedService {
	return &FeedService{
		Catalog:      cat,
		ReactionRepo: reactionRepo,
		Growth:       growth,
		Hub:          hub,
		sessions:     make(map[string]*feedSession),
		layout:       cfg.Layout(),
		delay:        cfg.AutoAdvanceDelay,
		now:          time.Now,
	}
}

// UpdateConfig applies reloaded feed settings. The layout affects sessions
// opened afterwards; the auto-advance delay applies to open sessions too.
func (s *FeedService) UpdateConfig(cfg config.FeedConfig) {
	s.mu.Lock()
	s.layout = cfg.Layout()
	s.delay = cfg.AutoAdvanceDelay
	open := make([]*feed.Controller, 0, len(s.sessions))
	for _, fs := range s.sessions {
		open = append(open, fs.ctrl)
	}
	s.mu.Unlock()

	for _, c := range open {
		c.SetAutoAdvanceDelay(cfg.AutoAdvanceDelay)
	}
	logger.Log.Info("Feed settings reloaded",
		zap.Int("quizEvery", cfg.QuizEvery),
		zap.Int("adEvery", cfg.AdEvery),
		zap.Duration("autoAdvanceDelay", cfg.AutoAdvanceDelay))
}

type OpenFeedResponse struct {
	SessionID string     `json:"sessionId"`
	State     feed.State `json:"state"`
}

// Open builds a fresh feed for the learner with their stored likes and saves
// applied.
func (s *FeedService) Open(learnerID string) (*OpenFeedResponse, error) {
	rows, err := s.ReactionRepo.FindByLearner(learnerID)
	if err != nil {
		return nil, err
	}
	reactions := make(map[string]feed.Reaction, len(rows))
	for _, r := range rows {
		reactions[r.LessonID] = feed.Reaction{Liked: r.Liked, Saved: r.Saved}
	}

	s.mu.Lock()
	layout, delay := s.layout, s.delay
	s.mu.Unlock()

	items := feed.Build(s.Catalog.Lessons(), s.Catalog.Quizzes(), s.Catalog.Ads(), layout)
	feed.ApplyReactions(items, reactions)

	fs := &feedSession{
		id:        uuid.New().String(),
		learnerID: learnerID,
		lastSeen:  s.now(),
	}
	fs.ctrl = feed.NewController(items, feed.Options{
		AutoAdvanceDelay: delay,
		Scheduler:        s.Scheduler,
		Listener:         s.listener(fs.id, learnerID),
	})

	s.mu.Lock()
	s.sessions[fs.id] = fs
	s.mu.Unlock()
	monitoring.FeedSessions.Inc()

	logger.Log.Info("Feed session opened",
		zap.String("sessionId", fs.id),
		zap.String("learnerId", learnerID),
		zap.Int("items", len(items)))
	return &OpenFeedResponse{SessionID: fs.id, State: fs.ctrl.State()}, nil
}

func (s *FeedService) listener(sessionID, learnerID string) feed.Listener {
	return func(ev feed.Event) {
		switch ev.Type {
		case feed.EventIndexChanged:
			monitoring.FeedTransitions.WithLabelValues(string(ev.Reason)).Inc()
			if ev.Item != nil && ev.Item.Kind == feed.KindLesson {
				s.record(learnerID, model.ActivityLessonView)
			}
		case feed.EventQuizResult:
			if ev.Result != nil {
				monitoring.QuizAnswers.WithLabelValues(quizOutcome(*ev.Result)).Inc()
				if !ev.Result.Skipped {
					s.record(learnerID, model.ActivityQuiz)
				}
			}
		}
		if s.Hub != nil {
			s.Hub.Publish(sessionID, ev)
		}
	}
}

func quizOutcome(r feed.QuizResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Correct:
		return "correct"
	default:
		return "incorrect"
	}
}

func (s *FeedService) record(learnerID string, kind model.ActivityKind) {
	if s.Growth == nil {
		return
	}
	if err := s.Growth.Record(learnerID, kind); err != nil {
		logger.Log.Warn("Failed to record activity", zap.String("learnerId", learnerID), zap.Error(err))
	}
}

// session looks up a feed session owned by learnerID and marks it as seen.
func (s *FeedService) session(sessionID, learnerID string) (*feedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, ok := s.sessions[sessionID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if fs.learnerID != learnerID {
		return nil, util.ErrSessionForbidden
	}
	fs.lastSeen = s.now()
	return fs, nil
}

// Attach checks that the learner may watch the session's event stream.
func (s *FeedService) Attach(sessionID, learnerID string) error {
	_, err := s.session(sessionID, learnerID)
	return err
}

func (s *FeedService) State(sessionID, learnerID string) (*feed.State, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	st := fs.ctrl.State()
	return &st, nil
}

type CurrentItem struct {
	Index int       `json:"index"`
	Total int       `json:"total"`
	Item  feed.Item `json:"item"`
}

func (s *FeedService) Current(sessionID, learnerID string) (*CurrentItem, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	item, idx, err := fs.ctrl.Current()
	if err != nil {
		return nil, err
	}
	return &CurrentItem{Index: idx, Total: fs.ctrl.Len(), Item: item}, nil
}

type NavigationResult struct {
	Moved bool `json:"moved"`
	Index int  `json:"index"`
	Total int  `json:"total"`
}

type NavigateRequest struct {
	Reason feed.Reason `json:"reason"`
	Index  *int        `json:"index"`
}

func (s *FeedService) Next(sessionID, learnerID string, reason feed.Reason) (*NavigationResult, error) {
	return s.navigate(sessionID, learnerID, reason, func(c *feed.Controller, r feed.Reason) bool { return c.Next(r) })
}

func (s *FeedService) Prev(sessionID, learnerID string, reason feed.Reason) (*NavigationResult, error) {
	return s.navigate(sessionID, learnerID, reason, func(c *feed.Controller, r feed.Reason) bool { return c.Prev(r) })
}

func (s *FeedService) Goto(sessionID, learnerID string, target int, reason feed.Reason) (*NavigationResult, error) {
	return s.navigate(sessionID, learnerID, reason, func(c *feed.Controller, r feed.Reason) bool { return c.Goto(target, r) })
}

func (s *FeedService) navigate(sessionID, learnerID string, reason feed.Reason, move func(*feed.Controller, feed.Reason) bool) (*NavigationResult, error) {
	if reason != "" && !reason.Valid() {
		return nil, util.ErrInvalidReason
	}
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	moved := move(fs.ctrl, reason)
	return &NavigationResult{Moved: moved, Index: fs.ctrl.Index(), Total: fs.ctrl.Len()}, nil
}

type VisibilityRequest struct {
	Index int     `json:"index" binding:"min=0"`
	Ratio float64 `json:"ratio" binding:"min=0,max=1"`
}

// Visible records an advisory visibility report. It never moves the index.
func (s *FeedService) Visible(sessionID, learnerID string, req VisibilityRequest) (bool, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return false, err
	}
	ok := fs.ctrl.ObserveVisible(req.Index, req.Ratio)
	if ok {
		monitoring.FeedVisibilityReports.Inc()
	}
	return ok, nil
}

type AnswerRequest struct {
	Selected *int `json:"selected"`
}

func (s *FeedService) Answer(sessionID, learnerID string, position int, selected *int) (*feed.QuizResult, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	res, err := fs.ctrl.Answer(position, selected)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type SkipResponse struct {
	Result feed.QuizResult `json:"result"`
	Moved  bool            `json:"moved"`
	Index  int             `json:"index"`
}

func (s *FeedService) Skip(sessionID, learnerID string, position int) (*SkipResponse, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	res, moved, err := fs.ctrl.Skip(position)
	if err != nil {
		return nil, err
	}
	return &SkipResponse{Result: res, Moved: moved, Index: fs.ctrl.Index()}, nil
}

// ToggleLike flips the like on a lesson in the session and stores the
// lesson's like and save flags for the learner.
func (s *FeedService) ToggleLike(sessionID, learnerID, lessonID string) (*model.Lesson, error) {
	return s.toggleReaction(sessionID, learnerID, lessonID, (*feed.Controller).ToggleLike)
}

func (s *FeedService) ToggleSave(sessionID, learnerID, lessonID string) (*model.Lesson, error) {
	return s.toggleReaction(sessionID, learnerID, lessonID, (*feed.Controller).ToggleSave)
}

func (s *FeedService) toggleReaction(sessionID, learnerID, lessonID string,
	toggle func(*feed.Controller, string) (model.Lesson, error)) (*model.Lesson, error) {
	fs, err := s.session(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	fs.reactMu.Lock()
	defer fs.reactMu.Unlock()

	lesson, err := toggle(fs.ctrl, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ReactionRepo.SetReaction(learnerID, lessonID, lesson.IsLiked, lesson.IsSaved); err != nil {
		// keep the session consistent with what was stored
		_, _ = toggle(fs.ctrl, lessonID)
		return nil, err
	}
	return &lesson, nil
}

func (s *FeedService) Close(sessionID, learnerID string) error {
	if _, err := s.session(sessionID, learnerID); err != nil {
		return err
	}
	s.mu.Lock()
	fs := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if fs != nil {
		s.closeSession(fs)
	}
	return nil
}

func (s *FeedService) closeSession(fs *feedSession) {
	fs.ctrl.Close()
	if s.Hub != nil {
		s.Hub.CloseSession(fs.id)
	}
	monitoring.FeedSessions.Dec()
}

// SweepIdle closes sessions not used within ttl and returns how many were
// closed.
func (s *FeedService) SweepIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var expired []*feedSession
	for id, fs := range s.sessions {
		if fs.lastSeen.Before(cutoff) {
			expired = append(expired, fs)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, fs := range expired {
		s.closeSession(fs)
	}
	if len(expired) > 0 {
		logger.Log.Info("Idle feed sessions swept", zap.Int("closed", len(expired)))
	}
	return len(expired)
}

func (s *FeedService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll is called on shutdown.
func (s *FeedService) CloseAll() {
	s.mu.Lock()
	all := make([]*feedSession, 0, len(s.sessions))
	for id, fs := range s.sessions {
		all = append(all, fs)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, fs := range all {
		fs.ctrl.Close()
	}
	monitoring.FeedSessions.Set(0)
}

// HandleInbound serves messages sent up a feed socket. Sockets are only
// attached after ownership was checked, so the session id is trusted here.
func (s *FeedService) HandleInbound(sessionID string, msg WSMessage) {
	s.mu.Lock()
	fs, ok := s.sessions[sessionID]
	if ok {
		fs.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	switch msg.Type {
	case "VISIBLE":
		var req VisibilityRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return
		}
		if fs.ctrl.ObserveVisible(req.Index, req.Ratio) {
			monitoring.FeedVisibilityReports.Inc()
		}
	case "NEXT", "PREV":
		var req NavigateRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				return
			}
		}
		if req.Reason != "" && !req.Reason.Valid() {
			return
		}
		if msg.Type == "NEXT" {
			fs.ctrl.Next(req.Reason)
		} else {
			fs.ctrl.Prev(req.Reason)
		}
	default:
		logger.Log.Debug("Ignoring socket message", zap.String("type", msg.Type), zap.String("sessionId", sessionID))
	}
}
