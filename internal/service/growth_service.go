package service

import (
	"fmt"
	"sort"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultWeeklyGoal = 5
	CalendarDays      = 30
)

type GrowthService struct {
	ActivityRepo *repository.ActivityRepository
	Catalog      *catalog.Catalog
	WeeklyGoal   int
	PublicURL    string

	now func() time.Time
}

func NewGrowthService(activityRepo *repository.ActivityRepository, cat *catalog.Catalog) *GrowthService {
	return &GrowthService{
		ActivityRepo: activityRepo,
		Catalog:      cat,
		WeeklyGoal:   DefaultWeeklyGoal,
		now:          time.Now,
	}
}

// Record counts one activity for the learner on today's date.
func (s *GrowthService) Record(learnerID string, kind model.ActivityKind) error {
	day := s.now().Format(util.DateFormat)
	if err := s.ActivityRepo.Increment(learnerID, day); err != nil {
		return err
	}
	logger.Log.Debug("Activity recorded",
		zap.String("learnerId", learnerID),
		zap.String("kind", string(kind)),
		zap.String("day", day))
	return nil
}

func (s *GrowthService) activeDays(learnerID string) ([]string, error) {
	rows, err := s.ActivityRepo.FindByLearner(learnerID)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(rows))
	for _, r := range rows {
		days = append(days, r.Day)
	}
	return days, nil
}

func (s *GrowthService) Streak(learnerID string) (*model.StreakData, error) {
	days, err := s.activeDays(learnerID)
	if err != nil {
		return nil, err
	}
	data := ComputeStreak(days, s.now(), s.WeeklyGoal)
	return &data, nil
}

// Calendar returns the last n days, oldest first, ending today.
func (s *GrowthService) Calendar(learnerID string, n int) ([]model.CalendarDay, error) {
	if n <= 0 {
		n = CalendarDays
	}
	today := truncateDay(s.now())
	from := today.AddDate(0, 0, -(n - 1))

	rows, err := s.ActivityRepo.FindSince(learnerID, from.Format(util.DateFormat))
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}

	out := make([]model.CalendarDay, 0, n)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(util.DateFormat)
		out = append(out, model.CalendarDay{Date: key, Count: counts[key], Intensity: Intensity(counts[key])})
	}
	return out, nil
}

// ShareStreak builds the share text for the learner's current streak.
func (s *GrowthService) ShareStreak(learnerID string) (*SharePayload, error) {
	streak, err := s.Streak(learnerID)
	if err != nil {
		return nil, err
	}
	return &SharePayload{
		Title: "My Coding Streak",
		Text:  fmt.Sprintf("🔥 %d-day learning streak on Syntax! Join me in learning to code! #SyntaxApp #CodingStreak", streak.CurrentStreak),
		URL:   s.PublicURL,
	}, nil
}

// Achievements marks every milestone whose threshold the longest streak has
// reached.
func (s *GrowthService) Achievements(learnerID string) ([]model.Achievement, error) {
	streak, err := s.Streak(learnerID)
	if err != nil {
		return nil, err
	}
	list := s.Catalog.Achievements()
	for i := range list {
		list[i].Unlocked = streak.LongestStreak >= list[i].StreakRequired
	}
	return list, nil
}

// Intensity buckets a day's activity count into the 0-4 heat scale.
func Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// ComputeStreak derives streak figures from a set of active YYYY-MM-DD days.
// The current streak counts back from today, or from yesterday when today has
// no activity yet.
func ComputeStreak(days []string, now time.Time, weeklyGoal int) model.StreakData {
	if weeklyGoal <= 0 {
		weeklyGoal = DefaultWeeklyGoal
	}
	today := truncateDay(now)

	active := make(map[string]bool, len(days))
	var parsed []time.Time
	for _, d := range days {
		t, err := time.ParseInLocation(util.DateFormat, d, today.Location())
		if err != nil || active[d] {
			continue
		}
		active[d] = true
		parsed = append(parsed, t)
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	data := model.StreakData{
		WeeklyGoal:    weeklyGoal,
		TotalDays:     len(parsed),
		TodayComplete: active[today.Format(util.DateFormat)],
	}

	start := today
	if !data.TodayComplete {
		start = today.AddDate(0, 0, -1)
	}
	for d := start; active[d.Format(util.DateFormat)]; d = d.AddDate(0, 0, -1) {
		data.CurrentStreak++
	}

	run := 0
	for i, t := range parsed {
		if i > 0 && parsed[i-1].AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		if run > data.LongestStreak {
			data.LongestStreak = run
		}
	}

	// weeks start on Monday
	offset := (int(today.Weekday()) + 6) % 7
	for d := today.AddDate(0, 0, -offset); !d.After(today); d = d.AddDate(0, 0, 1) {
		if active[d.Format(util.DateFormat)] {
			data.WeeklyProgress++
		}
	}
	return data
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
