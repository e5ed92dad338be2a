package service

import (
	"fmt"
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/util"
)

type ProfileService struct {
	Catalog      *catalog.Catalog
	LearnerRepo  *repository.LearnerRepository
	ProfileRepo  *repository.ProfileRepository
	ReactionRepo *repository.ReactionRepository
	AttemptRepo  *repository.AttemptRepository
	ProgressRepo *repository.ProgressRepository
	Growth       *GrowthService
}

func NewProfileService(
	cat *catalog.Catalog,
	learnerRepo *repository.LearnerRepository,
	profileRepo *repository.ProfileRepository,
	reactionRepo *repository.ReactionRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	growth *GrowthService,
) *ProfileService {
	return &ProfileService{
		Catalog:      cat,
		LearnerRepo:  learnerRepo,
		ProfileRepo:  profileRepo,
		ReactionRepo: reactionRepo,
		AttemptRepo:  attemptRepo,
		ProgressRepo: progressRepo,
		Growth:       growth,
	}
}

func (s *ProfileService) OnboardingOptions() model.OnboardingOptions {
	return s.Catalog.Onboarding()
}

type OnboardingStatus struct {
	Completed bool                     `json:"completed"`
	Profile   *model.OnboardingProfile `json:"profile,omitempty"`
	Options   model.OnboardingOptions  `json:"options"`
}

func (s *ProfileService) GetOnboarding(learnerID string) (*OnboardingStatus, error) {
	p, err := s.ProfileRepo.FindOnboarding(learnerID)
	if err != nil {
		return nil, err
	}
	return &OnboardingStatus{Completed: p != nil, Profile: p, Options: s.Catalog.Onboarding()}, nil
}

// OnboardingRequest carries the three onboarding steps. Values are option ids.
type OnboardingRequest struct {
	SkillLevel string   `json:"skillLevel" binding:"required"`
	Languages  []string `json:"languages" binding:"required,min=1,dive,required"`
	Goals      []string `json:"goals" binding:"required,min=1,dive,required"`
}

func (s *ProfileService) SaveOnboarding(learnerID string, req OnboardingRequest) (*model.OnboardingProfile, error) {
	opts := s.Catalog.Onboarding()
	if err := checkOptions("skill level", []string{req.SkillLevel}, opts.SkillLevels); err != nil {
		return nil, err
	}
	if err := checkOptions("language", req.Languages, opts.Languages); err != nil {
		return nil, err
	}
	if err := checkOptions("goal", req.Goals, opts.Goals); err != nil {
		return nil, err
	}

	p := &model.OnboardingProfile{
		LearnerID:  learnerID,
		SkillLevel: req.SkillLevel,
		Languages:  dedupe(req.Languages),
		Goals:      dedupe(req.Goals),
	}
	if err := s.ProfileRepo.SaveOnboarding(p); err != nil {
		return nil, err
	}
	return s.ProfileRepo.FindOnboarding(learnerID)
}

func checkOptions(kind string, ids []string, opts []model.OnboardingOption) error {
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s %q", util.ErrUnknownOption, kind, id)
		}
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// GetSettings returns stored settings, or the defaults for a learner who
// never changed anything.
func (s *ProfileService) GetSettings(learnerID string) (*model.LearnerSettings, error) {
	st, err := s.ProfileRepo.FindSettings(learnerID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return model.DefaultSettings(learnerID), nil
	}
	return st, nil
}

// SettingsRequest is a partial update; nil fields keep their value.
type SettingsRequest struct {
	Notifications *bool    `json:"notifications"`
	Autoplay      *bool    `json:"autoplay"`
	DataUsage     string   `json:"dataUsage" binding:"omitempty,datausage"`
	Languages     []string `json:"languages" binding:"omitempty,dive,required"`
}

func (s *ProfileService) UpdateSettings(learnerID string, req SettingsRequest) (*model.LearnerSettings, error) {
	st, err := s.GetSettings(learnerID)
	if err != nil {
		return nil, err
	}
	if req.Notifications != nil {
		st.Notifications = *req.Notifications
	}
	if req.Autoplay != nil {
		st.Autoplay = *req.Autoplay
	}
	if req.DataUsage != "" {
		st.DataUsage = model.DataUsage(strings.ToLower(req.DataUsage))
	}
	if req.Languages != nil {
		st.Languages = dedupe(req.Languages)
	}
	// the upsert conflicts on learner_id, not on the primary key
	st.BaseModel = model.BaseModel{}
	if err := s.ProfileRepo.SaveSettings(st); err != nil {
		return nil, err
	}
	return s.GetSettings(learnerID)
}

type ProfileStats struct {
	Liked           int   `json:"liked"`
	Saved           int   `json:"saved"`
	CoursesEnrolled int   `json:"coursesEnrolled"`
	ExercisesSolved int   `json:"exercisesSolved"`
	PracticeRuns    int64 `json:"practiceRuns"`
}

type ProfileResponse struct {
	Learner      *model.Learner           `json:"learner"`
	Onboarding   *model.OnboardingProfile `json:"onboarding,omitempty"`
	LikedLessons []model.Lesson           `json:"likedLessons"`
	SavedLessons []model.Lesson           `json:"savedLessons"`
	Stats        ProfileStats             `json:"stats"`
	Streak       *model.StreakData        `json:"streak"`
}

func (s *ProfileService) Profile(learnerID string) (*ProfileResponse, error) {
	learner, err := s.LearnerRepo.FindByID(learnerID)
	if err != nil {
		return nil, err
	}
	onboarding, err := s.ProfileRepo.FindOnboarding(learnerID)
	if err != nil {
		return nil, err
	}
	liked, saved, err := s.reactedLessons(learnerID)
	if err != nil {
		return nil, err
	}
	solved, err := s.AttemptRepo.SolvedExercises(learnerID)
	if err != nil {
		return nil, err
	}
	runs, err := s.AttemptRepo.CountByLearner(learnerID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.ProgressRepo.EnrolledCourses(learnerID)
	if err != nil {
		return nil, err
	}
	streak, err := s.Growth.Streak(learnerID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		Learner:      learner,
		Onboarding:   onboarding,
		LikedLessons: liked,
		SavedLessons: saved,
		Stats: ProfileStats{
			Liked:           len(liked),
			Saved:           len(saved),
			CoursesEnrolled: len(enrolled),
			ExercisesSolved: len(solved),
			PracticeRuns:    runs,
		},
		Streak: streak,
	}, nil
}

// reactedLessons returns the lessons the feed shows as liked and saved for
// the learner. Lessons the learner touched come first, most recent first,
// followed by catalog defaults they never changed.
func (s *ProfileService) reactedLessons(learnerID string) ([]model.Lesson, []model.Lesson, error) {
	rows, err := s.ReactionRepo.FindByLearner(learnerID)
	if err != nil {
		return nil, nil, err
	}

	reactions := make(map[string]feed.Reaction, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		reactions[r.LessonID] = feed.Reaction{Liked: r.Liked, Saved: r.Saved}
		order = append(order, r.LessonID)
	}
	for _, l := range s.Catalog.Lessons() {
		if _, ok := reactions[l.ID]; !ok && (l.IsLiked || l.IsSaved) {
			order = append(order, l.ID)
		}
	}

	liked, saved := []model.Lesson{}, []model.Lesson{}
	for _, id := range order {
		l, err := s.Catalog.Lesson(id)
		if err != nil {
			continue
		}
		items := []feed.Item{feed.LessonItem(l)}
		feed.ApplyReactions(items, reactions)
		lesson := *items[0].Lesson
		if lesson.IsLiked {
			liked = append(liked, lesson)
		}
		if lesson.IsSaved {
			saved = append(saved, lesson)
		}
	}
	return liked, saved, nil
}
