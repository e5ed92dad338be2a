package model

// OnboardingProfile is the result of the three-step onboarding flow.
// swagger:model OnboardingProfile
type OnboardingProfile struct {
	BaseModel
	LearnerID  string   `gorm:"size:36;uniqueIndex;not null" json:"learnerId"`
	SkillLevel string   `gorm:"size:20" json:"skillLevel"`
	Languages  []string `gorm:"serializer:json" json:"languages"`
	Goals      []string `gorm:"serializer:json" json:"goals"`
}

func (OnboardingProfile) TableName() string {
	return "onboarding_profiles"
}

type DataUsage string

const (
	DataUsageWifi   DataUsage = "wifi"
	DataUsageAlways DataUsage = "always"
	DataUsageNever  DataUsage = "never"
)

func (d DataUsage) Valid() bool {
	switch d {
	case DataUsageWifi, DataUsageAlways, DataUsageNever:
		return true
	}
	return false
}

// LearnerSettings backs the settings screen.
// swagger:model LearnerSettings
type LearnerSettings struct {
	BaseModel
	LearnerID     string    `gorm:"size:36;uniqueIndex;not null" json:"learnerId"`
	Notifications bool      `json:"notifications"`
	Autoplay      bool      `json:"autoplay"`
	DataUsage     DataUsage `gorm:"size:10" json:"dataUsage"`
	Languages     []string  `gorm:"serializer:json" json:"languages"`
}

func (LearnerSettings) TableName() string {
	return "learner_settings"
}

// DefaultSettings mirrors the toggles a fresh install starts with.
func DefaultSettings(learnerID string) *LearnerSettings {
	return &LearnerSettings{
		LearnerID:     learnerID,
		Notifications: true,
		Autoplay:      true,
		DataUsage:     DataUsageWifi,
		Languages:     []string{"Python", "JavaScript"},
	}
}

// OnboardingOption is one selectable chip in the onboarding flow.
type OnboardingOption struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Emoji       string `yaml:"emoji,omitempty" json:"emoji,omitempty"`
}

type OnboardingOptions struct {
	SkillLevels []OnboardingOption `yaml:"skillLevels" json:"skillLevels"`
	Languages   []OnboardingOption `yaml:"languages" json:"languages"`
	Goals       []OnboardingOption `yaml:"goals" json:"goals"`
}
