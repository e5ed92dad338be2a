package model

// Achievement is a streak milestone. Unlocked is derived from the learner's
// longest streak.
type Achievement struct {
	ID             string `yaml:"id" json:"id"`
	Title          string `yaml:"title" json:"title"`
	Description    string `yaml:"description" json:"description"`
	Icon           string `yaml:"icon" json:"icon"`
	StreakRequired int    `yaml:"streakRequired" json:"streakRequired"`
	Unlocked       bool   `yaml:"-" json:"unlocked"`
}
