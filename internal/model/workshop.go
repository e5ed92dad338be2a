package model

import "time"

// swagger:model Workshop
type Workshop struct {
	ID              string    `yaml:"id" json:"id"`
	Title           string    `yaml:"title" json:"title"`
	Host            string    `yaml:"host" json:"host"`
	Description     string    `yaml:"description" json:"description"`
	StartsAt        time.Time `yaml:"startsAt" json:"startsAt"`
	DurationMinutes int       `yaml:"durationMinutes" json:"durationMinutes"`
	Seats           int       `yaml:"seats" json:"seats"`
	Level           Level     `yaml:"level" json:"level"`
	Topics          []string  `yaml:"topics" json:"topics"`
	Registered      int       `yaml:"-" json:"registered"`
	IsRegistered    bool      `yaml:"-" json:"isRegistered"`
}

type WorkshopRegistration struct {
	BaseModel
	LearnerID  string `gorm:"size:36;not null;uniqueIndex:idx_workshop_registration" json:"learnerId"`
	WorkshopID string `gorm:"size:64;not null;uniqueIndex:idx_workshop_registration;index" json:"workshopId"`
	Name       string `gorm:"size:100" json:"name"`
	Email      string `gorm:"size:100" json:"email"`
	Experience string `gorm:"size:20" json:"experience"`
}

func (WorkshopRegistration) TableName() string {
	return "workshop_registrations"
}
