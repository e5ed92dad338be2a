package model

// Friend is a fixture from the community tab.
// swagger:model Friend
type Friend struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Handle    string   `yaml:"handle" json:"handle"`
	Avatar    string   `yaml:"avatar" json:"avatar"`
	Streak    int      `yaml:"streak" json:"streak"`
	XP        int      `yaml:"xp" json:"xp"`
	Languages []string `yaml:"languages" json:"languages"`
	Suggested bool     `yaml:"suggested" json:"-"`
	Following bool     `yaml:"-" json:"following"`
}

type Follow struct {
	BaseModel
	LearnerID string `gorm:"size:36;not null;uniqueIndex:idx_follow" json:"learnerId"`
	FriendID  string `gorm:"size:64;not null;uniqueIndex:idx_follow" json:"friendId"`
}

func (Follow) TableName() string {
	return "follows"
}
