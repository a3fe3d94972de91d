package model

import (
	"encoding/json"
	"time"
)

const DefaultDifficulty = "medium"

// UserPreference 每个用户一条记录，重复写入时整条覆盖
type UserPreference struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `gorm:"not null;uniqueIndex" json:"user_id"`
	LearningGoal string    `json:"learning_goal"`
	Skills       string    `gorm:"type:text" json:"skills"`
	Difficulty   string    `json:"difficulty"`
	Role         string    `json:"role"`
}

func (UserPreference) TableName() string {
	return "user_preference"
}

func (p *UserPreference) SkillList() []string {
	var skills []string
	if err := json.Unmarshal([]byte(p.Skills), &skills); err != nil {
		return nil
	}
	return skills
}

func (p *UserPreference) SetSkills(skills []string) error {
	data, err := json.Marshal(orEmpty(skills))
	if err != nil {
		return err
	}
	p.Skills = string(data)
	return nil
}
