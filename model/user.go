package model

import "time"

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"not null;uniqueIndex" json:"user_id"`
	Name      string    `json:"name"`

	// bcrypt哈希
	Password string `gorm:"not null" json:"-"`

	Email    string `json:"email"`
	Firm     string `json:"firm"`
	Unit     string `json:"unit"`
	Location string `json:"location"`
}

func (User) TableName() string {
	return "user"
}
