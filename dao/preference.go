package dao

import (
	"errors"

	"mentora-backend/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveUserPreference 每个用户一条偏好记录，重复写入时整条覆盖
func SaveUserPreference(pref *model.UserPreference) error {
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"learning_goal",
			"skills",
			"difficulty",
			"role",
			"updated_at",
		}),
	}).Create(pref).Error
}

func GetUserPreference(userID string) (*model.UserPreference, error) {
	var pref model.UserPreference
	if err := DB.Where("user_id = ?", userID).
		First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}
