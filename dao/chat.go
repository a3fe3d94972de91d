package dao

import (
	"errors"

	"mentora-backend/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveChat 按 (user_id, title) 覆盖写入整段对话和会话状态。
// 并发写同一会话时后写覆盖先写，不提供读-改-写原子性
func SaveChat(chat *model.Chat) error {
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"messages_json",
			"mentor_topics",
			"current_topic",
			"completed_topics",
			"updated_at",
		}),
	}).Create(chat).Error
}

func GetChat(userID, title string) (*model.Chat, error) {
	var chat model.Chat
	if err := DB.Where("user_id = ? AND title = ?", userID, title).
		First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func GetChatsByUserID(userID string) ([]model.Chat, error) {
	var chats []model.Chat
	if err := DB.Select("title, updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}
