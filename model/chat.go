package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage 对话消息的序列化形式，整段对话以JSON数组存储
type ChatMessage struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp,omitempty"`
	AudioURL  string  `json:"audio_url,omitempty"`
}

// SessionState 每个会话的主题进度，独立于消息记录
type SessionState struct {
	MentorTopics    []string `json:"mentor_topics"`
	CurrentTopic    string   `json:"current_topic"`
	CompletedTopics []string `json:"completed_topics"`
}

// Chat 建立联合唯一索引 (user_id, title)
type Chat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_user_title" json:"user_id"`
	Title     string    `gorm:"not null;uniqueIndex:idx_user_title" json:"title"`

	// 每轮对话整体重写，不做增量追加
	MessagesJSON string `gorm:"type:text" json:"messages_json"`

	MentorTopics    string `gorm:"type:text" json:"mentor_topics"`
	CurrentTopic    string `json:"current_topic"`
	CompletedTopics string `gorm:"type:text" json:"completed_topics"`
}

func (Chat) TableName() string {
	return "mentor_chat"
}

func (c *Chat) Messages() []ChatMessage {
	var messages []ChatMessage
	if err := json.Unmarshal([]byte(c.MessagesJSON), &messages); err != nil {
		return nil
	}
	return messages
}

func (c *Chat) SetMessages(messages []ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	c.MessagesJSON = string(data)
	return nil
}

func (c *Chat) State() SessionState {
	state := SessionState{
		CurrentTopic: c.CurrentTopic,
	}
	if err := json.Unmarshal([]byte(c.MentorTopics), &state.MentorTopics); err != nil {
		state.MentorTopics = nil
	}
	if err := json.Unmarshal([]byte(c.CompletedTopics), &state.CompletedTopics); err != nil {
		state.CompletedTopics = nil
	}
	return state
}

func (c *Chat) SetState(state SessionState) error {
	topics, err := json.Marshal(orEmpty(state.MentorTopics))
	if err != nil {
		return err
	}
	completed, err := json.Marshal(orEmpty(state.CompletedTopics))
	if err != nil {
		return err
	}
	c.MentorTopics = string(topics)
	c.CurrentTopic = state.CurrentTopic
	c.CompletedTopics = string(completed)
	return nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
