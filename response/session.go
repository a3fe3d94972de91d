package response

import (
	"time"

	"mentora-backend/model"
)

type StartSessionResponse struct {
	IntroAndTopics string   `json:"intro_and_topics"`
	Title          string   `json:"title"`
	Topics         []string `json:"topics"`
	CurrentTopic   string   `json:"current_topic"`
	Suggestions    []string `json:"suggestions"`
}

type ChatSummary struct {
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GetChatsResponse struct {
	Chats []ChatSummary `json:"chats"`
}

type GetChatMessagesResponse struct {
	Messages []model.ChatMessage `json:"messages"`
	State    model.SessionState  `json:"state"`
}
