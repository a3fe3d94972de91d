package request

import "mentora-backend/model"

// ChatRequest 每轮对话由前端携带完整历史，服务端整体重写存储
type ChatRequest struct {
	ChatTitle   string              `json:"chat_title" binding:"required"`
	ChatHistory []model.ChatMessage `json:"chat_history"`
}
