package controller

import (
	"log/slog"
	"net/http"

	"mentora-backend/dao"
	"mentora-backend/model"
	"mentora-backend/request"
	"mentora-backend/response"
	"mentora-backend/service/llm"
	"mentora-backend/service/mentor"

	"github.com/gin-gonic/gin"
)

// Chat 执行一轮导师对话：装配会话状态和用户偏好，调用编排引擎，
// 把助手回复追加进历史后整体重写存储
func Chat(c *gin.Context) {
	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetString("user_id")

	chat, err := dao.GetChat(userID, req.ChatTitle)
	if err != nil {
		slog.Error(ErrLoadChatState.Error(),
			"user_id", userID,
			"title", req.ChatTitle,
			"err", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrLoadChatState.Error(),
		})
		return
	}

	var state model.SessionState
	if chat != nil {
		state = chat.State()
	}

	pref, err := dao.GetUserPreference(userID)
	if err != nil {
		slog.Error(ErrLoadChatState.Error(),
			"user_id", userID,
			"err", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrLoadChatState.Error(),
		})
		return
	}

	input := mentor.ChatInput{
		History:         toEngineHistory(req.ChatHistory),
		UserID:          userID,
		ChatTitle:       req.ChatTitle,
		Difficulty:      model.DefaultDifficulty,
		Role:            "default",
		MentorTopics:    state.MentorTopics,
		CurrentTopic:    state.CurrentTopic,
		CompletedTopics: state.CompletedTopics,
	}
	if pref != nil {
		input.LearningGoal = pref.LearningGoal
		input.Skills = pref.SkillList()
		if pref.Difficulty != "" {
			input.Difficulty = pref.Difficulty
		}
		if pref.Role != "" {
			input.Role = pref.Role
		}
	}

	reply, suggestions := engine.Chat(c.Request.Context(), input)

	updated := append(req.ChatHistory, model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: unixTimestamp(),
	})

	record := model.Chat{
		UserID: userID,
		Title:  req.ChatTitle,
	}
	if err := record.SetMessages(updated); err == nil {
		if err := record.SetState(state); err == nil {
			if err := dao.SaveChat(&record); err != nil {
				slog.Error(ErrSaveChat.Error(),
					"user_id", userID,
					"title", req.ChatTitle,
					"err", err,
				)
			}
		}
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ChatResponse{
			Reply:       reply,
			Suggestions: suggestions,
		},
	})
}

func toEngineHistory(messages []model.ChatMessage) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return history
}
