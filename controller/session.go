package controller

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"mentora-backend/dao"
	"mentora-backend/model"
	"mentora-backend/request"
	"mentora-backend/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 开场白生成的附加要求，约束导师只围绕所选领域展开
const startSessionExtraInstructions = "You are a mentor who is very interactive and strict to particular domain. " +
	"If someone asks something not related to that domain, give a polite fallback. " +
	"Ask questions, quiz the user, summarize lessons, and check understanding."

const introClosing = "\n\nFeel free to ask questions anytime. Are you ready to begin?"

// StartSession 保存用户偏好，生成开场白和主题列表，并以一条助手消息
// 初始化对话记录
func StartSession(c *gin.Context) {
	var req request.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetString("user_id")

	pref := model.UserPreference{
		UserID:       userID,
		LearningGoal: req.LearningGoal,
		Difficulty:   req.Difficulty,
		Role:         req.Role,
	}
	if err := pref.SetSkills(req.Skills); err != nil {
		slog.Error(ErrSavePreferences.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrSavePreferences.Error(),
		})
		return
	}
	if err := dao.SaveUserPreference(&pref); err != nil {
		slog.Error(ErrSavePreferences.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrSavePreferences.Error(),
		})
		return
	}

	var context []string
	if req.LearningGoal != "" {
		context = append(context, "Learning Goal: "+req.LearningGoal)
	}
	context = append(context,
		"Skills/Interests: "+strings.Join(req.Skills, ", "),
		"Difficulty: "+req.Difficulty,
		"User Role: "+req.Role,
	)

	intro, topics, suggestions := engine.GenerateIntroAndTopics(
		c.Request.Context(),
		strings.Join(context, "\n"),
		startSessionExtraInstructions,
		req.Role,
	)

	var currentTopic string
	if len(topics) > 0 {
		currentTopic = topics[0]
	}

	title := buildSessionTitle(req.LearningGoal, req.Skills)
	mentorMessage := model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   strings.TrimSpace(strings.ReplaceAll(intro+introClosing, "🔊", "")),
		Timestamp: unixTimestamp(),
	}

	chat := model.Chat{
		UserID: userID,
		Title:  title,
	}
	if err := chat.SetMessages([]model.ChatMessage{mentorMessage}); err != nil {
		slog.Error(ErrStartSession.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrStartSession.Error(),
		})
		return
	}
	if err := chat.SetState(model.SessionState{
		MentorTopics:    topics,
		CurrentTopic:    currentTopic,
		CompletedTopics: []string{},
	}); err != nil {
		slog.Error(ErrStartSession.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrStartSession.Error(),
		})
		return
	}
	if err := dao.SaveChat(&chat); err != nil {
		slog.Error(ErrStartSession.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrStartSession.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.StartSessionResponse{
			IntroAndTopics: mentorMessage.Content,
			Title:          title,
			Topics:         topics,
			CurrentTopic:   currentTopic,
			Suggestions:    suggestions,
		},
	})
}

func GetChats(c *gin.Context) {
	userID := c.GetString("user_id")
	chats, err := dao.GetChatsByUserID(userID)
	if err != nil {
		slog.Error(ErrGetChats.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetChats.Error(),
		})
		return
	}

	resp := response.GetChatsResponse{Chats: []response.ChatSummary{}}
	for _, chat := range chats {
		resp.Chats = append(resp.Chats, response.ChatSummary{
			Title:     chat.Title,
			UpdatedAt: chat.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

func GetChatMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	title := c.Query("title")

	chat, err := dao.GetChat(userID, title)
	if err != nil {
		slog.Error(ErrGetChatMessages.Error(),
			"user_id", userID,
			"title", title,
			"err", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetChatMessages.Error(),
		})
		return
	}

	resp := response.GetChatMessagesResponse{Messages: []model.ChatMessage{}}
	if chat != nil {
		if messages := chat.Messages(); messages != nil {
			resp.Messages = messages
		}
		resp.State = chat.State()
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

// buildSessionTitle 由学习目标（或首个技能）派生会话标题，
// 拼接时间戳和随机后缀保证 (user_id, title) 唯一
func buildSessionTitle(learningGoal string, skills []string) string {
	base := learningGoal
	if base == "" && len(skills) > 0 {
		base = skills[0]
	}

	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if safe == "" {
		safe = "Session"
	}

	return safe + "_" + time.Now().Format("20060102150405") + "_" + uuid.New().String()[:4]
}

func unixTimestamp() float64 {
	return float64(time.Now().UnixMilli()) / 1000
}
