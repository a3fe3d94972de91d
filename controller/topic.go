package controller

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mentora-backend/dao"
	"mentora-backend/request"
	"mentora-backend/response"

	"github.com/gin-gonic/gin"
)

// TopicPrompts 为指定主题生成推荐提问。偏好加载失败只降级为
// 无上下文生成，不阻断请求
func TopicPrompts(c *gin.Context) {
	var req request.TopicPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := c.GetString("user_id")

	var contextDescription, role string
	pref, err := dao.GetUserPreference(userID)
	if err != nil {
		slog.Warn("Failed to load preferences for topic prompts",
			"user_id", userID,
			"err", err,
		)
	}
	if pref != nil {
		contextDescription = fmt.Sprintf("Learning Goal: %s\nSkills: %s\nDifficulty: %s\nRole: %s",
			pref.LearningGoal,
			strings.Join(pref.SkillList(), ", "),
			pref.Difficulty,
			pref.Role,
		)
		role = pref.Role
	}

	prompts := engine.GenerateTopicPrompts(c.Request.Context(), req.Topic, contextDescription, role)

	c.JSON(http.StatusOK, response.Response{
		Data: response.TopicPromptsResponse{
			Prompts: prompts,
		},
	})
}
