package request

type StartSessionRequest struct {
	LearningGoal string   `json:"learning_goal"`
	Skills       []string `json:"skills" binding:"required"`
	Difficulty   string   `json:"difficulty" binding:"required"`
	Role         string   `json:"role" binding:"required"`
}

type TopicPromptRequest struct {
	Topic string `json:"topic" binding:"required"`
}
