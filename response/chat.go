package response

type ChatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
}

type TopicPromptsResponse struct {
	Prompts []string `json:"prompts"`
}
