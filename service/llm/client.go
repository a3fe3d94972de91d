package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mentora-backend/config"
	"mentora-backend/utils"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const (
	minTemperature = 0.0
	maxTemperature = 2.0
	minTokens      = 1
	maxTokens      = 8192

	// 配置 300s 超时时间，覆盖模型生成长回复的情况
	requestTimeout = 300 * time.Second
)

// 模型侧异常全部在此层吸收，转换为可直接展示给用户的对话内容
const (
	FallbackBlocked = "I apologize, but I need to be careful with my response. " +
		"Could you please rephrase your request or try asking about the topic in a different way?"
	FallbackTruncated = "My response was too long. " +
		"Could you ask for a shorter explanation or break your question into smaller parts?"
	FallbackEmpty = "I'm having trouble generating a response right now. " +
		"Please try again with a different question."
	FallbackError = "Sorry, I had trouble generating a response."
)

var llmHTTPClient *http.Client = utils.NewHTTPClient(
	utils.WithTimeout(requestTimeout),
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Client 封装单次对话补全调用，将通用消息列表映射为模型侧参数
type Client struct {
	model llms.Model
	name  string
}

func New(modelName string) (*Client, error) {
	model, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(llmHTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %v", err)
	}

	return &Client{
		model: model,
		name:  modelName,
	}, nil
}

// NewWithModel 注入已有模型实例，供测试替换
func NewWithModel(model llms.Model) *Client {
	return &Client{model: model}
}

// Complete 执行一次对话补全。模型侧拦截、截断和传输错误均不向上传播，
// 统一降级为固定文案；json_mode下传输错误返回 {"response": "..."} 包装
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) string {
	content := c.prepareMessages(messages)

	callOpts := []llms.CallOption{
		llms.WithTemperature(clampTemperature(opts.Temperature)),
		llms.WithMaxTokens(clampTokens(opts.MaxTokens)),
	}
	if opts.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := c.model.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		slog.Error("Failed to generate chat completion",
			"model", c.name,
			"err", err)
		if opts.JSONMode {
			envelope, _ := json.Marshal(map[string]string{"response": FallbackError})
			return string(envelope)
		}
		return FallbackError
	}

	if len(resp.Choices) == 0 {
		slog.Warn("LLM returned no choices", "model", c.name)
		return FallbackEmpty
	}

	choice := resp.Choices[0]
	switch choice.StopReason {
	case "content_filter":
		slog.Warn("LLM response blocked by safety filter", "model", c.name)
		return FallbackBlocked
	case "length":
		if choice.Content == "" {
			slog.Warn("LLM response truncated with empty content", "model", c.name)
			return FallbackTruncated
		}
	}

	if choice.Content == "" {
		return FallbackEmpty
	}

	return choice.Content
}

// prepareMessages 拆出系统指令，历史消息按模型侧角色重新标注
func (c *Client) prepareMessages(messages []Message) []llms.MessageContent {
	var system string
	var history []llms.MessageContent

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "user":
			history = append(history, llms.TextParts(schema.ChatMessageTypeHuman, msg.Content))
		case "assistant":
			history = append(history, llms.TextParts(schema.ChatMessageTypeAI, msg.Content))
		}
	}

	if system == "" {
		return history
	}

	content := make([]llms.MessageContent, 0, len(history)+1)
	content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, system))
	return append(content, history...)
}

func clampTemperature(t float64) float64 {
	return min(max(t, minTemperature), maxTemperature)
}

func clampTokens(n int) int {
	return min(max(n, minTokens), maxTokens)
}
