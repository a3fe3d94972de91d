package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"mentora-backend/service/llm"
)

const (
	// 对话长度达到该阈值时重新生成摘要，低于阈值复用缓存
	summaryThreshold = 10

	// 发送给模型的历史消息窗口，与摘要机制无关，始终截断
	recentWindow = 6

	maxSuggestions = 4

	chatTemperature    = 0.5
	summaryTemperature = 0.3

	chatMaxTokens    = 1500
	introMaxTokens   = 2048
	summaryMaxTokens = 1024
	promptsMaxTokens = 1024

	noSummaryMarker = "(no prior summary)"
)

// 解析模型输出时按优先级尝试的候选字段名，首个非空生效
var (
	replyKeys      = []string{"response", "reply", "content"}
	suggestionKeys = []string{"suggestions", "follow_up", "prompts"}
	topicPromptKey = []string{"prompts", "questions", "suggestions"}
)

// 模型输出不可用时的兜底内容，保证每个操作都返回可直接展示的结果
const (
	emptyHistoryReply = "Please start the conversation with a message."
	fallbackReply     = "I'm having trouble formatting my response. Could you please rephrase your question?"
	fallbackGreeting  = "Hello! I'm your AI mentor, ready to guide you through your learning journey."
	fallbackQuestion  = "What would you like to explore first?"
)

var (
	fallbackTopics = []string{"Introduction", "Core Concepts", "Practical Applications", "Advanced Topics"}

	fallbackIntroSuggestions = []string{
		"What should I focus on?",
		"Can you explain the basics?",
		"Show me examples",
		"How does this work?",
	}

	fallbackChatSuggestions = []string{
		"Can you explain more?",
		"What should I know next?",
		"Give me an example",
		"What's the next step?",
	}
)

// Completer 对话补全调用的抽象，由 service/llm 实现
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) string
}

// Engine 会话编排引擎：组装提示词、调用模型、修复输出。
// 除注入的摘要缓存外不持有跨请求状态
type Engine struct {
	completer  Completer
	summarizer Completer
	prompts    *Prompts
	summaries  SummaryCache
}

func NewEngine(completer, summarizer Completer, summaries SummaryCache) *Engine {
	return &Engine{
		completer:  completer,
		summarizer: summarizer,
		prompts:    loadPrompts(),
		summaries:  summaries,
	}
}

// ChatInput 单轮对话的全部上下文，由API层从存储装配
type ChatInput struct {
	History         []llm.Message
	UserID          string
	ChatTitle       string
	LearningGoal    string
	Skills          []string
	Difficulty      string
	Role            string
	MentorTopics    []string
	CurrentTopic    string
	CompletedTopics []string
}

// GenerateIntroAndTopics 生成会话开场白、主题列表和推荐提问。
// 模型输出缺失的字段逐个兜底，整个调用永不失败
func (e *Engine) GenerateIntroAndTopics(ctx context.Context, contextDescription, extraInstructions, role string) (string, []string, []string) {
	prompt := renderTemplate("intro", e.prompts.Tasks.GenerateIntroAndTopics, struct {
		ContextDescription string
		RolePrompt         string
		DefaultBehavior    string
		ExtraInstructions  string
	}{
		ContextDescription: strings.TrimSpace(contextDescription),
		RolePrompt:         e.prompts.RoleInstruction(role),
		DefaultBehavior:    e.prompts.DefaultInstructions,
		ExtraInstructions:  strings.TrimSpace(extraInstructions),
	})

	raw := e.completer.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.Options{
		Temperature: chatTemperature,
		MaxTokens:   introMaxTokens,
		JSONMode:    true,
	})

	parsed, err := RepairJSON(raw)
	object, ok := parsed.(map[string]any)
	if err != nil || !ok {
		slog.Warn("Intro generation fell back to canned content", "chars", len(raw))
		return assembleIntro(fallbackGreeting, fallbackTopics, fallbackQuestion),
			fallbackTopics, fallbackIntroSuggestions
	}

	greeting := firstNonEmptyString(object, []string{"greeting"})
	topics := stringList(object["topics"])
	question := firstNonEmptyString(object, []string{"concluding_question"})
	suggestions := stringList(object["suggestions"])

	if greeting == "" {
		greeting = fallbackGreeting
	}
	if len(topics) == 0 {
		topics = fallbackTopics
	}
	if question == "" {
		question = fallbackQuestion
	}
	if len(suggestions) == 0 {
		suggestions = fallbackIntroSuggestions
	}

	slog.Info("Intro generated",
		"role", role,
		"topics", len(topics),
		"suggestions", len(suggestions))

	return assembleIntro(greeting, topics, question), topics, suggestions
}

// Chat 执行一轮对话。历史为空时直接返回固定提示，不触发任何模型调用
func (e *Engine) Chat(ctx context.Context, input ChatInput) (string, []string) {
	if len(input.History) == 0 {
		slog.Warn("Chat called with empty history",
			"user_id", input.UserID,
			"title", input.ChatTitle)
		return emptyHistoryReply, nil
	}

	summary := e.conversationSummary(ctx, input.ChatTitle, input.History)

	systemPrompt := renderTemplate("chat_system", e.prompts.Tasks.Chat.SystemPrompt, struct {
		ContextSummary        string
		RoleInstruction       string
		DefaultInstruction    string
		JSONOutputInstruction string
	}{
		ContextSummary:        buildContextLines(input),
		RoleInstruction:       e.prompts.RoleInstruction(input.Role),
		DefaultInstruction:    e.prompts.DefaultInstructions,
		JSONOutputInstruction: e.prompts.SharedComponents.JSONOutputFormat,
	})

	if summary == "" {
		summary = noSummaryMarker
	}
	wrapper := renderTemplate("chat_wrapper", e.prompts.Tasks.Chat.UserPromptWrapper, struct {
		Summary string
	}{Summary: summary})

	recent := input.History
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	messages := make([]llm.Message, 0, len(recent)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, recent...)
	messages = append(messages, llm.Message{Role: "user", Content: wrapper})

	raw := e.completer.Complete(ctx, messages, llm.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		JSONMode:    true,
	})

	parsed, err := RepairJSON(raw)
	object, ok := parsed.(map[string]any)
	if err != nil || !ok {
		slog.Warn("Chat response unparseable, using fallback",
			"user_id", input.UserID,
			"title", input.ChatTitle,
			"chars", len(raw))
		return fallbackReply, fallbackChatSuggestions
	}

	reply := firstNonEmptyString(object, replyKeys)
	if reply == "" {
		reply = fallbackReply
	}

	suggestions := firstStringList(object, suggestionKeys)
	if len(suggestions) == 0 {
		suggestions = fallbackChatSuggestions
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	slog.Info("Chat reply generated",
		"user_id", input.UserID,
		"title", input.ChatTitle,
		"suggestions", len(suggestions))

	return reply, suggestions
}

// GenerateTopicPrompts 为指定主题生成至多4条提问，模型可能返回
// 裸数组或带字段名的对象，均接受
func (e *Engine) GenerateTopicPrompts(ctx context.Context, topic, contextDescription, role string) []string {
	prompt := renderTemplate("topic_prompts", e.prompts.Tasks.GenerateTopicPrompts, struct {
		Topic              string
		RolePrompt         string
		ContextDescription string
	}{
		Topic:              strings.TrimSpace(topic),
		RolePrompt:         e.prompts.RoleInstruction(role),
		ContextDescription: contextDescription,
	})

	raw := e.completer.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.Options{
		Temperature: chatTemperature,
		MaxTokens:   promptsMaxTokens,
		JSONMode:    true,
	})

	var prompts []string
	if parsed, err := RepairJSON(raw); err == nil {
		switch value := parsed.(type) {
		case []any:
			prompts = stringList(value)
		case map[string]any:
			prompts = firstStringList(value, topicPromptKey)
		}
	}

	if len(prompts) == 0 {
		slog.Info("Using fallback topic prompts", "topic", topic)
		prompts = []string{
			fmt.Sprintf("What are the basics of %s?", topic),
			fmt.Sprintf("Give me an example of %s", topic),
			fmt.Sprintf("How to apply %s in practice?", topic),
			fmt.Sprintf("What are common mistakes with %s?", topic),
		}
	}

	if len(prompts) > maxSuggestions {
		prompts = prompts[:maxSuggestions]
	}
	return prompts
}

// conversationSummary 对话达到阈值时对全量历史重新生成摘要并缓存，
// 未达阈值时复用缓存中的旧摘要（可能为空或过期，可接受）
func (e *Engine) conversationSummary(ctx context.Context, chatTitle string, history []llm.Message) string {
	if len(history) < summaryThreshold {
		summary, _ := e.summaries.Get(chatTitle)
		return summary
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		slog.Warn("Failed to marshal history for summary", "title", chatTitle, "err", err)
		summary, _ := e.summaries.Get(chatTitle)
		return summary
	}

	payload := e.prompts.Tasks.SummarizeConversation + "\n\n" + string(historyJSON)
	resp := e.summarizer.Complete(ctx, []llm.Message{{Role: "user", Content: payload}}, llm.Options{
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})

	summary := strings.TrimSpace(resp)
	if summary != "" {
		e.summaries.Put(chatTitle, summary)
	}
	return summary
}

func buildContextLines(input ChatInput) string {
	lines := []string{"Role: " + input.Role}
	if input.LearningGoal != "" {
		lines = append(lines, "Learning Goal: "+input.LearningGoal)
	}
	if len(input.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(input.Skills, ", "))
	}
	lines = append(lines, "Difficulty: "+input.Difficulty)
	if len(input.MentorTopics) > 0 {
		lines = append(lines, "Topics: "+strings.Join(input.MentorTopics, ", "))
	}
	if input.CurrentTopic != "" {
		lines = append(lines, "Current Topic: "+input.CurrentTopic)
	}
	if len(input.CompletedTopics) > 0 {
		lines = append(lines, "Completed Topics: "+strings.Join(input.CompletedTopics, ", "))
	}
	return strings.Join(lines, "\n")
}

func assembleIntro(greeting string, topics []string, question string) string {
	if len(topics) == 0 {
		return greeting + "\n\n" + question
	}
	return greeting + "\n\nHere are the topics we'll explore:\n- " +
		strings.Join(topics, "\n- ") + "\n\n" + question
}

func firstNonEmptyString(object map[string]any, keys []string) string {
	for _, key := range keys {
		if text, ok := object[key].(string); ok {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func firstStringList(object map[string]any, keys []string) []string {
	for _, key := range keys {
		if list := stringList(object[key]); len(list) > 0 {
			return list
		}
	}
	return nil
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	var list []string
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			text = fmt.Sprint(item)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
