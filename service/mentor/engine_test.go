package mentor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mentora-backend/service/llm"
)

type completeCall struct {
	messages []llm.Message
	opts     llm.Options
}

type fakeCompleter struct {
	responses []string
	calls     []completeCall
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) string {
	f.calls = append(f.calls, completeCall{messages: messages, opts: opts})
	if len(f.responses) == 0 {
		return ""
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp
}

type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(title string) (string, bool) {
	summary, ok := c.entries[title]
	return summary, ok
}

func (c *mapCache) Put(title, summary string) {
	c.entries[title] = summary
}

func newTestEngine(completer, summarizer *fakeCompleter, cache SummaryCache) *Engine {
	if cache == nil {
		cache = newMapCache()
	}
	return NewEngine(completer, summarizer, cache)
}

func history(n int) []llm.Message {
	messages := make([]llm.Message, 0, n)
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: fmt.Sprintf("message %d", i)})
	}
	return messages
}

func TestChat_EmptyHistory(t *testing.T) {
	completer := &fakeCompleter{}
	summarizer := &fakeCompleter{}
	engine := newTestEngine(completer, summarizer, nil)

	reply, suggestions := engine.Chat(context.Background(), ChatInput{
		UserID:    "u1",
		ChatTitle: "t1",
	})

	if reply != "Please start the conversation with a message." {
		t.Errorf("unexpected reply: %q", reply)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions, got %v", suggestions)
	}
	if len(completer.calls) != 0 || len(summarizer.calls) != 0 {
		t.Error("expected zero provider calls for empty history")
	}
}

func TestChat_ValidResponse(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{`{"response": "Let's continue.", "suggestions": ["a", "b"]}`},
	}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	reply, suggestions := engine.Chat(context.Background(), ChatInput{
		History:   history(2),
		UserID:    "u1",
		ChatTitle: "t1",
		Role:      "default",
	})

	if reply != "Let's continue." {
		t.Errorf("unexpected reply: %q", reply)
	}
	if len(suggestions) != 2 || suggestions[0] != "a" {
		t.Errorf("unexpected suggestions: %v", suggestions)
	}

	if len(completer.calls) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(completer.calls))
	}
	opts := completer.calls[0].opts
	if !opts.JSONMode {
		t.Error("expected json mode")
	}
	if opts.Temperature != 0.5 || opts.MaxTokens != 1500 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestChat_AlternateFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"reply and follow_up", `{"reply": "alt", "follow_up": ["f1"]}`},
		{"content and prompts", `{"content": "alt", "prompts": ["f1"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{responses: []string{tt.response}}
			engine := newTestEngine(completer, &fakeCompleter{}, nil)

			reply, suggestions := engine.Chat(context.Background(), ChatInput{
				History:   history(2),
				ChatTitle: "t1",
			})

			if reply != "alt" {
				t.Errorf("unexpected reply: %q", reply)
			}
			if len(suggestions) != 1 || suggestions[0] != "f1" {
				t.Errorf("unexpected suggestions: %v", suggestions)
			}
		})
	}
}

func TestChat_SuggestionsTrimmedToFour(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{`{"response": "ok", "suggestions": ["1", "2", "3", "4", "5", "6"]}`},
	}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	_, suggestions := engine.Chat(context.Background(), ChatInput{
		History:   history(2),
		ChatTitle: "t1",
	})

	if len(suggestions) != 4 {
		t.Errorf("expected 4 suggestions, got %d: %v", len(suggestions), suggestions)
	}
}

func TestChat_GarbageResponse(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"not json at all"}}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	reply, suggestions := engine.Chat(context.Background(), ChatInput{
		History:   history(2),
		ChatTitle: "t1",
	})

	if reply != fallbackReply {
		t.Errorf("expected canned fallback reply, got %q", reply)
	}
	if len(suggestions) != 4 {
		t.Errorf("expected 4 canned suggestions, got %v", suggestions)
	}
}

func TestChat_HistoryTruncatedToSix(t *testing.T) {
	completer := &fakeCompleter{responses: []string{`{"response": "ok"}`}}
	summarizer := &fakeCompleter{responses: []string{"the summary"}}
	engine := newTestEngine(completer, summarizer, nil)

	engine.Chat(context.Background(), ChatInput{
		History:   history(20),
		ChatTitle: "t1",
	})

	if len(completer.calls) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(completer.calls))
	}

	// 1条系统消息 + 最近6条历史 + 1条摘要包装消息
	outbound := completer.calls[0].messages
	if len(outbound) != 8 {
		t.Fatalf("expected 8 outbound messages, got %d", len(outbound))
	}
	if outbound[0].Role != "system" {
		t.Errorf("expected system message first, got %q", outbound[0].Role)
	}
	if outbound[1].Content != "message 14" {
		t.Errorf("expected oldest kept message to be 'message 14', got %q", outbound[1].Content)
	}
	if outbound[6].Content != "message 19" {
		t.Errorf("expected newest history message to be 'message 19', got %q", outbound[6].Content)
	}
	if outbound[7].Role != "user" || !strings.Contains(outbound[7].Content, "the summary") {
		t.Errorf("expected trailing user wrapper with summary, got %+v", outbound[7])
	}
}

func TestChat_SummaryTriggeredAtThreshold(t *testing.T) {
	cache := newMapCache()
	completer := &fakeCompleter{responses: []string{`{"response": "ok"}`}}
	summarizer := &fakeCompleter{responses: []string{"fresh summary"}}
	engine := newTestEngine(completer, summarizer, cache)

	engine.Chat(context.Background(), ChatInput{
		History:   history(10),
		ChatTitle: "t1",
	})

	if len(summarizer.calls) != 1 {
		t.Fatalf("expected 1 summary call, got %d", len(summarizer.calls))
	}
	if opts := summarizer.calls[0].opts; opts.Temperature != 0.3 {
		t.Errorf("expected summary temperature 0.3, got %v", opts.Temperature)
	}
	if cached, _ := cache.Get("t1"); cached != "fresh summary" {
		t.Errorf("expected summary cached, got %q", cached)
	}
}

func TestChat_CachedSummaryReusedBelowThreshold(t *testing.T) {
	cache := newMapCache()
	cache.Put("t1", "stale summary")

	completer := &fakeCompleter{responses: []string{`{"response": "ok"}`}}
	summarizer := &fakeCompleter{}
	engine := newTestEngine(completer, summarizer, cache)

	engine.Chat(context.Background(), ChatInput{
		History:   history(4),
		ChatTitle: "t1",
	})

	if len(summarizer.calls) != 0 {
		t.Errorf("expected no summary call below threshold, got %d", len(summarizer.calls))
	}

	outbound := completer.calls[0].messages
	wrapper := outbound[len(outbound)-1]
	if !strings.Contains(wrapper.Content, "stale summary") {
		t.Errorf("expected cached summary in wrapper, got %q", wrapper.Content)
	}
}

func TestChat_NoSummaryMarker(t *testing.T) {
	completer := &fakeCompleter{responses: []string{`{"response": "ok"}`}}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	engine.Chat(context.Background(), ChatInput{
		History:   history(2),
		ChatTitle: "t1",
	})

	outbound := completer.calls[0].messages
	wrapper := outbound[len(outbound)-1]
	if !strings.Contains(wrapper.Content, noSummaryMarker) {
		t.Errorf("expected %q marker in wrapper, got %q", noSummaryMarker, wrapper.Content)
	}
}

func TestGenerateIntroAndTopics_ValidResponse(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{`{
			"greeting": "Welcome!",
			"topics": ["Basics", "Deep Dive"],
			"concluding_question": "Ready?",
			"suggestions": ["s1", "s2"]
		}`},
	}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	intro, topics, suggestions := engine.GenerateIntroAndTopics(context.Background(), "ctx", "", "default")

	if !strings.HasPrefix(intro, "Welcome!") || !strings.HasSuffix(intro, "Ready?") {
		t.Errorf("unexpected intro: %q", intro)
	}
	if !strings.Contains(intro, "- Basics\n- Deep Dive") {
		t.Errorf("expected topic bullet list in intro, got %q", intro)
	}
	if len(topics) != 2 || len(suggestions) != 2 {
		t.Errorf("unexpected topics/suggestions: %v / %v", topics, suggestions)
	}
}

func TestGenerateIntroAndTopics_PerFieldDefaults(t *testing.T) {
	// 字段逐个兜底，而不是整个调用失败
	completer := &fakeCompleter{
		responses: []string{`{"greeting": "", "topics": [], "concluding_question": "", "suggestions": []}`},
	}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	intro, topics, suggestions := engine.GenerateIntroAndTopics(context.Background(), "ctx", "", "default")

	if !strings.HasPrefix(intro, fallbackGreeting) {
		t.Errorf("expected canned greeting, got %q", intro)
	}
	if len(topics) != 4 {
		t.Errorf("expected 4 canned topics, got %v", topics)
	}
	if len(suggestions) != 4 {
		t.Errorf("expected 4 canned suggestions, got %v", suggestions)
	}
}

func TestGenerateIntroAndTopics_GarbageResponse(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"garbage"}}
	engine := newTestEngine(completer, &fakeCompleter{}, nil)

	intro, topics, suggestions := engine.GenerateIntroAndTopics(context.Background(), "ctx", "", "default")

	if intro == "" {
		t.Error("expected non-empty fallback intro")
	}
	if len(topics) != 4 || len(suggestions) != 4 {
		t.Errorf("expected 4 topics and 4 suggestions, got %v / %v", topics, suggestions)
	}
}

func TestGenerateTopicPrompts(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{`["q1", "q2", "q3"]`}}
		engine := newTestEngine(completer, &fakeCompleter{}, nil)

		prompts := engine.GenerateTopicPrompts(context.Background(), "Go", "", "default")
		if len(prompts) != 3 || prompts[0] != "q1" {
			t.Errorf("unexpected prompts: %v", prompts)
		}
	})

	t.Run("object with questions key", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{`{"questions": ["q1"]}`}}
		engine := newTestEngine(completer, &fakeCompleter{}, nil)

		prompts := engine.GenerateTopicPrompts(context.Background(), "Go", "", "default")
		if len(prompts) != 1 || prompts[0] != "q1" {
			t.Errorf("unexpected prompts: %v", prompts)
		}
	})

	t.Run("more than four trimmed", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{`["1", "2", "3", "4", "5"]`}}
		engine := newTestEngine(completer, &fakeCompleter{}, nil)

		prompts := engine.GenerateTopicPrompts(context.Background(), "Go", "", "default")
		if len(prompts) != 4 {
			t.Errorf("expected 4 prompts, got %v", prompts)
		}
	})

	t.Run("garbage falls back to templated questions", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"garbage"}}
		engine := newTestEngine(completer, &fakeCompleter{}, nil)

		prompts := engine.GenerateTopicPrompts(context.Background(), "Go", "", "default")
		if len(prompts) != 4 {
			t.Fatalf("expected 4 fallback prompts, got %v", prompts)
		}
		for _, p := range prompts {
			if !strings.Contains(p, "Go") {
				t.Errorf("expected topic name in fallback prompt, got %q", p)
			}
		}
	})
}

func TestBuildContextLines_OmitsEmptyValues(t *testing.T) {
	lines := buildContextLines(ChatInput{
		Role:       "coach",
		Difficulty: "hard",
	})

	if strings.Contains(lines, "Learning Goal") || strings.Contains(lines, "Skills") {
		t.Errorf("expected absent fields omitted, got %q", lines)
	}
	if !strings.Contains(lines, "Role: coach") || !strings.Contains(lines, "Difficulty: hard") {
		t.Errorf("expected mandatory lines present, got %q", lines)
	}

	full := buildContextLines(ChatInput{
		Role:            "coach",
		Difficulty:      "hard",
		LearningGoal:    "learn go",
		Skills:          []string{"python"},
		MentorTopics:    []string{"a", "b"},
		CurrentTopic:    "a",
		CompletedTopics: []string{"intro"},
	})
	for _, want := range []string{"Learning Goal: learn go", "Skills: python", "Topics: a, b", "Current Topic: a", "Completed Topics: intro"} {
		if !strings.Contains(full, want) {
			t.Errorf("expected %q in context lines, got %q", want, full)
		}
	}
}
