package mentor

import (
	"bytes"
	_ "embed"
	"log/slog"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

type Prompts struct {
	DefaultInstructions string            `yaml:"default_instructions"`
	Roles               map[string]string `yaml:"roles"`
	Tasks               TaskPrompts       `yaml:"tasks"`
	SharedComponents    SharedComponents  `yaml:"shared_components"`
}

type TaskPrompts struct {
	GenerateIntroAndTopics string      `yaml:"generate_intro_and_topics"`
	Chat                   ChatPrompts `yaml:"chat"`
	SummarizeConversation  string      `yaml:"summarize_conversation"`
	GenerateTopicPrompts   string      `yaml:"generate_topic_prompts"`
}

type ChatPrompts struct {
	SystemPrompt      string `yaml:"system_prompt"`
	UserPromptWrapper string `yaml:"user_prompt_wrapper"`
}

type SharedComponents struct {
	JSONOutputFormat string `yaml:"json_output_format"`
}

// loadPrompts 解析内嵌的提示词模板，解析失败时退回硬编码的最小模板集
func loadPrompts() *Prompts {
	prompts := &Prompts{}
	if err := yaml.Unmarshal(promptsYAML, prompts); err != nil {
		slog.Warn("Failed to parse embedded prompts, using built-in defaults", "err", err)
		return defaultPrompts()
	}
	return prompts
}

func defaultPrompts() *Prompts {
	return &Prompts{
		DefaultInstructions: "You are a helpful AI mentor.",
		Roles: map[string]string{
			"default": "You are a general mentor.",
		},
		Tasks: TaskPrompts{
			GenerateIntroAndTopics: "Context:\n{{.ContextDescription}}\n{{.RolePrompt}}\n{{.DefaultBehavior}}\n{{.ExtraInstructions}}\n" +
				"Return JSON with greeting, topics[], concluding_question, suggestions[].",
			Chat: ChatPrompts{
				SystemPrompt:      "{{.ContextSummary}}\n{{.RoleInstruction}}\n{{.DefaultInstruction}}\n{{.JSONOutputInstruction}}",
				UserPromptWrapper: "Summary: {{.Summary}}\nContinue the conversation based on recent messages.",
			},
			SummarizeConversation: "Summarize the key points of the conversation.",
			GenerateTopicPrompts:  "Return a JSON array with 4 short questions for {{.Topic}}.",
		},
		SharedComponents: SharedComponents{
			JSONOutputFormat: `{"response":"<markdown>","suggestions":["q1","q2","q3","q4"]}`,
		},
	}
}

// RoleInstruction 按角色取提示词，未知角色回退到 default
func (p *Prompts) RoleInstruction(role string) string {
	if instruction, ok := p.Roles[role]; ok {
		return instruction
	}
	return p.Roles["default"]
}

// renderTemplate 渲染提示词模板，模板本身损坏时原样返回模板文本，
// 宁可发出半成品提示词也不中断会话
func renderTemplate(name, text string, data any) string {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		slog.Warn("Failed to parse prompt template", "template", name, "err", err)
		return text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Warn("Failed to execute prompt template", "template", name, "err", err)
		return text
	}
	return buf.String()
}
