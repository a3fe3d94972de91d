package mentor

import (
	"encoding/json"
	"strings"
)

// ParseError 修复流水线全部失败时返回，保留原始响应文本。
// 调用方必须把它当作"结果不可用"处理并填充默认内容，不允许继续上抛
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "failed to parse model response as JSON"
}

// 修复阶段按固定顺序执行，第一个成功的结果生效
type repairStage func(string) (any, bool)

var repairStages = []repairStage{
	parseDirect,
	parseStripFences,
	parseBraceSpan,
}

// RepairJSON 将模型输出的文本修复为JSON值。输入可能带有代码围栏、
// 前后缀杂文，或是双重编码（JSON字符串的内容本身又是JSON）。
// 纯函数，与模型供应商无关
func RepairJSON(raw string) (any, error) {
	for _, stage := range repairStages {
		if value, ok := stage(raw); ok {
			return value, nil
		}
	}
	return nil, &ParseError{Raw: raw}
}

func parseDirect(raw string) (any, bool) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false
	}
	return unwrapNestedResponse(value), true
}

// unwrapNestedResponse 处理双重编码：外层对象的 response 字段是一段
// 自身为JSON的字符串时取内层对象，否则保留外层
func unwrapNestedResponse(value any) any {
	object, ok := value.(map[string]any)
	if !ok {
		return value
	}

	nested, ok := object["response"].(string)
	if !ok {
		return value
	}

	var inner any
	if err := json.Unmarshal([]byte(nested), &inner); err != nil {
		return value
	}
	return inner
}

func parseStripFences(raw string) (any, bool) {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return nil, false
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return parseDirect(strings.TrimSpace(text))
}

func parseBraceSpan(raw string) (any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	return parseDirect(raw[start : end+1])
}
