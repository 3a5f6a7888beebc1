package generator

import (
	"context"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// 根据提示词形状区分两个阶段。
	if strings.Contains(prompt.System, `"raw_intent"`) {
		return `{
  "raw_intent": "Build a sample form that validates user input before rendering it back to the page.",
  "tags": ["validation", "forms", "sample"]
}`, nil
	}
	return `{
  "code_snippet": "` + "```" + `\n// placeholder solution\n` + "```" + `",
  "description": "Placeholder solution produced by the mock model."
}`, nil
}
