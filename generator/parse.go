package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// 模型经常把 JSON 包在 ``` 代码栅栏或解释文字里，解析前先剥掉。
func extractJSONBlock(raw string) string {
	s := strings.TrimSpace(raw)

	// Already a bare JSON object; fenced content inside string values must
	// not trigger fence stripping.
	if strings.HasPrefix(s, "{") && gjson.Valid(s) {
		return s
	}

	if fenced := unfence(s); fenced != "" && gjson.Valid(fenced) {
		return fenced
	}

	// Fall back to the outermost object when prose surrounds the JSON.
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first >= 0 && last > first {
		return strings.TrimSpace(s[first : last+1])
	}
	return s
}

func unfence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 3)
		if len(parts) >= 2 {
			s = parts[1]
			// 栅栏后可能跟语言标注，去掉第一行的纯标识符。
			if nl := strings.Index(s, "\n"); nl >= 0 && !strings.ContainsAny(s[:nl], "{}") {
				s = s[nl+1:]
			}
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// ParseIntent validates a Model X response into an Intent. The requirement
// text must be present and non-empty; tags may be empty.
func ParseIntent(raw string) (Intent, error) {
	block := extractJSONBlock(raw)
	if block == "" || !gjson.Valid(block) {
		return Intent{}, fmt.Errorf("intent response is not valid JSON: %s", preview(raw))
	}
	doc := gjson.Parse(block)

	rawIntent := strings.TrimSpace(doc.Get("raw_intent").String())
	if rawIntent == "" {
		return Intent{}, errors.New("intent response missing or empty raw_intent")
	}

	var tags []string
	for _, t := range doc.Get("tags").Array() {
		if v := strings.TrimSpace(t.String()); v != "" {
			tags = append(tags, v)
		}
	}

	return Intent{RawIntent: rawIntent, Tags: tags}, nil
}

// ParseSolution validates a Model Y response into a Solution. Content and
// description must both be present and non-empty.
func ParseSolution(raw string) (Solution, error) {
	block := extractJSONBlock(raw)
	if block == "" || !gjson.Valid(block) {
		return Solution{}, fmt.Errorf("solution response is not valid JSON: %s", preview(raw))
	}
	doc := gjson.Parse(block)

	content := strings.TrimSpace(doc.Get("code_snippet").String())
	if content == "" {
		return Solution{}, errors.New("solution response missing or empty code_snippet")
	}
	description := strings.TrimSpace(doc.Get("description").String())
	if description == "" {
		return Solution{}, errors.New("solution response missing or empty description")
	}

	return Solution{Content: content, Description: description}, nil
}

func preview(raw string) string {
	r := []rune(strings.TrimSpace(raw))
	if len(r) > 200 {
		return string(r[:200]) + "..."
	}
	return string(r)
}
