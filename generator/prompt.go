package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息对。
type Prompt struct {
	System string
	User   string
}

// Profile carries the generation parameters both prompt builders instantiate.
type Profile struct {
	Domain     string
	SkillLevel string
	Focus      string
	Constraint string
	Languages  string
}

var codingKeywords = []string{
	"programming", "coding", "software", "development", "php", "python",
	"javascript", "java", "html", "css", "code", "developer",
}

// IsCodingDomain reports whether the domain asks for code rather than prose,
// which switches the prompt pair and the rendering hints downstream.
func IsCodingDomain(domain string) bool {
	d := strings.ToLower(domain)
	for _, kw := range codingKeywords {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

// BuildIntentPrompt 生成 Model X（意图）提示词。
func BuildIntentPrompt(p Profile) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a %s specialized in %s, focused on %s.\n", p.SkillLevel, p.Domain, p.Focus))
	if IsCodingDomain(p.Domain) {
		sb.WriteString("Generate one specific coding requirement (the Intent) in strict JSON.\n")
		sb.WriteString(fmt.Sprintf("The Intent must concern the interaction between %s and must include at least one %s.\n", p.Languages, p.Constraint))
	} else {
		sb.WriteString("Generate one specific requirement (the Intent) in strict JSON.\n")
		sb.WriteString(fmt.Sprintf("The Intent must concern %s and must include at least one %s.\n", p.Domain, p.Constraint))
	}
	sb.WriteString("\nRespond ONLY with JSON in this exact shape:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "raw_intent": "A specific, detailed requirement with clear constraints.",` + "\n")
	sb.WriteString(`  "tags": ["tag1", "tag2", "tag3"]` + "\n")
	sb.WriteString("}")

	var user string
	if IsCodingDomain(p.Domain) {
		user = fmt.Sprintf("Generate a new coding requirement for %s with a focus on %s.", p.Languages, p.Focus)
	} else {
		user = fmt.Sprintf("Generate a new requirement for %s with a focus on %s.", p.Domain, p.Focus)
	}

	return Prompt{System: sb.String(), User: user}
}

// BuildSolutionPrompt 生成 Model Y（解答）提示词。
func BuildSolutionPrompt(p Profile, intent Intent) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a %s specialized in %s, focused on %s.\n", p.SkillLevel, p.Domain, p.Focus))
	if IsCodingDomain(p.Domain) {
		sb.WriteString(fmt.Sprintf("You are an expert in %s and write clean, well-commented code that honors the stated constraints.\n", p.Languages))
		sb.WriteString("You will receive a raw_intent produced by another model describing a specific coding requirement.\n")
		sb.WriteString("\nYour task:\n")
		sb.WriteString(fmt.Sprintf("1. Analyze the received Intent.\n2. Produce a complete solution using %s.\n", p.Languages))
	} else {
		sb.WriteString(fmt.Sprintf("You will receive a raw_intent produced by another model describing a specific requirement about %s.\n", p.Domain))
		sb.WriteString("\nYour task:\n")
		sb.WriteString(fmt.Sprintf("1. Analyze the received Intent.\n2. Produce a complete, detailed solution about %s.\n", p.Domain))
	}
	sb.WriteString(fmt.Sprintf("3. Make sure the solution respects the constraints and best practices of %s.\n", p.Domain))
	sb.WriteString("4. Explain the approach clearly.\n")
	sb.WriteString("\nRespond ONLY with JSON in this exact shape:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "code_snippet": "Complete content solving the specific requirement.",` + "\n")
	sb.WriteString(`  "description": "Clear explanation of the approach used to solve the Intent."` + "\n")
	sb.WriteString("}")

	var user strings.Builder
	user.WriteString("Solve this requirement:\n")
	user.WriteString(intent.RawIntent)
	if len(intent.Tags) > 0 {
		user.WriteString("\n\nTags: ")
		user.WriteString(strings.Join(intent.Tags, ", "))
	}

	return Prompt{System: sb.String(), User: user.String()}
}
