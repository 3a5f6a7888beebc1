package writer

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"rag_data_generator/generator"
)

const (
	titleLimit = 60
	metaLimit  = 160
)

// DeriveTitle extracts a page title from the record: first sentence of the
// requirement text, capped at titleLimit runes, falling back to the
// description and finally to a timestamp placeholder.
func DeriveTitle(rec generator.Record) string {
	if t := firstSentence(rec.RawIntent); t != "" {
		return t
	}
	if t := firstSentence(rec.Description); t != "" {
		return t
	}
	return "Solution " + time.Now().Format("20060102_150405")
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "."); i >= 0 {
		if head := strings.TrimSpace(s[:i]); head != "" {
			s = head
		}
	}
	return truncateRunes(s, titleLimit)
}

// 按 rune 截断，避免把多字节字符劈成两半。
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// slugify turns a title into a URL-safe filename fragment.
func slugify(title string) string {
	s := slugStripRe.ReplaceAllString(title, "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	r := []rune(s)
	if len(r) > 50 {
		s = string(r[:50])
	}
	s = strings.Trim(strings.ToLower(s), "-")
	if s == "" {
		s = "record"
	}
	return s
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="description" content="{{.MetaDescription}}">
    <meta name="keywords" content="{{.Keywords}}">
    <meta name="author" content="RAG Generator">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.MetaDescription}}">
    <meta property="og:type" content="article">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 900px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #667eea; padding-bottom: 16px; margin-bottom: 24px; }
        .header h1 { font-size: 1.8em; margin-bottom: 8px; }
        .subtitle { color: #666; }
        pre { background: #f5f5f5; border-radius: 6px; padding: 12px; overflow-x: auto; }
        code { font-family: 'SF Mono', Menlo, Consolas, monospace; font-size: 0.92em; }
        .description-section { background: #f0f2ff; border-left: 4px solid #667eea; padding: 12px 16px; margin: 20px 0; }
        .tags { margin-top: 20px; }
        .tag { display: inline-block; background: #667eea; color: white; border-radius: 12px; padding: 2px 12px; margin: 0 6px 6px 0; font-size: 0.85em; }
        .footer { margin-top: 32px; padding-top: 12px; border-top: 1px solid #ddd; color: #888; font-size: 0.85em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <p class="subtitle">{{.Subtitle}}</p>
    </div>

    <div class="content">
{{.Body}}
    </div>
{{if .Description}}
    <div class="description-section">
        <h3>Approach</h3>
        <p>{{.Description}}</p>
    </div>
{{end}}
{{if .Tags}}
    <div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
{{end}}
    <div class="footer">
        <p>Generated on {{.GeneratedAt}} | RAG Generator</p>
    </div>
</body>
</html>
`))

type pageData struct {
	Title           string
	Subtitle        string
	MetaDescription string
	Keywords        string
	Body            template.HTML
	Description     string
	Tags            []string
	GeneratedAt     string
}

func renderPage(rec generator.Record, title string) (string, error) {
	body, err := formatContent(rec.Content)
	if err != nil {
		return "", err
	}

	meta := rec.Description
	if meta == "" {
		meta = rec.RawIntent
	}
	if meta == "" {
		meta = title
	}

	desc := rec.Description
	if desc == rec.Content {
		desc = ""
	}

	data := pageData{
		Title:           title,
		Subtitle:        truncateRunes(strings.TrimSpace(rec.RawIntent), metaLimit),
		MetaDescription: truncateRunes(strings.TrimSpace(meta), metaLimit),
		Keywords:        strings.Join(rec.Tags, ", "),
		Body:            template.HTML(body),
		Description:     desc,
		Tags:            rec.Tags,
		GeneratedAt:     rec.GeneratedAt,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var codePrefixes = []string{
	"<?", "<!", "import ", "def ", "function ", "class ", "const ", "let ", "var ",
}

func looksLikeCode(s string) bool {
	for _, p := range codePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// formatContent renders the solution body: fenced content goes through the
// markdown converter, bare code is escaped into a pre block, prose becomes
// paragraphs. The result is embedded as-is, so every branch must escape.
func formatContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "<p>No content available.</p>", nil
	}

	if strings.Contains(content, "```") {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("convert markdown: %w", err)
		}
		return buf.String(), nil
	}

	var b strings.Builder
	for _, para := range splitParagraphs(content) {
		if looksLikeCode(para) {
			b.WriteString("<pre><code>")
			b.WriteString(html.EscapeString(para))
			b.WriteString("</code></pre>\n")
		} else {
			b.WriteString("<p>")
			b.WriteString(html.EscapeString(para))
			b.WriteString("</p>\n")
		}
	}
	return b.String(), nil
}

func splitParagraphs(s string) []string {
	var out []string
	parts := strings.Split(s, "\n\n")
	if len(parts) == 1 {
		parts = strings.Split(s, "\n")
	}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
