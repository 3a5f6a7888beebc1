package writer

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag_data_generator/generator"
)

func TestDeriveTitleShortText(t *testing.T) {
	rec := generator.Record{RawIntent: "Short requirement"}
	assert.Equal(t, "Short requirement", DeriveTitle(rec))
}

func TestDeriveTitleSentenceBoundary(t *testing.T) {
	rec := generator.Record{RawIntent: "First sentence. Second sentence goes on and on."}
	assert.Equal(t, "First sentence", DeriveTitle(rec))
}

func TestDeriveTitleHardTruncation(t *testing.T) {
	rec := generator.Record{RawIntent: strings.Repeat("very long requirement without any sentence break ", 5)}
	title := DeriveTitle(rec)
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len([]rune(title)), 60)
}

func TestDeriveTitleMultiByteSafe(t *testing.T) {
	rec := generator.Record{RawIntent: strings.Repeat("实现一个安全的表单验证组件", 10)}
	title := DeriveTitle(rec)
	assert.True(t, utf8.ValidString(title))
	assert.LessOrEqual(t, len([]rune(title)), 60)
}

func TestDeriveTitleFallbacks(t *testing.T) {
	rec := generator.Record{Description: "Fallback description. More."}
	assert.Equal(t, "Fallback description", DeriveTitle(rec))

	title := DeriveTitle(generator.Record{})
	assert.NotEmpty(t, title)
	assert.True(t, strings.HasPrefix(title, "Solution "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "build-a-sanitizer", slugify("Build a Sanitizer!"))
	assert.Equal(t, "record", slugify("???"))
}

func TestWriteHTMLPage(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, FormatHTML)
	require.NoError(t, err)

	rec := sampleRecord()
	path, err := w.Write(rec)
	require.NoError(t, err)
	assert.Equal(t, ".html", strings.ToLower(path[strings.LastIndex(path, "."):]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "<title>")
	assert.Contains(t, page, `property="og:title"`)
	assert.Contains(t, page, `property="og:type" content="article"`)
	assert.Contains(t, page, `name="description"`)
	assert.Contains(t, page, `name="keywords" content="xss, forms"`)
	assert.Contains(t, page, `<span class="tag">xss</span>`)
	assert.Contains(t, page, "Filters input through the proprietary sanitizer.")
	// Bare code content is escaped inside a pre block.
	assert.Contains(t, page, "<pre><code>")
	assert.Contains(t, page, "&lt;?php")
	assert.NotContains(t, page, "<?php echo")
}

func TestFormatContentMarkdown(t *testing.T) {
	out, err := formatContent("Intro paragraph.\n\n```php\n<?php echo 1;\n```")
	require.NoError(t, err)
	assert.Contains(t, out, "<pre><code")
	assert.Contains(t, out, "&lt;?php")
}

func TestFormatContentProse(t *testing.T) {
	out, err := formatContent("First paragraph with <b>markup</b>.\n\nSecond paragraph.")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>First paragraph with &lt;b&gt;markup&lt;/b&gt;.</p>")
	assert.Contains(t, out, "<p>Second paragraph.</p>")
}

func TestFormatContentEmpty(t *testing.T) {
	out, err := formatContent("   ")
	require.NoError(t, err)
	assert.Contains(t, out, "No content available.")
}
