package generator

import (
	"time"

	"github.com/google/uuid"
)

// Intent 是 Model X 产出的结构化需求。
type Intent struct {
	RawIntent string   `json:"raw_intent"`
	Tags      []string `json:"tags"`
}

// Solution 是 Model Y 针对某个 Intent 产出的解答。
type Solution struct {
	// Content keeps the original wire name code_snippet; for non-coding
	// domains it carries prose content.
	Content     string `json:"code_snippet"`
	Description string `json:"description"`
}

// Record is the persisted union of an Intent and its Solution. It is written
// exactly once and never mutated afterwards.
type Record struct {
	ID          string   `json:"record_id"`
	RawIntent   string   `json:"raw_intent"`
	Tags        []string `json:"tags"`
	Content     string   `json:"code_snippet"`
	Description string   `json:"description"`
	GeneratedAt string   `json:"generated_at"`
	ModelXURL   string   `json:"model_x_url,omitempty"`
	ModelYURL   string   `json:"model_y_url,omitempty"`
}

// Assemble merges a validated Intent and Solution into a Record, capturing
// the creation timestamp and a stable identifier.
func Assemble(intent Intent, solution Solution, modelXURL, modelYURL string) Record {
	return Record{
		ID:          uuid.NewString(),
		RawIntent:   intent.RawIntent,
		Tags:        intent.Tags,
		Content:     solution.Content,
		Description: solution.Description,
		GeneratedAt: time.Now().Format(time.RFC3339),
		ModelXURL:   modelXURL,
		ModelYURL:   modelYURL,
	}
}
