package generator

import (
	"context"
	"errors"
)

// IntentGenerator 负责 Stage 1：向 Model X 请求一个新的 Intent。
type IntentGenerator struct {
	llm     LLMClient
	profile Profile
}

func NewIntentGenerator(llm LLMClient, profile Profile) (*IntentGenerator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &IntentGenerator{llm: llm, profile: profile}, nil
}

// Generate builds the intent prompt, calls Model X, and validates the
// response. Errors are classified StageErrors; the profile is never mutated.
func (g *IntentGenerator) Generate(ctx context.Context) (Intent, error) {
	raw, err := g.llm.Complete(ctx, BuildIntentPrompt(g.profile))
	if err != nil {
		return Intent{}, Classify(StageIntent, err)
	}
	intent, err := ParseIntent(raw)
	if err != nil {
		return Intent{}, parseError(StageIntent, err)
	}
	return intent, nil
}
