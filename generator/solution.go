package generator

import (
	"context"
	"errors"
)

// SolutionGenerator 负责 Stage 2：把 Intent 交给 Model Y 求解。
type SolutionGenerator struct {
	llm     LLMClient
	profile Profile
}

func NewSolutionGenerator(llm LLMClient, profile Profile) (*SolutionGenerator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &SolutionGenerator{llm: llm, profile: profile}, nil
}

// Generate builds the solution prompt from the intent, calls Model Y, and
// validates the response into a Solution.
func (g *SolutionGenerator) Generate(ctx context.Context, intent Intent) (Solution, error) {
	raw, err := g.llm.Complete(ctx, BuildSolutionPrompt(g.profile, intent))
	if err != nil {
		return Solution{}, Classify(StageSolution, err)
	}
	solution, err := ParseSolution(raw)
	if err != nil {
		return Solution{}, parseError(StageSolution, err)
	}
	return solution, nil
}
