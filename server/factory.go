package server

import (
	"fmt"

	"rag_data_generator/config"
	"rag_data_generator/generator"
	"rag_data_generator/orchestrator"
	"rag_data_generator/writer"
)

// BuildRun assembles the per-run collaborators from a validated config: loop
// params, the two stage generators against their endpoints, and the output
// writer. The one-shot CLI and the HTTP surface share it.
func BuildRun(cfg config.Config) (orchestrator.Params, orchestrator.IntentSource, orchestrator.SolutionSource, orchestrator.RecordWriter, error) {
	params := orchestrator.Params{
		MaxRecords:             cfg.MaxRecords,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		Delay:                  cfg.Delay,
		ModelXURL:              cfg.ModelXURL,
		ModelYURL:              cfg.ModelYURL,
	}

	profile := generator.Profile{
		Domain:     cfg.Domain,
		SkillLevel: cfg.SkillLevel,
		Focus:      cfg.Focus,
		Constraint: cfg.Constraint,
		Languages:  cfg.Languages,
	}

	llmX, err := buildLLM(cfg, cfg.ModelXURL)
	if err != nil {
		return orchestrator.Params{}, nil, nil, nil, fmt.Errorf("model x client: %w", err)
	}
	llmY, err := buildLLM(cfg, cfg.ModelYURL)
	if err != nil {
		return orchestrator.Params{}, nil, nil, nil, fmt.Errorf("model y client: %w", err)
	}

	intents, err := generator.NewIntentGenerator(llmX, profile)
	if err != nil {
		return orchestrator.Params{}, nil, nil, nil, err
	}
	solutions, err := generator.NewSolutionGenerator(llmY, profile)
	if err != nil {
		return orchestrator.Params{}, nil, nil, nil, err
	}

	format := writer.FormatJSON
	if cfg.WebFormat {
		format = writer.FormatHTML
	}
	rw, err := writer.New(cfg.OutputDir, format)
	if err != nil {
		return orchestrator.Params{}, nil, nil, nil, err
	}

	return params, intents, solutions, rw, nil
}

func buildLLM(cfg config.Config, baseURL string) (generator.LLMClient, error) {
	switch cfg.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: baseURL,
			Timeout: cfg.RequestTimeout,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
