package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	resp   string
	err    error
	prompt Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p Prompt) (string, error) {
	f.prompt = p
	return f.resp, f.err
}

var testProfile = Profile{
	Domain:     "PHP 8 and HTML5",
	SkillLevel: "senior architect",
	Focus:      "security",
	Constraint: "proprietary library constraint",
	Languages:  "PHP and/or HTML",
}

func TestIntentGeneratorSuccess(t *testing.T) {
	llm := &fakeLLM{resp: `{"raw_intent": "Do the thing.", "tags": ["t1"]}`}
	g, err := NewIntentGenerator(llm, testProfile)
	require.NoError(t, err)

	intent, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Do the thing.", intent.RawIntent)
	assert.Contains(t, llm.prompt.System, "PHP 8 and HTML5")
}

func TestIntentGeneratorNetworkError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	g, err := NewIntentGenerator(llm, testProfile)
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageIntent, se.Stage)
	assert.Equal(t, FailNetwork, se.Kind)
}

func TestIntentGeneratorTimeout(t *testing.T) {
	llm := &fakeLLM{err: context.DeadlineExceeded}
	g, err := NewIntentGenerator(llm, testProfile)
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, FailTimeout, se.Kind)
}

func TestIntentGeneratorParseError(t *testing.T) {
	llm := &fakeLLM{resp: "not json"}
	g, err := NewIntentGenerator(llm, testProfile)
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, FailParse, se.Kind)
}

func TestSolutionGeneratorEmbedsIntent(t *testing.T) {
	llm := &fakeLLM{resp: `{"code_snippet": "code", "description": "desc"}`}
	g, err := NewSolutionGenerator(llm, testProfile)
	require.NoError(t, err)

	intent := Intent{RawIntent: "Escape all output.", Tags: []string{"xss", "output"}}
	sol, err := g.Generate(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, "code", sol.Content)
	assert.Contains(t, llm.prompt.User, "Escape all output.")
	assert.Contains(t, llm.prompt.User, "xss, output")
}

func TestSolutionGeneratorParseError(t *testing.T) {
	llm := &fakeLLM{resp: `{"code_snippet": ""}`}
	g, err := NewSolutionGenerator(llm, testProfile)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Intent{RawIntent: "x"})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageSolution, se.Stage)
	assert.Equal(t, FailParse, se.Kind)
}

func TestNewGeneratorsRequireClient(t *testing.T) {
	_, err := NewIntentGenerator(nil, testProfile)
	assert.Error(t, err)
	_, err = NewSolutionGenerator(nil, testProfile)
	assert.Error(t, err)
}

func TestMockLLMRoundTrip(t *testing.T) {
	ig, err := NewIntentGenerator(MockLLM{}, testProfile)
	require.NoError(t, err)
	sg, err := NewSolutionGenerator(MockLLM{}, testProfile)
	require.NoError(t, err)

	intent, err := ig.Generate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, intent.RawIntent)

	sol, err := sg.Generate(context.Background(), intent)
	require.NoError(t, err)
	assert.NotEmpty(t, sol.Content)
	assert.NotEmpty(t, sol.Description)
}

func TestAssemble(t *testing.T) {
	intent := Intent{RawIntent: "req", Tags: []string{"a"}}
	sol := Solution{Content: "body", Description: "how"}

	rec := Assemble(intent, sol, "http://x", "http://y")
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "req", rec.RawIntent)
	assert.Equal(t, []string{"a"}, rec.Tags)
	assert.Equal(t, "body", rec.Content)
	assert.Equal(t, "how", rec.Description)
	assert.Equal(t, "http://x", rec.ModelXURL)
	assert.Equal(t, "http://y", rec.ModelYURL)

	ts, err := time.Parse(time.RFC3339, rec.GeneratedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)

	rec2 := Assemble(intent, sol, "http://x", "http://y")
	assert.NotEqual(t, rec.ID, rec2.ID)
}
