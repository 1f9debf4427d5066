package llmjudge

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/evalforge/goeval/api"
)

// mockGenerator records the prompt it was handed
type mockGenerator struct {
	system   string
	user     string
	response string
	err      error
}

func (m *mockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	m.system = system
	m.user = user
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestAICritique(t *testing.T) {
	ctx := context.Background()

	baseInputs := func() api.EvalInputs {
		return api.EvalInputs{
			Inputs:       map[string]any{"question": "What is 2+2?"},
			Output:       "4",
			DataPoint:    map[string]any{"correct_answer": "4"},
			AppParams:    map[string]any{"prompt_user": "Answer the question: {question}"},
			Settings:     map[string]any{"correct_answer_key": "correct_answer", "prompt_template": "You are a strict grader."},
			ProviderKeys: map[string]string{ProviderKeyName: "sk-test"},
		}
	}

	t.Run("returns raw completion as text", func(t *testing.T) {
		mock := &mockGenerator{response: "The answer is fully correct. 10/10"}
		evaluator := AICritique(func(apiKey string) api.LLMGenerator { return mock })

		result := evaluator.Evaluate(ctx, baseInputs())

		if result.Type != api.ResultTypeText {
			t.Fatalf("Evaluate() type = %v, want text (error: %+v)", result.Type, result.Error)
		}
		if result.Value != "The answer is fully correct. 10/10" {
			t.Errorf("Evaluate() value = %v", result.Value)
		}
		if mock.system != "You are a strict grader." {
			t.Errorf("system message = %q", mock.system)
		}

		var args map[string]any
		if err := json.Unmarshal([]byte(mock.user), &args); err != nil {
			t.Fatalf("user message is not JSON: %v", err)
		}
		for _, key := range []string{"llm_app_prompt_template", "variant_output", "correct_answer", "question"} {
			if _, ok := args[key]; !ok {
				t.Errorf("user message missing %q field", key)
			}
		}
	})

	t.Run("completion whitespace is trimmed", func(t *testing.T) {
		mock := &mockGenerator{response: "\n  8/10. Mostly correct.  \n"}
		evaluator := AICritique(func(apiKey string) api.LLMGenerator { return mock })

		result := evaluator.Evaluate(ctx, baseInputs())

		if result.Type != api.ResultTypeText {
			t.Fatalf("Evaluate() type = %v, want text (error: %+v)", result.Type, result.Error)
		}
		if result.Value != "8/10. Mostly correct." {
			t.Errorf("Evaluate() value = %q, want trimmed completion", result.Value)
		}
	})

	t.Run("generation failure is contained", func(t *testing.T) {
		mock := &mockGenerator{err: fmt.Errorf("rate limited")}
		evaluator := AICritique(func(apiKey string) api.LLMGenerator { return mock })

		result := evaluator.Evaluate(ctx, baseInputs())
		if result.Type != api.ResultTypeError {
			t.Fatalf("Evaluate() type = %v, want error", result.Type)
		}
		if result.Error.Stacktrace == "" {
			t.Error("generation failure should carry diagnostics")
		}
	})

	t.Run("missing prompt template", func(t *testing.T) {
		in := baseInputs()
		delete(in.Settings, "prompt_template")

		result := AICritique(func(apiKey string) api.LLMGenerator { return &mockGenerator{} }).Evaluate(ctx, in)
		if result.Type != api.ResultTypeError {
			t.Fatalf("Evaluate() type = %v, want error", result.Type)
		}
		if result.Error.Stacktrace != "" {
			t.Error("missing settings key should be a validation error without stacktrace")
		}
	})

	t.Run("missing provider key", func(t *testing.T) {
		in := baseInputs()
		in.ProviderKeys = map[string]string{}

		result := AICritique(func(apiKey string) api.LLMGenerator { return &mockGenerator{} }).Evaluate(ctx, in)
		if result.Type != api.ResultTypeError {
			t.Fatalf("Evaluate() type = %v, want error", result.Type)
		}
	})
}

func TestModeration(t *testing.T) {
	ctx := context.Background()

	provider := moderationProviderFunc(func(ctx context.Context, content string) (*api.ModerationResult, error) {
		return &api.ModerationResult{Categories: []api.ModerationCategory{
			{Name: "Toxic", Confidence: 0.9},
			{Name: "Health", Confidence: 0.2},
		}}, nil
	})

	t.Run("flagged above threshold", func(t *testing.T) {
		result := Moderation(provider).Evaluate(ctx, api.EvalInputs{Output: "some text"})
		if result.Type != api.ResultTypeBool || result.Value != false {
			t.Errorf("Evaluate() = %+v, want bool false", result)
		}
	})

	t.Run("category filter excludes the flagged category", func(t *testing.T) {
		result := Moderation(provider).Evaluate(ctx, api.EvalInputs{
			Output:   "some text",
			Settings: map[string]any{"categories": []any{"Health"}},
		})
		if result.Type != api.ResultTypeBool || result.Value != true {
			t.Errorf("Evaluate() = %+v, want bool true", result)
		}
	})

	t.Run("raised threshold passes", func(t *testing.T) {
		result := Moderation(provider).Evaluate(ctx, api.EvalInputs{
			Output:   "some text",
			Settings: map[string]any{"threshold": 0.95},
		})
		if result.Type != api.ResultTypeBool || result.Value != true {
			t.Errorf("Evaluate() = %+v, want bool true", result)
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		result := Moderation(nil).Evaluate(ctx, api.EvalInputs{Output: "some text"})
		if result.Type != api.ResultTypeError {
			t.Fatalf("Evaluate() type = %v, want error", result.Type)
		}
	})
}

type moderationProviderFunc func(ctx context.Context, content string) (*api.ModerationResult, error)

func (f moderationProviderFunc) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	return f(ctx, content)
}
