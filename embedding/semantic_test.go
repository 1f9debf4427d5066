package embedding

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/evalforge/goeval/api"
)

// mockEmbedder is a simple mock for unit tests
type mockEmbedder struct {
	embeddings map[string][]float64
	err        error
	apiKey     string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	if emb, ok := m.embeddings[text]; ok {
		return emb, nil
	}
	return []float64{1.0, 0.0, 0.0}, nil
}

func factoryFor(m *mockEmbedder) api.EmbedderFactory {
	return func(apiKey string) api.Embedder {
		m.apiKey = apiKey
		return m
	}
}

func TestSemanticSimilarity(t *testing.T) {
	ctx := context.Background()
	providerKeys := map[string]string{ProviderKeyName: "sk-test"}

	tests := []struct {
		name       string
		embeddings map[string][]float64
		embedErr   error
		output     any
		expected   any
		keys       map[string]string
		wantScore  float64
		wantErr    bool
	}{
		{
			name: "identical vectors",
			embeddings: map[string][]float64{
				"hello": {1.0, 0.0, 0.0},
			},
			output:    "hello",
			expected:  "hello",
			keys:      providerKeys,
			wantScore: 1.0,
		},
		{
			name: "orthogonal vectors",
			embeddings: map[string][]float64{
				"a": {1.0, 0.0, 0.0},
				"b": {0.0, 1.0, 0.0},
			},
			output:    "a",
			expected:  "b",
			keys:      providerKeys,
			wantScore: 0.0,
		},
		{
			name: "partial overlap",
			embeddings: map[string][]float64{
				"a": {0.6, 0.8, 0.0},
				"b": {0.6, 0.0, 0.8},
			},
			output:    "a",
			expected:  "b",
			keys:      providerKeys,
			wantScore: 0.36,
		},
		{
			name:     "embedder failure becomes error result",
			embedErr: fmt.Errorf("API error"),
			output:   "hello",
			expected: "world",
			keys:     providerKeys,
			wantErr:  true,
		},
		{
			name:     "missing provider key",
			output:   "hello",
			expected: "world",
			keys:     map[string]string{},
			wantErr:  true,
		},
		{
			name:     "non-string correct answer",
			output:   "hello",
			expected: 42,
			keys:     providerKeys,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEmbedder{embeddings: tt.embeddings, err: tt.embedErr}
			evaluator := SemanticSimilarity(factoryFor(mock))

			result := evaluator.Evaluate(ctx, api.EvalInputs{
				Output:       tt.output,
				DataPoint:    map[string]any{"correct_answer": tt.expected},
				Settings:     map[string]any{"correct_answer_key": "correct_answer"},
				ProviderKeys: tt.keys,
			})

			if tt.wantErr {
				if result.Type != api.ResultTypeError {
					t.Fatalf("Evaluate() type = %v, want error", result.Type)
				}
				return
			}

			if result.Type != api.ResultTypeNumber {
				t.Fatalf("Evaluate() type = %v, want number (error: %+v)", result.Type, result.Error)
			}
			got := result.Value.(float64)
			if math.Abs(got-tt.wantScore) > 1e-9 {
				t.Errorf("Evaluate() score = %v, want %v", got, tt.wantScore)
			}
			if mock.apiKey != "sk-test" {
				t.Errorf("embedder factory received key %q, want %q", mock.apiKey, "sk-test")
			}
		})
	}
}

func TestSemanticSimilarityNoFactory(t *testing.T) {
	result := SemanticSimilarity(nil).Evaluate(context.Background(), api.EvalInputs{
		Output:       "hello",
		DataPoint:    map[string]any{"correct_answer": "hello"},
		Settings:     map[string]any{"correct_answer_key": "correct_answer"},
		ProviderKeys: map[string]string{ProviderKeyName: "sk-test"},
	})
	if result.Type != api.ResultTypeError {
		t.Fatalf("Evaluate() type = %v, want error", result.Type)
	}
}
