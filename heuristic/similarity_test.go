package heuristic

import (
	"context"
	"math"
	"testing"

	"github.com/evalforge/goeval/api"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name    string
		s1      string
		s2      string
		want    float64
		defined bool
	}{
		{name: "identical", s1: "a b c", s2: "a b c", want: 1.0, defined: true},
		{name: "disjoint", s1: "a b", s2: "c d", want: 0.0, defined: true},
		{name: "half overlap", s1: "a b", s2: "b c", want: 1.0 / 3.0, defined: true},
		{name: "duplicate tokens collapse", s1: "a a b", s2: "a b", want: 1.0, defined: true},
		{name: "both empty undefined", s1: "", s2: "   ", defined: false},
		{name: "one empty", s1: "a", s2: "", want: 0.0, defined: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Jaccard(tt.s1, tt.s2)
			if ok != tt.defined {
				t.Fatalf("Jaccard(%q, %q) defined = %v, want %v", tt.s1, tt.s2, ok, tt.defined)
			}
			if !tt.defined {
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.s1, tt.s2, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Jaccard(%q, %q) = %v, out of [0,1]", tt.s1, tt.s2, got)
			}

			// Symmetry.
			swapped, _ := Jaccard(tt.s2, tt.s1)
			if math.Abs(got-swapped) > 1e-9 {
				t.Errorf("Jaccard not symmetric: %v vs %v", got, swapped)
			}
		})
	}
}

func TestSimilarityMatchEvaluator(t *testing.T) {
	ctx := context.Background()
	dataPoint := map[string]any{"correct_answer": "the cat sat"}

	tests := []struct {
		name      string
		output    string
		settings  map[string]any
		wantType  api.ResultType
		wantValue any
	}{
		{
			name:      "above threshold",
			output:    "the cat sat",
			settings:  answerSettings(map[string]any{"similarity_threshold": 0.5}),
			wantType:  api.ResultTypeBool,
			wantValue: true,
		},
		{
			name:      "threshold comparison is strict",
			output:    "the cat sat",
			settings:  answerSettings(map[string]any{"similarity_threshold": 1.0}),
			wantType:  api.ResultTypeBool,
			wantValue: false,
		},
		{
			name:      "below threshold",
			output:    "a dog ran",
			settings:  answerSettings(map[string]any{"similarity_threshold": 0.3}),
			wantType:  api.ResultTypeBool,
			wantValue: false,
		},
		{
			name:     "missing threshold setting",
			output:   "the cat sat",
			settings: answerSettings(nil),
			wantType: api.ResultTypeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SimilarityMatch().Evaluate(ctx, evalInputs(tt.output, dataPoint, tt.settings))

			if result.Type != tt.wantType {
				t.Fatalf("SimilarityMatch.Evaluate() type = %v, want %v (error: %+v)", result.Type, tt.wantType, result.Error)
			}
			if tt.wantType != api.ResultTypeError && result.Value != tt.wantValue {
				t.Errorf("SimilarityMatch.Evaluate() value = %v, want %v", result.Value, tt.wantValue)
			}
		})
	}

	t.Run("empty token sets", func(t *testing.T) {
		result := SimilarityMatch().Evaluate(ctx, evalInputs("", map[string]any{"correct_answer": ""},
			answerSettings(map[string]any{"similarity_threshold": 0.5})))
		if result.Type != api.ResultTypeError {
			t.Fatalf("type = %v, want error for undefined similarity", result.Type)
		}
	})
}

func TestJSONDiffEvaluator(t *testing.T) {
	ctx := context.Background()

	t.Run("perfect structural match", func(t *testing.T) {
		dataPoint := map[string]any{"correct_answer": map[string]any{"a": "x", "b": "y"}}
		result := JSONDiff().Evaluate(ctx, evalInputs(`{"a": "x", "b": "y"}`, dataPoint, answerSettings(nil)))
		if result.Type != api.ResultTypeNumber {
			t.Fatalf("type = %v, want number (error: %+v)", result.Type, result.Error)
		}
		if result.Value != 1.0 {
			t.Errorf("value = %v, want 1.0", result.Value)
		}
	})

	t.Run("unparsable output is a parse error", func(t *testing.T) {
		dataPoint := map[string]any{"correct_answer": map[string]any{"a": "x"}}
		result := JSONDiff().Evaluate(ctx, evalInputs("not json", dataPoint, answerSettings(nil)))
		if result.Type != api.ResultTypeError {
			t.Fatalf("type = %v, want error", result.Type)
		}
	})

	t.Run("empty reference is a validation error", func(t *testing.T) {
		dataPoint := map[string]any{"correct_answer": map[string]any{}}
		result := JSONDiff().Evaluate(ctx, evalInputs(`{"a": "x"}`, dataPoint, answerSettings(nil)))
		if result.Type != api.ResultTypeError {
			t.Fatalf("type = %v, want error", result.Type)
		}
		if result.Error.Stacktrace != "" {
			t.Error("zero-key comparison should be a validation error without stacktrace")
		}
	})
}
