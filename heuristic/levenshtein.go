package heuristic

import (
	"context"

	"github.com/evalforge/goeval/api"
)

type levenshteinSettings struct {
	Threshold float64 `mapstructure:"threshold"`
}

// LevenshteinDistance returns an evaluator that computes the edit distance
// between output and correct answer. Without a threshold setting the raw
// distance is returned as a number; with one, a bool of distance <= threshold.
func LevenshteinDistance() api.Evaluator {
	return &levenshteinEvaluator{}
}

type levenshteinEvaluator struct{}

func (e *levenshteinEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}
	expected, ok := answer.(string)
	if !ok {
		return api.ValidationError("correct answer must be a string for Levenshtein distance")
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	distance := Distance(output, expected)

	if api.SettingPresent(in.Settings, "threshold") {
		var settings levenshteinSettings
		if err := api.DecodeSettings(in.Settings, &settings); err != nil {
			return api.ValidationError("%v", err)
		}
		return api.BoolResult(float64(distance) <= settings.Threshold)
	}

	return api.NumberResult(float64(distance))
}

// Distance computes the Levenshtein edit distance between two strings with
// two rows of O(min(|s1|,|s2|)) memory: operands are swapped so the shorter
// string drives the inner loop.
func Distance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, c1 := range a {
		curr[0] = i + 1
		for j, c2 := range b {
			insertion := prev[j+1] + 1
			deletion := curr[j] + 1
			substitution := prev[j]
			if c1 != c2 {
				substitution++
			}
			curr[j+1] = min(insertion, deletion, substitution)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
