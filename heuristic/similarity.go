package heuristic

import (
	"context"
	"strings"

	"github.com/evalforge/goeval/api"
)

type similaritySettings struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// SimilarityMatch returns an evaluator that computes the Jaccard similarity
// of the whitespace-tokenized word sets of output and correct answer, and
// reports whether it strictly exceeds the similarity_threshold setting.
func SimilarityMatch() api.Evaluator {
	return &similarityEvaluator{}
}

type similarityEvaluator struct{}

func (e *similarityEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}
	expected, ok := answer.(string)
	if !ok {
		return api.ValidationError("correct answer must be a string for similarity match")
	}

	if !api.SettingPresent(in.Settings, "similarity_threshold") {
		return api.ValidationError("missing required settings key 'similarity_threshold'")
	}
	var settings similaritySettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	similarity, ok := Jaccard(output, expected)
	if !ok {
		return api.ValidationError("cannot compute similarity: both output and correct answer have no tokens")
	}

	return api.BoolResult(similarity > settings.SimilarityThreshold)
}

// Jaccard computes |intersection| / |union| over the whitespace token sets of
// the two strings. The second return is false when both token sets are empty
// and the ratio is undefined.
func Jaccard(s1, s2 string) (float64, bool) {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)

	union := len(set2)
	intersect := 0
	for token := range set1 {
		if _, ok := set2[token]; ok {
			intersect++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0, false
	}
	return float64(intersect) / float64(union), true
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(s) {
		set[token] = struct{}{}
	}
	return set
}
