package heuristic

import (
	"context"

	"github.com/google/go-cmp/cmp"

	"github.com/evalforge/goeval/api"
)

// ExactMatch returns an evaluator that checks whether the output equals the
// resolved correct answer. String answers compare as strings; structured
// answers compare structurally.
func ExactMatch() api.Evaluator {
	return &exactMatchEvaluator{}
}

type exactMatchEvaluator struct{}

func (e *exactMatchEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	if expected, ok := answer.(string); ok {
		output, errResult := stringOutput(in)
		if errResult != nil {
			return *errResult
		}
		return api.BoolResult(output == expected)
	}

	return api.BoolResult(cmp.Equal(in.Output, answer))
}
