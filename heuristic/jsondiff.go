package heuristic

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/evalforge/goeval/api"
	"github.com/evalforge/goeval/jsondiff"
)

// JSONDiff returns an evaluator that parses the output as JSON and scores it
// structurally against the correct answer using jsondiff.Compare.
func JSONDiff() api.Evaluator {
	return &jsonDiffEvaluator{}
}

type jsonDiffEvaluator struct{}

func (e *jsonDiffEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	var settings jsondiff.CompareSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	var candidate any
	if err := json.Unmarshal([]byte(output), &candidate); err != nil {
		return api.ValidationError("model output is not valid JSON: %v", err)
	}

	score, err := jsondiff.Compare(answer, candidate, settings)
	if err != nil {
		if errors.Is(err, jsondiff.ErrNoKeys) {
			return api.ValidationError("%v", err)
		}
		return api.InternalError("error during JSON diff evaluation", err)
	}

	return api.NumberResult(score)
}
