// Package customcode forwards scoring to a sandboxed code execution
// collaborator. Isolation, resource limits and language support live behind
// the api.CodeRunner boundary; this evaluator only assembles arguments and
// wraps the numeric result.
package customcode

import (
	"context"

	"github.com/evalforge/goeval/api"
)

type codeSettings struct {
	Code string `mapstructure:"code"`
}

// Run returns an evaluator that executes user-supplied scoring code through
// the given runner.
func Run(runner api.CodeRunner) api.Evaluator {
	return &customCodeEvaluator{runner: runner}
}

type customCodeEvaluator struct {
	runner api.CodeRunner
}

func (e *customCodeEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	if e.runner == nil {
		return api.ValidationError("no code runner is configured for custom code evaluation")
	}

	var settings codeSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}
	if settings.Code == "" {
		return api.ValidationError("missing required settings key 'code'")
	}

	// correct_answer is read directly from the data point here, not through
	// correct_answer_key; user code predates the configurable key and relies
	// on the fixed column name.
	score, err := e.runner.Run(ctx, api.CodeRunArgs{
		AppParams:     in.AppParams,
		Inputs:        in.Inputs,
		Output:        in.Output,
		CorrectAnswer: in.DataPoint["correct_answer"],
		Code:          settings.Code,
		DataPoint:     in.DataPoint,
	})
	if err != nil {
		return api.InternalError("error during custom code evaluation", err)
	}

	return api.NumberResult(score)
}
