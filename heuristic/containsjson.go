package heuristic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/evalforge/goeval/api"
)

// ContainsJSON returns an evaluator that reports whether the output embeds a
// parsable JSON object: the slice from the first '{' to the last '}' must
// decode. The bool reflects parse success only, not semantic validity.
func ContainsJSON() api.Evaluator {
	return &containsJSONEvaluator{}
}

type containsJSONEvaluator struct{}

func (e *containsJSONEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	start := strings.IndexByte(output, '{')
	end := strings.LastIndexByte(output, '}')
	if start < 0 || end < start {
		return api.BoolResult(false)
	}

	var decoded any
	err := json.Unmarshal([]byte(output[start:end+1]), &decoded)
	return api.BoolResult(err == nil)
}
