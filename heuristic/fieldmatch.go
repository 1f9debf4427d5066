package heuristic

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/evalforge/goeval/api"
)

type fieldMatchSettings struct {
	JSONField string `mapstructure:"json_field"`
}

// FieldMatch returns an evaluator that parses the output as JSON and compares
// one named field against the correct answer.
//
// Unlike its sibling matchers, a malformed output or a missing field is a
// false bool Result, not an error. The leniency is deliberate and kept for
// compatibility: batch callers historically relied on unparsable outputs
// grading as failures rather than aborting into the error column.
func FieldMatch() api.Evaluator {
	return &fieldMatchEvaluator{}
}

type fieldMatchEvaluator struct{}

func (e *fieldMatchEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	var settings fieldMatchSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}
	if settings.JSONField == "" {
		return api.ValidationError("missing required settings key 'json_field'")
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return api.BoolResult(false)
	}
	value, ok := parsed[settings.JSONField]
	if !ok {
		return api.BoolResult(false)
	}

	return api.BoolResult(looseEqual(value, answer))
}

// looseEqual compares a decoded JSON value to a reference answer, tolerating
// the numeric type spread between decoded JSON (float64) and caller-built
// data points (int).
func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
