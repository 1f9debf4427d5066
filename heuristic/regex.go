package heuristic

import (
	"context"
	"regexp"

	"github.com/evalforge/goeval/api"
)

type regexSettings struct {
	RegexPattern     string `mapstructure:"regex_pattern"`
	RegexShouldMatch bool   `mapstructure:"regex_should_match"`
}

// RegexTest returns an evaluator that searches the output with a
// case-insensitive pattern and compares the hit against the expected
// regex_should_match setting.
func RegexTest() api.Evaluator {
	return &regexEvaluator{}
}

type regexEvaluator struct{}

func (e *regexEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	var settings regexSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}
	if settings.RegexPattern == "" {
		return api.ValidationError("missing required settings key 'regex_pattern'")
	}
	if !api.SettingPresent(in.Settings, "regex_should_match") {
		return api.ValidationError("missing required settings key 'regex_should_match'")
	}

	re, err := regexp.Compile("(?i)" + settings.RegexPattern)
	if err != nil {
		return api.ValidationError("invalid regex pattern %q: %v", settings.RegexPattern, err)
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	return api.BoolResult(re.MatchString(output) == settings.RegexShouldMatch)
}
