package heuristic

import (
	"context"
	"strings"

	"github.com/evalforge/goeval/api"
)

type substringSettings struct {
	Prefix        string `mapstructure:"prefix"`
	Suffix        string `mapstructure:"suffix"`
	Substring     string `mapstructure:"substring"`
	Substrings    string `mapstructure:"substrings"`
	CaseSensitive bool   `mapstructure:"case_sensitive"`
}

func decodeSubstringSettings(settings map[string]any) (substringSettings, error) {
	// case_sensitive defaults to true; decoding only overwrites present keys.
	out := substringSettings{CaseSensitive: true}
	err := api.DecodeSettings(settings, &out)
	return out, err
}

// StartsWith returns an evaluator that checks the output for a configured
// prefix, with optional case folding.
func StartsWith() api.Evaluator {
	return substringEvaluator{match: func(output string, s substringSettings) bool {
		prefix := s.Prefix
		if !s.CaseSensitive {
			output = strings.ToLower(output)
			prefix = strings.ToLower(prefix)
		}
		return strings.HasPrefix(output, prefix)
	}}
}

// EndsWith returns an evaluator that checks the output for a configured
// suffix, with optional case folding.
func EndsWith() api.Evaluator {
	return substringEvaluator{match: func(output string, s substringSettings) bool {
		suffix := s.Suffix
		if !s.CaseSensitive {
			output = strings.ToLower(output)
			suffix = strings.ToLower(suffix)
		}
		return strings.HasSuffix(output, suffix)
	}}
}

// Contains returns an evaluator that checks the output for a configured
// substring, with optional case folding.
func Contains() api.Evaluator {
	return substringEvaluator{match: func(output string, s substringSettings) bool {
		substring := s.Substring
		if !s.CaseSensitive {
			output = strings.ToLower(output)
			substring = strings.ToLower(substring)
		}
		return strings.Contains(output, substring)
	}}
}

// ContainsAny returns an evaluator that checks the output for at least one of
// a comma-separated list of candidate substrings.
func ContainsAny() api.Evaluator {
	return substringEvaluator{match: func(output string, s substringSettings) bool {
		output, candidates := foldCandidates(output, s)
		for _, candidate := range candidates {
			if strings.Contains(output, candidate) {
				return true
			}
		}
		return false
	}}
}

// ContainsAll returns an evaluator that checks the output for every one of a
// comma-separated list of candidate substrings.
func ContainsAll() api.Evaluator {
	return substringEvaluator{match: func(output string, s substringSettings) bool {
		output, candidates := foldCandidates(output, s)
		for _, candidate := range candidates {
			if !strings.Contains(output, candidate) {
				return false
			}
		}
		return true
	}}
}

func foldCandidates(output string, s substringSettings) (string, []string) {
	parts := strings.Split(s.Substrings, ",")
	candidates := make([]string, 0, len(parts))
	for _, part := range parts {
		candidates = append(candidates, strings.TrimSpace(part))
	}
	if !s.CaseSensitive {
		output = strings.ToLower(output)
		for i := range candidates {
			candidates[i] = strings.ToLower(candidates[i])
		}
	}
	return output, candidates
}

type substringEvaluator struct {
	match func(output string, s substringSettings) bool
}

func (e substringEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	settings, err := decodeSubstringSettings(in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	output, errResult := stringOutput(in)
	if errResult != nil {
		return *errResult
	}

	return api.BoolResult(e.match(output, settings))
}
