package jsondiff

import (
	"errors"
	"reflect"
	"strings"
)

// ErrNoKeys is returned when the selected key set is empty, so there is
// nothing to grade against.
var ErrNoKeys = errors.New("no keys to compare: the reference object has no leaf fields")

// CompareSettings configures Compare.
type CompareSettings struct {
	// PredictKeys unions candidate keys into the graded key set, so extra
	// candidate fields absent from the ground truth count against the score.
	PredictKeys bool `mapstructure:"predict_keys"`
	// CompareSchemaOnly grades a key on name and value type only, ignoring
	// value equality.
	CompareSchemaOnly bool `mapstructure:"compare_schema_only"`
	// CaseInsensitiveKeys lower-cases all flattened keys before comparing.
	CaseInsensitiveKeys bool `mapstructure:"case_insensitive_keys"`
}

// Compare flattens both sides and scores the candidate against the ground
// truth: each graded key contributes 1.0 when both sides hold a present,
// matching value, 0.0 otherwise, averaged over the graded key count.
//
// A present-but-falsy value (0, "", false) is treated as absent under the
// both-present check. That policy is inherited and kept deliberately.
func Compare(groundTruth, candidate any, settings CompareSettings) (float64, error) {
	gt := Flatten(groundTruth)
	cand := Flatten(candidate)

	if settings.CaseInsensitiveKeys {
		gt = lowerKeys(gt)
		cand = lowerKeys(cand)
	}

	keys := make(map[string]struct{}, len(gt))
	for key := range gt {
		keys[key] = struct{}{}
	}
	if settings.PredictKeys {
		for key := range cand {
			keys[key] = struct{}{}
		}
	}

	if len(keys) == 0 {
		return 0, ErrNoKeys
	}

	score := 0.0
	for key := range keys {
		gtValue := gt[key]
		candValue := cand[key]
		if !truthy(gtValue) || !truthy(candValue) {
			continue
		}
		if settings.CompareSchemaOnly {
			if reflect.TypeOf(gtValue) == reflect.TypeOf(candValue) {
				score++
			}
		} else if leafEqual(gtValue, candValue) {
			score++
		}
	}

	return score / float64(len(keys)), nil
}

// leafEqual compares two leaf values, tolerating the numeric type spread
// between decoded JSON (float64) and caller-built ground truths (int).
func leafEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return a == b
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

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[strings.ToLower(key)] = value
	}
	return out
}

// truthy mirrors the lenient presence check used for graded values: nil,
// false, zero numbers and empty strings all read as absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}
