package api

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeSettings decodes the open settings map into an evaluator's typed
// settings struct. Decoding is weakly typed so that values arriving from JSON
// (float64 numbers, stringified bools) coerce the way dynamic access would.
// Unknown keys are ignored; the evaluator alone knows which keys it requires.
func DecodeSettings(settings map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build settings decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// SettingPresent reports whether the settings map carries the given key at
// all, for settings whose mere presence changes behavior (e.g. a Levenshtein
// threshold turning a distance into a bool).
func SettingPresent(settings map[string]any, key string) bool {
	_, ok := settings[key]
	return ok
}

// CorrectAnswer resolves the reference answer from the data point using the
// correct_answer_key setting.
func CorrectAnswer(dataPoint map[string]any, settings map[string]any) (any, error) {
	key, ok := settings["correct_answer_key"].(string)
	if !ok || key == "" {
		return nil, ErrNoCorrectAnswerKey
	}
	answer, ok := dataPoint[key]
	if !ok {
		return nil, fmt.Errorf("correct answer column '%s' not found in the test set", key)
	}
	return answer, nil
}

// UserKey resolves a "user key" setting: a {default: value} wrapper record
// declaring a field name. Returns the underlying name, or "" when the setting
// is missing or malformed.
func UserKey(settings map[string]any, key string) string {
	wrapper, ok := settings[key].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := wrapper["default"].(string)
	return name
}
