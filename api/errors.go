package api

import "errors"

var (
	// ErrNoCorrectAnswerKey is returned when the correct_answer_key setting is missing
	ErrNoCorrectAnswerKey = errors.New("no correct answer keys provided")
	// ErrOutputNotString is returned when an evaluator needs a string output but was given something else
	ErrOutputNotString = errors.New("output must be a string for this evaluator")
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = errors.New("LLM generation failed")
)
