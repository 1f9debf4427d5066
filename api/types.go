package api

import (
	"context"
	"fmt"
	"runtime/debug"
)

// ResultType discriminates the value carried by a Result.
type ResultType string

const (
	ResultTypeBool   ResultType = "bool"
	ResultTypeNumber ResultType = "number"
	ResultTypeText   ResultType = "text"
	ResultTypeError  ResultType = "error"
)

// Error describes a contained evaluation failure.
// Stacktrace is populated for unexpected internal failures only; validated
// user-input problems carry a message and nothing else.
type Error struct {
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

// Result is the outcome envelope shared by every evaluator.
// Value is nil exactly when Type is ResultTypeError, and Error is non-nil
// only in that case. Use the constructors below to keep the invariant.
type Result struct {
	Type  ResultType `json:"type"`
	Value any        `json:"value"`
	Error *Error     `json:"error,omitempty"`
}

// BoolResult builds a bool-typed Result.
func BoolResult(v bool) Result {
	return Result{Type: ResultTypeBool, Value: v}
}

// NumberResult builds a number-typed Result.
func NumberResult(v float64) Result {
	return Result{Type: ResultTypeNumber, Value: v}
}

// TextResult builds a text-typed Result.
func TextResult(v string) Result {
	return Result{Type: ResultTypeText, Value: v}
}

// ValidationError builds an error Result for a user-actionable input problem.
// No stacktrace is attached.
func ValidationError(format string, args ...any) Result {
	return Result{
		Type:  ResultTypeError,
		Error: &Error{Message: fmt.Sprintf(format, args...)},
	}
}

// InternalError builds an error Result for an unexpected failure, attaching
// the current stack for debuggability.
func InternalError(message string, cause error) Result {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return Result{
		Type:  ResultTypeError,
		Error: &Error{Message: message, Stacktrace: string(debug.Stack())},
	}
}

// ErrorResult builds an error Result with an explicit message and stacktrace.
func ErrorResult(message, stacktrace string) Result {
	return Result{
		Type:  ResultTypeError,
		Error: &Error{Message: message, Stacktrace: stacktrace},
	}
}

// IsError reports whether the result carries an error.
func (r Result) IsError() bool {
	return r.Type == ResultTypeError
}

// EvalInputs carries the arguments of one evaluation call.
//
// Fields usage conventions:
//   - Inputs:       the original inputs given to the scored application
//   - Output:       the produced output; a string for most evaluators, a nested
//     trace map for the RAG evaluators
//   - DataPoint:    the reference example, including the correct answer
//   - AppParams:    the scored application's configuration (prompts etc.)
//   - Settings:     evaluator-specific settings keys
//   - ProviderKeys: per-call credentials for external model providers
type EvalInputs struct {
	Inputs       map[string]any
	Output       any
	DataPoint    map[string]any
	AppParams    map[string]any
	Settings     map[string]any
	ProviderKeys map[string]string
}

// OutputString returns the output as a string, or false when the evaluation
// was handed a non-string output.
func (in EvalInputs) OutputString() (string, bool) {
	s, ok := in.Output.(string)
	return s, ok
}

// Evaluator scores one output against reference data.
// Implementations contain their own failures: Evaluate returns an error
// Result instead of propagating an error or panicking.
type Evaluator interface {
	Evaluate(ctx context.Context, in EvalInputs) Result
}

// LLMGenerator generates a chat completion from a system and user message.
// This interface must be implemented by library consumers; OpenAI and Gemini
// implementations are provided in the openai and gemini subpackages.
type LLMGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Embedder generates vector embeddings for text.
// Vectors are expected to be L2-normalized so that a dot product is a cosine
// similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// GeneratorFactory builds an LLMGenerator from a per-call provider key.
type GeneratorFactory func(apiKey string) LLMGenerator

// EmbedderFactory builds an Embedder from a per-call provider key.
type EmbedderFactory func(apiKey string) Embedder

// RAGScorer is the external retrieval-augmented-generation scoring
// collaborator. It receives the answer, the question and the retrieved
// context extracted from the trace and returns a score in [0,1].
type RAGScorer interface {
	Score(ctx context.Context, output, input, context any) (float64, error)
}

// CodeRunArgs is the argument bundle forwarded to the sandboxed code
// execution collaborator.
type CodeRunArgs struct {
	AppParams     map[string]any
	Inputs        map[string]any
	Output        any
	CorrectAnswer any
	Code          string
	DataPoint     map[string]any
}

// CodeRunner executes user-supplied scoring code in isolation and returns a
// numeric score. Isolation is the collaborator's responsibility.
type CodeRunner interface {
	Run(ctx context.Context, args CodeRunArgs) (float64, error)
}

// ModerationCategory represents a safety category with confidence score.
type ModerationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ModerationResult represents the result of content moderation.
type ModerationResult struct {
	Categories []ModerationCategory `json:"categories"`
}

// ModerationProvider analyzes content for safety.
// A Google Cloud Natural Language implementation is provided in the gemini
// subpackage.
type ModerationProvider interface {
	Moderate(ctx context.Context, content string) (*ModerationResult, error)
}
