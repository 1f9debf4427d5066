package goeval

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sort"

	"go.uber.org/zap"

	"github.com/evalforge/goeval/api"
	"github.com/evalforge/goeval/customcode"
	"github.com/evalforge/goeval/embedding"
	"github.com/evalforge/goeval/heuristic"
	"github.com/evalforge/goeval/llmjudge"
	"github.com/evalforge/goeval/openai"
	"github.com/evalforge/goeval/rag"
	"github.com/evalforge/goeval/webhook"
)

// Evaluator keys recognized by the engine.
const (
	EvaluatorExactMatch          = "auto_exact_match"
	EvaluatorRegexTest           = "auto_regex_test"
	EvaluatorFieldMatchTest      = "field_match_test"
	EvaluatorWebhookTest         = "auto_webhook_test"
	EvaluatorCustomCodeRun       = "auto_custom_code_run"
	EvaluatorAICritique          = "auto_ai_critique"
	EvaluatorStartsWith          = "auto_starts_with"
	EvaluatorEndsWith            = "auto_ends_with"
	EvaluatorContains            = "auto_contains"
	EvaluatorContainsAny         = "auto_contains_any"
	EvaluatorContainsAll         = "auto_contains_all"
	EvaluatorContainsJSON        = "auto_contains_json"
	EvaluatorJSONDiff            = "auto_json_diff"
	EvaluatorSemanticSimilarity  = "auto_semantic_similarity"
	EvaluatorLevenshteinDistance = "auto_levenshtein_distance"
	EvaluatorSimilarityMatch     = "auto_similarity_match"
	EvaluatorModeration          = "auto_moderation"
	EvaluatorRAGFaithfulness     = "rag_faithfulness"
	EvaluatorRAGContextRelevancy = "rag_context_relevancy"
)

// Engine maps evaluator keys to scoring strategies and applies the uniform
// invocation contract. The registry is built once in New and never mutated,
// so an Engine is safe for arbitrarily many concurrent Evaluate calls.
type Engine struct {
	evaluators map[string]api.Evaluator
	logger     *zap.SugaredLogger
}

// EngineOptions configures Engine creation.
type EngineOptions struct {
	generatorFactory api.GeneratorFactory
	embedderFactory  api.EmbedderFactory
	faithfulness     api.RAGScorer
	contextRelevancy api.RAGScorer
	codeRunner       api.CodeRunner
	moderation       api.ModerationProvider
	httpClient       *http.Client
	logger           *zap.SugaredLogger
}

// WithGeneratorFactory sets the chat-completion factory used by AI critique.
func WithGeneratorFactory(factory api.GeneratorFactory) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.generatorFactory = factory
	}
}

// WithEmbedderFactory sets the embedder factory used by semantic similarity.
func WithEmbedderFactory(factory api.EmbedderFactory) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.embedderFactory = factory
	}
}

// WithRAGScorers sets the external faithfulness and context-relevancy
// scoring collaborators.
func WithRAGScorers(faithfulness, contextRelevancy api.RAGScorer) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.faithfulness = faithfulness
		opts.contextRelevancy = contextRelevancy
	}
}

// WithCodeRunner sets the sandboxed code execution collaborator.
func WithCodeRunner(runner api.CodeRunner) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.codeRunner = runner
	}
}

// WithModerationProvider sets the content-safety provider.
func WithModerationProvider(provider api.ModerationProvider) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.moderation = provider
	}
}

// WithHTTPClient sets the client used by the webhook evaluator.
func WithHTTPClient(client *http.Client) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.httpClient = client
	}
}

// WithLogger sets the engine's logger. The default is a nop logger.
func WithLogger(logger *zap.SugaredLogger) func(*EngineOptions) {
	return func(opts *EngineOptions) {
		opts.logger = logger
	}
}

// New creates an Engine with the full evaluator registry. External-scorer
// evaluators whose collaborator is left unset stay registered and return a
// validation error when invoked.
func New(optFns ...func(*EngineOptions)) *Engine {
	opts := EngineOptions{
		generatorFactory: openai.GeneratorFor,
		embedderFactory:  openai.EmbedderFor,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop().Sugar()
	}

	return &Engine{
		logger: opts.logger,
		evaluators: map[string]api.Evaluator{
			EvaluatorExactMatch:          heuristic.ExactMatch(),
			EvaluatorRegexTest:           heuristic.RegexTest(),
			EvaluatorFieldMatchTest:      heuristic.FieldMatch(),
			EvaluatorStartsWith:          heuristic.StartsWith(),
			EvaluatorEndsWith:            heuristic.EndsWith(),
			EvaluatorContains:            heuristic.Contains(),
			EvaluatorContainsAny:         heuristic.ContainsAny(),
			EvaluatorContainsAll:         heuristic.ContainsAll(),
			EvaluatorContainsJSON:        heuristic.ContainsJSON(),
			EvaluatorJSONDiff:            heuristic.JSONDiff(),
			EvaluatorLevenshteinDistance: heuristic.LevenshteinDistance(),
			EvaluatorSimilarityMatch:     heuristic.SimilarityMatch(),
			EvaluatorSemanticSimilarity:  embedding.SemanticSimilarity(opts.embedderFactory),
			EvaluatorAICritique:          llmjudge.AICritique(opts.generatorFactory),
			EvaluatorModeration:          llmjudge.Moderation(opts.moderation),
			EvaluatorWebhookTest:         webhook.Scorer(opts.httpClient),
			EvaluatorCustomCodeRun:       customcode.Run(opts.codeRunner),
			EvaluatorRAGFaithfulness:     rag.Faithfulness(opts.faithfulness),
			EvaluatorRAGContextRelevancy: rag.ContextRelevancy(opts.contextRelevancy),
		},
	}
}

// Evaluate resolves the evaluator key and invokes the strategy. An unknown
// key, like every other failure mode, comes back as an error Result; no
// failure propagates past this boundary.
func (e *Engine) Evaluate(ctx context.Context, evaluatorKey string, in api.EvalInputs) api.Result {
	evaluator, ok := e.evaluators[evaluatorKey]
	if !ok {
		return api.ValidationError("Evaluation method '%s' not found.", evaluatorKey)
	}

	result := e.invoke(ctx, evaluatorKey, evaluator, in)
	if result.IsError() {
		e.logger.Debugw("evaluation returned error result",
			"evaluator", evaluatorKey,
			"message", result.Error.Message,
		)
	}
	return result
}

// invoke adds the outer containment layer: strategies contain their own
// failures, but a defect in a strategy's error handling must still not
// escape as a panic.
func (e *Engine) invoke(ctx context.Context, evaluatorKey string, evaluator api.Evaluator, in api.EvalInputs) (result api.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("evaluator panicked", "evaluator", evaluatorKey, "panic", r)
			result = api.ErrorResult(
				fmt.Sprintf("error occurred while running %s evaluation: %v", evaluatorKey, r),
				string(debug.Stack()),
			)
		}
	}()
	return evaluator.Evaluate(ctx, in)
}

// Evaluators returns the sorted list of registered evaluator keys.
func (e *Engine) Evaluators() []string {
	keys := make([]string, 0, len(e.evaluators))
	for key := range e.evaluators {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
