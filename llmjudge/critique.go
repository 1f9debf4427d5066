// Package llmjudge contains evaluators that delegate judgment to an external
// model: free-form AI critique and content-safety moderation.
package llmjudge

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/evalforge/goeval/api"
)

// ProviderKeyName is the provider-keys entry holding the chat-completion
// service credential.
const ProviderKeyName = "OPENAI_API_KEY"

type critiqueSettings struct {
	PromptTemplate string `mapstructure:"prompt_template"`
}

// AICritique returns an evaluator that asks an external model to judge the
// output. The user-supplied prompt template becomes the system message; the
// user message is the serialized bundle of the app's prompt, the output, the
// correct answer and every input field. The completion is returned as a text
// Result, whitespace-trimmed but otherwise unparsed; downstream consumers
// judge it.
func AICritique(factory api.GeneratorFactory) api.Evaluator {
	return &critiqueEvaluator{factory: factory}
}

type critiqueEvaluator struct {
	factory api.GeneratorFactory
}

func (e *critiqueEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	var settings critiqueSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}
	if settings.PromptTemplate == "" {
		return api.ValidationError("missing required settings key 'prompt_template'")
	}

	if e.factory == nil {
		return api.ValidationError("no LLM generator is configured for AI critique")
	}
	apiKey, ok := in.ProviderKeys[ProviderKeyName]
	if !ok || apiKey == "" {
		return api.ValidationError("missing provider key '%s'", ProviderKeyName)
	}

	promptUser, _ := in.AppParams["prompt_user"].(string)
	runArgs := map[string]any{
		"llm_app_prompt_template": promptUser,
		"variant_output":          in.Output,
		"correct_answer":          answer,
	}
	for key, value := range in.Inputs {
		runArgs[key] = value
	}

	// json.Marshal sorts map keys, keeping the user message deterministic.
	serialized, err := json.Marshal(runArgs)
	if err != nil {
		return api.InternalError("error serializing AI critique arguments", err)
	}

	generator := e.factory(apiKey)
	completion, err := generator.Generate(ctx, settings.PromptTemplate, string(serialized))
	if err != nil {
		return api.InternalError(api.ErrLLMGenerationFailed.Error(), err)
	}

	return api.TextResult(strings.TrimSpace(completion))
}
