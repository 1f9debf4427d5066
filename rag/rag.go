// Package rag hosts the retrieval-augmented-generation evaluators. They
// resolve the question, answer and contexts fields out of the scored
// application's trace and delegate the actual metric to an external
// RAG-scoring collaborator.
package rag

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/evalforge/goeval/api"
	"github.com/evalforge/goeval/trace"
)

// Faithfulness returns an evaluator measuring whether the answer is grounded
// in the retrieved contexts.
func Faithfulness(scorer api.RAGScorer) api.Evaluator {
	return &ragEvaluator{name: "RAG faithfulness", scorer: scorer}
}

// ContextRelevancy returns an evaluator measuring whether the retrieved
// contexts are relevant to the question.
func ContextRelevancy(scorer api.RAGScorer) api.Evaluator {
	return &ragEvaluator{name: "RAG context relevancy", scorer: scorer}
}

type ragEvaluator struct {
	name   string
	scorer api.RAGScorer
}

// requiredKeys are the user-key settings naming the trace fields to extract.
var requiredKeys = []string{"question_key", "answer_key", "contexts_key"}

func (e *ragEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	if e.scorer == nil {
		return api.ValidationError("no RAG scorer is configured for %s", e.name)
	}

	// The output of a RAG evaluation is the recorded trace, not a flat string.
	spans, ok := in.Output.(map[string]any)
	if !ok {
		return api.ValidationError("%s requires a trace-shaped output", e.name)
	}

	var invalid *multierror.Error
	fieldNames := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		name := api.UserKey(in.Settings, key)
		if name == "" {
			invalid = multierror.Append(invalid, fmt.Errorf("missing required configuration key '%s'", key))
			continue
		}
		fieldNames[key] = name
	}
	if err := invalid.ErrorOrNil(); err != nil {
		return api.ValidationError("%v; please check your settings and try again", err)
	}

	values := make(map[string]any, len(requiredKeys))
	for _, key := range requiredKeys {
		value, found := trace.Extract(spans, fieldNames[key])
		if !found {
			invalid = multierror.Append(invalid, fmt.Errorf("trace field '%s' (from '%s') not found", fieldNames[key], key))
			continue
		}
		values[key] = value
	}
	if err := invalid.ErrorOrNil(); err != nil {
		return api.ValidationError("%v; please check your settings and try again", err)
	}

	score, err := e.scorer.Score(ctx, values["answer_key"], values["question_key"], values["contexts_key"])
	if err != nil {
		return api.InternalError(fmt.Sprintf("error during %s evaluation", e.name), err)
	}

	return api.NumberResult(score)
}
