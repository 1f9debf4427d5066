// Package embedding scores semantic similarity between an output and the
// reference answer using an external embedding service.
package embedding

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/evalforge/goeval/api"
)

// ProviderKeyName is the provider-keys entry holding the embedding service
// credential.
const ProviderKeyName = "OPENAI_API_KEY"

// SemanticSimilarity returns an evaluator that embeds the output and the
// correct answer independently and returns their dot product as the score.
// Vectors are assumed L2-normalized by the provider, so the dot product is a
// cosine similarity.
//
// The two embedding calls have no ordering dependency and are issued
// concurrently. The factory receives the per-call credential; nothing is
// cached between evaluations.
func SemanticSimilarity(factory api.EmbedderFactory) api.Evaluator {
	return &semanticSimilarityEvaluator{factory: factory}
}

type semanticSimilarityEvaluator struct {
	factory api.EmbedderFactory
}

func (e *semanticSimilarityEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}
	expected, ok := answer.(string)
	if !ok {
		return api.ValidationError("correct answer must be a string for semantic similarity")
	}

	output, outputOK := in.OutputString()
	if !outputOK {
		return api.ValidationError("%v", api.ErrOutputNotString)
	}

	if e.factory == nil {
		return api.ValidationError("no embedder is configured for semantic similarity")
	}
	apiKey, ok := in.ProviderKeys[ProviderKeyName]
	if !ok || apiKey == "" {
		return api.ValidationError("missing provider key '%s'", ProviderKeyName)
	}
	embedder := e.factory(apiKey)

	var outputVector, expectedVector []float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var embedErr error
		outputVector, embedErr = embedder.Embed(gctx, output)
		return embedErr
	})
	g.Go(func() error {
		var embedErr error
		expectedVector, embedErr = embedder.Embed(gctx, expected)
		return embedErr
	})
	if err := g.Wait(); err != nil {
		return api.InternalError("error during semantic similarity embedding", err)
	}

	if len(outputVector) != len(expectedVector) {
		return api.InternalError("embedding dimensions differ between output and correct answer", nil)
	}

	var dot float64
	for i := range outputVector {
		dot += outputVector[i] * expectedVector[i]
	}

	return api.NumberResult(dot)
}
