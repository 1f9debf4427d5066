// Package gemini implements the engine's generator, embedder and moderation
// interfaces on Google APIs.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/evalforge/goeval/api"
)

// judgeTemperature matches the fixed sampling temperature used for critique
// completions across providers.
const judgeTemperature float32 = 0.8

// Generator wraps a genai.Client to implement the LLMGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.5-flash")
func NewGenerator(client *genai.Client, modelName string) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// Generate implements api.LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: user},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(judgeTemperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: system},
			},
		}
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		[]*genai.Content{content},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// GeneratorFor returns an api.GeneratorFactory bound to a preconfigured
// client and model. The per-call credential is unused here; genai clients
// carry their own auth.
func GeneratorFor(client *genai.Client, modelName string) api.GeneratorFactory {
	return func(string) api.LLMGenerator {
		return NewGenerator(client, modelName)
	}
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
