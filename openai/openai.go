// Package openai implements the engine's generator and embedder interfaces
// on the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/evalforge/goeval/api"
)

const (
	defaultChatModel      = openai.ChatModelGPT3_5Turbo
	defaultEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

	// judgeTemperature is the fixed sampling temperature used for critique
	// completions.
	judgeTemperature = 0.8
)

// Options configures client construction.
type Options struct {
	model      string
	httpClient *http.Client
}

// WithModel overrides the default model name.
func WithModel(model string) func(*Options) {
	return func(opts *Options) {
		opts.model = model
	}
}

// WithHTTPClient sets the HTTP client used for API calls, mainly for
// record/replay in tests.
func WithHTTPClient(client *http.Client) func(*Options) {
	return func(opts *Options) {
		opts.httpClient = client
	}
}

func buildClient(apiKey string, opts Options) openai.Client {
	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.httpClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(opts.httpClient))
	}
	return openai.NewClient(requestOpts...)
}

// Generator produces chat completions for the AI-critique evaluator.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a Generator from a per-call API key.
func NewGenerator(apiKey string, optFns ...func(*Options)) *Generator {
	opts := Options{model: defaultChatModel}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: buildClient(apiKey, opts), model: opts.model}
}

// Generate implements api.LLMGenerator.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(judgeTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embedder produces embedding vectors for the semantic-similarity evaluator.
type Embedder struct {
	client openai.Client
	model  string
}

// NewEmbedder creates an Embedder from a per-call API key.
func NewEmbedder(apiKey string, optFns ...func(*Options)) *Embedder {
	opts := Options{model: defaultEmbeddingModel}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{client: buildClient(apiKey, opts), model: opts.model}
}

// Embed implements api.Embedder. OpenAI embedding vectors come back
// L2-normalized, so dot products over them are cosine similarities.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	if len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding vector")
	}
	return resp.Data[0].Embedding, nil
}

// GeneratorFor is an api.GeneratorFactory building a default Generator.
func GeneratorFor(apiKey string) api.LLMGenerator {
	return NewGenerator(apiKey)
}

// EmbedderFor is an api.EmbedderFactory building a default Embedder.
func EmbedderFor(apiKey string) api.Embedder {
	return NewEmbedder(apiKey)
}

var (
	_ api.LLMGenerator     = (*Generator)(nil)
	_ api.Embedder         = (*Embedder)(nil)
	_ api.GeneratorFactory = GeneratorFor
	_ api.EmbedderFactory  = EmbedderFor
)
