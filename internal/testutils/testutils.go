// Package testutils provides record/replay HTTP clients for provider
// integration tests.
package testutils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/areknoster/hypert"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"

	"github.com/evalforge/goeval/openai"
)

// ShouldUpdate reports whether tests should re-record cached HTTP responses.
// Set UPDATE_TESTS=true to record against the live APIs.
func ShouldUpdate() bool {
	return os.Getenv("UPDATE_TESTS") == "true"
}

// HypertClientConfig configures hypert client creation
type HypertClientConfig struct {
	TestDataDir string
	SubDir      string // Optional subdirectory for organizing test data
}

func newReplayClient(t *testing.T, config HypertClientConfig) *http.Client {
	testDataDir := config.TestDataDir
	if config.SubDir != "" {
		testDataDir = filepath.Join(testDataDir, config.SubDir)
	}

	namingScheme, err := hypert.NewContentHashNamingScheme(testDataDir)
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}

	return hypert.TestClient(t, ShouldUpdate(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.QueryParamsValidator(),
			hypert.MethodValidator(),
		)),
	)
}

// NewHypertClient creates a record/replay client for Google APIs. In record
// mode the client is wrapped with OAuth2 application default credentials.
func NewHypertClient(t *testing.T, config HypertClientConfig) *http.Client {
	hypertClient := newReplayClient(t, config)

	if ShouldUpdate() {
		ctx := context.Background()
		creds, err := google.FindDefaultCredentials(ctx)
		if err != nil {
			t.Fatalf("failed to get default credentials: %v", err)
		}
		return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hypertClient), creds.TokenSource)
	}

	return hypertClient
}

// quotaProjectTransport wraps an http.RoundTripper to add quota project header
type quotaProjectTransport struct {
	base      http.RoundTripper
	projectID string
}

func (t *quotaProjectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Goog-User-Project", t.projectID)
	return t.base.RoundTrip(req)
}

// NewAuthenticatedHypertClient creates a record/replay client with OAuth2
// authentication and a quota project header, for Google Cloud APIs that
// require the quota project to be set.
func NewAuthenticatedHypertClient(t *testing.T, config HypertClientConfig, projectID string) *http.Client {
	hypertClient := newReplayClient(t, config)

	if ShouldUpdate() {
		ctx := context.Background()
		creds, err := google.FindDefaultCredentials(ctx)
		if err != nil {
			t.Fatalf("failed to get default credentials: %v", err)
		}

		oauth2Client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hypertClient), creds.TokenSource)

		return &http.Client{
			Transport: &quotaProjectTransport{
				base:      oauth2Client.Transport,
				projectID: projectID,
			},
			Timeout: oauth2Client.Timeout,
		}
	}

	return hypertClient
}

// OpenAIKey returns the per-call credential used in OpenAI integration tests.
// In record mode it must be set in the environment; in replay mode a
// placeholder is enough because requests never leave the cache.
func OpenAIKey(t *testing.T) string {
	if !ShouldUpdate() {
		return "test-key"
	}
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Fatal("OPENAI_API_KEY must be set when recording")
	}
	return key
}

// NewOpenAIGenerator creates an OpenAI generator backed by a record/replay
// client. The openai client adds its own auth header, so no OAuth2 wrapping
// is needed here.
func NewOpenAIGenerator(t *testing.T, subDir string) *openai.Generator {
	client := newReplayClient(t, HypertClientConfig{TestDataDir: "testdata", SubDir: subDir})
	return openai.NewGenerator(OpenAIKey(t), openai.WithHTTPClient(client))
}

// NewOpenAIEmbedder creates an OpenAI embedder backed by a record/replay
// client.
func NewOpenAIEmbedder(t *testing.T, subDir string) *openai.Embedder {
	client := newReplayClient(t, HypertClientConfig{TestDataDir: "testdata", SubDir: subDir})
	return openai.NewEmbedder(OpenAIKey(t), openai.WithHTTPClient(client))
}

// GeminiTestConfig configures Gemini client creation for tests
type GeminiTestConfig struct {
	Project  string
	Location string
	SubDir   string // Subdirectory for hypert test data
}

// DefaultGeminiTestConfig returns a default configuration for Gemini testing
func DefaultGeminiTestConfig(subDir string) GeminiTestConfig {
	return GeminiTestConfig{
		Project:  os.Getenv("GOOGLE_PROJECT_ID"),
		Location: os.Getenv("GOOGLE_REGION"),
		SubDir:   subDir,
	}
}

// NewGeminiClient creates a Gemini client for testing with hypert caching
func NewGeminiClient(t *testing.T, config GeminiTestConfig) *genai.Client {
	ctx := context.Background()

	hypertClient := NewHypertClient(t, HypertClientConfig{
		TestDataDir: "testdata",
		SubDir:      config.SubDir,
	})

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:    genai.BackendVertexAI,
		Project:    config.Project,
		Location:   config.Location,
		HTTPClient: hypertClient,
	})
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}

	return genaiClient
}
