// Package webhook delegates scoring to a remote HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/evalforge/goeval/api"
)

type webhookSettings struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// request is the JSON body POSTed to the configured endpoint.
type request struct {
	CorrectAnswer any            `json:"correct_answer"`
	Output        any            `json:"output"`
	Inputs        map[string]any `json:"inputs"`
}

// response is the shape the endpoint must answer with.
type response struct {
	Score *float64 `json:"score"`
}

// Scorer returns an evaluator that POSTs {correct_answer, output, inputs} to
// the webhook_url setting and reads back {score} in [0,1]. Transport
// failures, malformed response JSON and contract violations (missing or
// out-of-range score) surface as distinct classified error Results.
//
// The client is injectable for testing; no timeout or retry policy is
// imposed here. A nil client falls back to http.DefaultClient.
func Scorer(client *http.Client) api.Evaluator {
	if client == nil {
		client = http.DefaultClient
	}
	return &webhookEvaluator{client: client}
}

type webhookEvaluator struct {
	client *http.Client
}

func (e *webhookEvaluator) Evaluate(ctx context.Context, in api.EvalInputs) api.Result {
	answer, err := api.CorrectAnswer(in.DataPoint, in.Settings)
	if err != nil {
		return api.ValidationError("%v", err)
	}

	var settings webhookSettings
	if err := api.DecodeSettings(in.Settings, &settings); err != nil {
		return api.ValidationError("%v", err)
	}
	if settings.WebhookURL == "" {
		return api.ValidationError("missing required settings key 'webhook_url'")
	}

	body, err := json.Marshal(request{
		CorrectAnswer: answer,
		Output:        in.Output,
		Inputs:        in.Inputs,
	})
	if err != nil {
		return api.InternalError("[webhook evaluation] error serializing request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return api.ValidationError("[webhook evaluation] invalid webhook URL: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return api.InternalError(fmt.Sprintf("[webhook evaluation] HTTP - %v", err), nil)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.InternalError(fmt.Sprintf("[webhook evaluation] HTTP - reading response: %v", err), nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return api.InternalError(fmt.Sprintf("[webhook evaluation] HTTP - webhook returned status %d", resp.StatusCode), nil)
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return api.InternalError(fmt.Sprintf("[webhook evaluation] JSON - %v", err), nil)
	}

	if decoded.Score == nil {
		return api.ValidationError("[webhook evaluation] webhook did not return a score")
	}
	score := *decoded.Score
	if score < 0 || score > 1 {
		return api.ValidationError("[webhook evaluation] webhook returned an invalid score; score must be between 0 and 1")
	}

	return api.NumberResult(score)
}
