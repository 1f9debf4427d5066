package gemini

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"

	"github.com/evalforge/goeval/api"
)

// categoryNames maps the moderateText display names that contain punctuation
// to the stable names surfaced in moderation results. Single-word categories
// (Toxic, Violent, Health, ...) pass through unchanged.
var categoryNames = map[string]string{
	"Death, Harm & Tragedy": "DeathHarmTragedy",
	"Firearms & Weapons":    "FirearmsWeapons",
	"Public Safety":         "PublicSafety",
	"Religion & Belief":     "ReligionBelief",
	"Illicit Drugs":         "IllicitDrugs",
	"War & Conflict":        "WarConflict",
}

func categoryName(apiName string) string {
	if name, ok := categoryNames[apiName]; ok {
		return name
	}
	return apiName
}

// GoogleLanguageProvider implements api.ModerationProvider on the Cloud
// Natural Language moderateText endpoint.
type GoogleLanguageProvider struct {
	client *language.Client
}

// NewGoogleLanguageProvider creates a provider from a preconfigured
// *language.Client; auth is the caller's responsibility.
func NewGoogleLanguageProvider(client *language.Client) api.ModerationProvider {
	return &GoogleLanguageProvider{client: client}
}

// Moderate implements api.ModerationProvider.
func (p *GoogleLanguageProvider) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("language client is required")
	}

	resp, err := p.client.ModerateText(ctx, &languagepb.ModerateTextRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: content,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("moderate text failed: %w", err)
	}

	categories := make([]api.ModerationCategory, 0, len(resp.ModerationCategories))
	for _, c := range resp.ModerationCategories {
		categories = append(categories, api.ModerationCategory{
			Name:       categoryName(c.Name),
			Confidence: float64(c.Confidence),
		})
	}

	return &api.ModerationResult{Categories: categories}, nil
}

var _ api.ModerationProvider = (*GoogleLanguageProvider)(nil)
