package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/lumen-console/internal/app/audio"
	"github.com/PabloGalante/lumen-console/internal/domain"
)

// GeminiClient implements domain.GenerativeClient and domain.DesignAdvisor
// against the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates the upstream client from an API key.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, domain.ErrUpstreamNotConfigured
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// mapRole translates timeline roles to the wire roles Gemini understands.
// Assistant messages were produced by the model; everything else (user,
// system-synthesized) is presented as user input.
func mapRole(role domain.Role) genai.Role {
	if role == domain.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Generate implements domain.GenerativeClient: history becomes the content
// list, audio rides along as an inline part with its fixed MIME type.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	var contents []*genai.Content
	for _, h := range req.History {
		contents = append(contents, genai.NewContentFromText(h.Text, mapRole(h.Role)))
	}

	var parts []*genai.Part
	if req.Prompt != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	if req.AudioBase64 != "" {
		data, err := audio.Decode(req.AudioBase64)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, audio.MIMEType))
	}
	if len(parts) > 0 {
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemInstruction(req), genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   2048,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	return &domain.GenerateResponse{Text: text, Raw: text}, nil
}

// suggestionSchema constrains the palette suggestion to the exact JSON shape
// the console expects back.
func suggestionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"accent":       {Type: genai.TypeString},
			"background":   {Type: genai.TypeString},
			"surface":      {Type: genai.TypeString},
			"cornerRadius": {Type: genai.TypeInteger},
			"density":      {Type: genai.TypeString},
			"fontScale":    {Type: genai.TypeNumber},
			"rationale":    {Type: genai.TypeString},
		},
		Required: []string{"accent", "background", "surface", "rationale"},
	}
}

// SuggestPalette implements domain.DesignAdvisor with a schema-constrained
// generation. An unparseable answer is an error; the design service decides
// what to fall back to.
func (g *GeminiClient) SuggestPalette(ctx context.Context, profile domain.DesignProfile) (*domain.DesignSuggestion, error) {
	prompt := fmt.Sprintf(
		"Suggest an evolved UI palette for a voice-assistant console.\n"+
			"Current profile: accent %s, background %s, surface %s, corner radius %d, density %s, font scale %.2f.\n"+
			"Stay legible on dark backgrounds and keep the change tasteful, not drastic.",
		profile.Accent, profile.Background, profile.Surface,
		profile.CornerRadius, profile.Density, profile.FontScale,
	)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionSchema(),
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini suggest palette: %w", err)
	}

	var suggestion domain.DesignSuggestion
	if err := json.Unmarshal([]byte(res.Text()), &suggestion); err != nil {
		return nil, fmt.Errorf("parsing palette suggestion: %w", err)
	}
	if suggestion.Accent == "" || suggestion.Background == "" {
		return nil, fmt.Errorf("palette suggestion is missing required colors")
	}

	return &suggestion, nil
}
