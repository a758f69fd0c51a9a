package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiJudge assesses translations with the Gemini API
type GeminiJudge struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGemini creates a Gemini judge. The API client is created on first use.
func NewGemini(cfg Config) *GeminiJudge {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiJudge{apiKey: cfg.APIKey, model: model}
}

// Name returns the provider name
func (j *GeminiJudge) Name() string {
	return "gemini"
}

func (j *GeminiJudge) connect(ctx context.Context) (*genai.Client, error) {
	if j.apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if j.client != nil {
		return j.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  j.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	j.client = client
	return client, nil
}

// Assess asks the model for a verdict
func (j *GeminiJudge) Assess(ctx context.Context, req Request) (Verdict, error) {
	client, err := j.connect(ctx)
	if err != nil {
		return Verdict{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, j.model, genai.Text(UserPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.1),
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("Gemini API error: %w", err)
	}

	content := resp.Text()
	if strings.TrimSpace(content) == "" {
		return Verdict{}, fmt.Errorf("no verdict returned")
	}
	return ParseVerdict(content)
}

// ListModels lists the models offered to the API key
func (j *GeminiJudge) ListModels(ctx context.Context) ([]string, error) {
	client, err := j.connect(ctx)
	if err != nil {
		return nil, err
	}

	page, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var names []string
	for _, m := range page.Items {
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	sort.Strings(names)
	return names, nil
}
