package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIJudge assesses translations with the OpenAI chat API
type OpenAIJudge struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAI creates an OpenAI judge
func NewOpenAI(cfg Config) *OpenAIJudge {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIJudge{
		apiKey: cfg.APIKey,
		model:  model,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider name
func (j *OpenAIJudge) Name() string {
	return "openai"
}

// Assess asks the chat model for a verdict
func (j *OpenAIJudge) Assess(ctx context.Context, req Request) (Verdict, error) {
	if j.apiKey == "" {
		return Verdict{}, fmt.Errorf("OpenAI API key not found")
	}

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Verdict{}, fmt.Errorf("no verdict returned")
	}

	return ParseVerdict(resp.Choices[0].Message.Content)
}

// ListModels lists the chat models of the account
func (j *OpenAIJudge) ListModels(ctx context.Context) ([]string, error) {
	if j.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	models, err := j.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var names []string
	for _, m := range models.Models {
		if strings.Contains(m.ID, "gpt") {
			names = append(names, m.ID)
		}
	}
	sort.Strings(names)
	return names, nil
}
