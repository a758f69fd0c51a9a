package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.1"
)

// OllamaJudge assesses translations with a local Ollama server
type OllamaJudge struct {
	baseURL string
	model   string
	http    *resty.Client
}

// NewOllama creates an Ollama judge
func NewOllama(cfg Config) *OllamaJudge {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaJudge{
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		http:    resty.New().SetTimeout(cfg.Timeout),
	}
}

// Name returns the provider name
func (j *OllamaJudge) Name() string {
	return "ollama"
}

// Assess asks the local model for a verdict
func (j *OllamaJudge) Assess(ctx context.Context, req Request) (Verdict, error) {
	body := map[string]any{
		"model": j.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": UserPrompt(req)},
		},
		"stream":  false,
		"format":  "json",
		"options": map[string]any{"temperature": 0.1},
	}

	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	r, err := j.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(j.baseURL + "/api/chat")
	if err != nil {
		return Verdict{}, fmt.Errorf("ollama chat: %w", err)
	}
	if r.IsError() {
		return Verdict{}, fmt.Errorf("ollama chat: %s; body: %s", r.Status(), r.String())
	}

	return ParseVerdict(resp.Message.Content)
}

// ListModels lists the locally installed models
func (j *OllamaJudge) ListModels(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	r, err := j.http.R().SetContext(ctx).SetResult(&resp).Get(j.baseURL + "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("ollama list models: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), r.String())
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
