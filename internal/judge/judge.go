package judge

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Request is a translation to assess
type Request struct {
	Source      string
	Translation string
	Language    string
	Issues      []string
}

// Verdict is a judge's assessment
type Verdict struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

// Judge assesses worker translations
type Judge interface {
	// Name returns the provider name
	Name() string

	// Assess judges a single translation
	Assess(ctx context.Context, req Request) (Verdict, error)

	// ListModels lists the models available to the provider
	ListModels(ctx context.Context) ([]string, error)
}

// Config selects and configures a judge provider
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Providers lists the supported provider names
var Providers = []string{"openai", "gemini", "ollama"}

// New creates the judge named by cfg.Provider
func New(cfg Config) (Judge, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAI(cfg), nil
	case "gemini":
		return NewGemini(cfg), nil
	case "ollama":
		return NewOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown judge provider: %s (use one of %s)", cfg.Provider, strings.Join(Providers, ", "))
	}
}
