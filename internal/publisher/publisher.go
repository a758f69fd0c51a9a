// Package publisher creates translation tasks on the marketplace: one batch
// per target language and one task per phrase, each pointing workers at the
// translation page through a callback URL.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/snonux/turktranslate/internal"
	"codeberg.org/snonux/turktranslate/internal/marketplace"
	"codeberg.org/snonux/turktranslate/internal/phrase"
	"codeberg.org/snonux/turktranslate/internal/question"
	"codeberg.org/snonux/turktranslate/internal/task"
)

// DefaultTaskURL is the translation page workers open
const DefaultTaskURL = "https://ywkim.github.io/turk/index.html"

// ErrBatchMismatch is returned when a created task lands in another batch
var ErrBatchMismatch = errors.New("task created in unexpected batch")

// Config holds the batch and task parameters
type Config struct {
	TaskURL            string
	PreviewURL         string
	Reward             string
	Keywords           string
	Lifetime           time.Duration
	AssignmentDuration time.Duration
	AutoApprovalDelay  time.Duration
	MaxAssignments     int
	MinApprovalRate    int
	FrameHeight        int
	// MaxTasks caps the phrases published per language, 0 publishes all
	MaxTasks int
}

// DefaultConfig returns the parameters used for conversation sentences
func DefaultConfig() Config {
	return Config{
		TaskURL:            DefaultTaskURL,
		Keywords:           "translation, chatbot, v14",
		Lifetime:           24 * time.Hour,
		AssignmentDuration: 10 * time.Minute,
		AutoApprovalDelay:  time.Minute,
		MaxAssignments:     2,
		MinApprovalRate:    80,
		FrameHeight:        question.DefaultFrameHeight,
	}
}

// Recorder receives every created task
type Recorder interface {
	RecordTask(ctx context.Context, lang, batchID string, d task.Descriptor) error
}

// Publisher publishes phrases to the marketplace
type Publisher struct {
	market   marketplace.Marketplace
	config   Config
	recorder Recorder
	logger   *slog.Logger
}

// New creates a publisher. recorder may be nil.
func New(market marketplace.Marketplace, config Config, recorder Recorder, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		market:   market,
		config:   config,
		recorder: recorder,
		logger:   logger,
	}
}

// BatchSpec returns the batch metadata for a language
func (p *Publisher) BatchSpec(lang internal.Language) marketplace.BatchSpec {
	return marketplace.BatchSpec{
		Title:              fmt.Sprintf("English to %s Conversation Sentence Translation", lang.Name),
		Description:        fmt.Sprintf("This HIT will require you to translate from English conversation sentences into %s.", lang.Name),
		Keywords:           p.config.Keywords,
		Reward:             p.config.Reward,
		AssignmentDuration: p.config.AssignmentDuration,
		AutoApprovalDelay:  p.config.AutoApprovalDelay,
		MinApprovalRate:    p.config.MinApprovalRate,
	}
}

// PublishLanguage creates a batch for lang and one task per phrase.
// The first failing call aborts the remaining phrases of the language.
func (p *Publisher) PublishLanguage(ctx context.Context, phrases []phrase.Phrase, lang internal.Language) ([]task.Descriptor, error) {
	if p.config.MaxTasks > 0 && len(phrases) > p.config.MaxTasks {
		p.logger.Info("Capping batch size", "language", lang.Code, "phrases", len(phrases), "max", p.config.MaxTasks)
		phrases = phrases[:p.config.MaxTasks]
	}

	batchID, err := p.market.CreateBatch(ctx, p.BatchSpec(lang))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s batch: %w", lang.Name, err)
	}
	p.logger.Debug("Created batch", "language", lang.Code, "batch", batchID)

	descriptors := make([]task.Descriptor, 0, len(phrases))
	for _, ph := range phrases {
		d, err := p.publishPhrase(ctx, batchID, ph, lang)
		if err != nil {
			return descriptors, err
		}
		descriptors = append(descriptors, d)
	}

	if p.config.PreviewURL != "" {
		p.logger.Info("You can work the HITs here", "language", lang.Name, "url", PreviewLink(p.config.PreviewURL, batchID))
	}

	return descriptors, nil
}

func (p *Publisher) publishPhrase(ctx context.Context, batchID string, ph phrase.Phrase, lang internal.Language) (task.Descriptor, error) {
	externalURL, err := question.BuildURL(p.config.TaskURL, ph, lang.Code)
	if err != nil {
		return task.Descriptor{}, err
	}

	doc, err := question.ExternalQuestion(externalURL, p.config.FrameHeight)
	if err != nil {
		return task.Descriptor{}, err
	}

	created, err := p.market.CreateTask(ctx, batchID, marketplace.TaskSpec{
		Question:       doc,
		MaxAssignments: p.config.MaxAssignments,
		Lifetime:       p.config.Lifetime,
	})
	if err != nil {
		return task.Descriptor{}, fmt.Errorf("failed to create task for phrase %s: %w", ph.ID, err)
	}
	if created.BatchID != batchID {
		return task.Descriptor{}, fmt.Errorf("task %s for phrase %s: got batch %s, want %s: %w",
			created.ID, ph.ID, created.BatchID, batchID, ErrBatchMismatch)
	}

	d := task.Descriptor{ID: ph.ID, HITId: created.ID}
	p.logger.Info("Created HIT", "hit", created.ID, "phrase", ph.ID, "language", lang.Code)

	if p.recorder != nil {
		if err := p.recorder.RecordTask(ctx, lang.Code, batchID, d); err != nil {
			p.logger.Warn("Failed to record task", "hit", created.ID, "error", err)
		}
	}

	return d, nil
}

// PreviewLink returns the worker preview page of a batch
func PreviewLink(previewURL, batchID string) string {
	return previewURL + "?groupId=" + batchID
}
