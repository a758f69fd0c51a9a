package reviewer

import (
	"context"
	"fmt"
	"log/slog"

	"codeberg.org/snonux/turktranslate/internal/marketplace"
	"codeberg.org/snonux/turktranslate/internal/phrase"
	"codeberg.org/snonux/turktranslate/internal/question"
	"codeberg.org/snonux/turktranslate/internal/task"
)

const (
	FeedbackApproved = "good"
	FeedbackRejected = "poor quality"
)

// Submission is a new worker response waiting for a decision
type Submission struct {
	TaskID   string
	Language string
	Source   phrase.Phrase
	Response marketplace.Response
	Answer   task.Answer
	// Issues lists entity annotation problems of the answer
	Issues []string
}

// Decision is the verdict on a submission
type Decision struct {
	Accept   bool
	Feedback string
	Reason   string
}

// Decider decides whether a submission is accepted
type Decider interface {
	Decide(ctx context.Context, sub Submission) (Decision, error)
}

// DeciderFunc adapts a function to Decider
type DeciderFunc func(ctx context.Context, sub Submission) (Decision, error)

// Decide calls f
func (f DeciderFunc) Decide(ctx context.Context, sub Submission) (Decision, error) {
	return f(ctx, sub)
}

// Outcome is a reviewed response as reported to a Recorder
type Outcome struct {
	TaskID     string
	ResponseID string
	WorkerID   string
	PhraseID   string
	Language   string
	Accepted   bool
	// Finalized is true when the response was approved in an earlier run
	Finalized bool
	Text      string
	Reason    string
}

// Recorder receives every reviewed response
type Recorder interface {
	RecordDecision(ctx context.Context, o Outcome) error
}

// Reviewer reviews the responses of published tasks
type Reviewer struct {
	market   marketplace.Marketplace
	decider  Decider
	recorder Recorder
	logger   *slog.Logger
}

// New creates a reviewer. recorder may be nil.
func New(market marketplace.Marketplace, decider Decider, recorder Recorder, logger *slog.Logger) *Reviewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{
		market:   market,
		decider:  decider,
		recorder: recorder,
		logger:   logger,
	}
}

// Review returns the accepted answers of the task behind d
func (r *Reviewer) Review(ctx context.Context, d task.Descriptor) ([]task.Answer, error) {
	t, err := r.market.GetTask(ctx, d.HITId)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", d.HITId, err)
	}
	r.logger.Info("HIT status", "hit", d.HITId, "status", t.Status)

	source, lang, err := question.ParsePhrase(t.Question)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", d.HITId, err)
	}
	if source.ID != "" && source.ID != d.ID {
		r.logger.Warn("Task phrase differs from descriptor", "hit", d.HITId, "phrase", source.ID, "descriptor", d.ID)
	}
	r.logger.Info("Question phrase", "text", source.Text())

	responses, err := r.market.ListResponses(ctx, d.HITId)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses of task %s: %w", d.HITId, err)
	}
	r.logger.Info("Submitted assignments", "hit", d.HITId, "count", len(responses))

	var answers []task.Answer
	for _, resp := range responses {
		answer, accepted, err := r.reviewResponse(ctx, d, source, lang, resp)
		if err != nil {
			return answers, err
		}
		if accepted {
			answers = append(answers, answer)
		}
	}

	return answers, nil
}

func (r *Reviewer) reviewResponse(ctx context.Context, d task.Descriptor, source phrase.Phrase, lang string, resp marketplace.Response) (task.Answer, bool, error) {
	answer, err := question.ParseAnswer(resp.Answer)
	if err != nil {
		return task.Answer{}, false, fmt.Errorf("assignment %s: %w", resp.ID, err)
	}
	if answer.ID == "" {
		answer.ID = d.ID
	}

	r.logger.Info("Worker submitted assignment", "worker", resp.WorkerID, "assignment", resp.ID)
	r.logger.Info("Translation", "text", answer.Text(), "status", resp.Status)

	outcome := Outcome{
		TaskID:     d.HITId,
		ResponseID: resp.ID,
		WorkerID:   resp.WorkerID,
		PhraseID:   answer.ID,
		Language:   lang,
		Text:       answer.Text(),
	}

	switch resp.Status {
	case marketplace.StatusApproved:
		outcome.Accepted = true
		outcome.Finalized = true
		r.record(ctx, outcome)
		return answer, true, nil

	case marketplace.StatusSubmitted:
		sub := Submission{
			TaskID:   d.HITId,
			Language: lang,
			Source:   source,
			Response: resp,
			Answer:   answer,
			Issues:   phrase.EntityIssues(source.Data, answer.Data),
		}

		decision, err := r.decider.Decide(ctx, sub)
		if err != nil {
			return task.Answer{}, false, fmt.Errorf("failed to decide on assignment %s: %w", resp.ID, err)
		}
		outcome.Reason = decision.Reason

		if decision.Accept {
			r.logger.Info("Approving assignment", "assignment", resp.ID)
			if err := r.market.Finalize(ctx, resp.ID, feedback(decision.Feedback, FeedbackApproved)); err != nil {
				return task.Answer{}, false, fmt.Errorf("failed to approve assignment %s: %w", resp.ID, err)
			}
			outcome.Accepted = true
			r.record(ctx, outcome)
			return answer, true, nil
		}

		r.logger.Info("Rejecting assignment", "assignment", resp.ID, "reason", decision.Reason)
		if err := r.market.Reject(ctx, resp.ID, feedback(decision.Feedback, FeedbackRejected)); err != nil {
			return task.Answer{}, false, fmt.Errorf("failed to reject assignment %s: %w", resp.ID, err)
		}
		r.record(ctx, outcome)
		return task.Answer{}, false, nil

	default:
		r.logger.Debug("Skipping assignment", "assignment", resp.ID, "status", resp.Status)
		return task.Answer{}, false, nil
	}
}

func (r *Reviewer) record(ctx context.Context, o Outcome) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordDecision(ctx, o); err != nil {
		r.logger.Warn("Failed to record decision", "assignment", o.ResponseID, "error", err)
	}
}

func feedback(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}
