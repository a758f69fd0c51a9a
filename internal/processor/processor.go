package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"codeberg.org/snonux/turktranslate/internal"
	"codeberg.org/snonux/turktranslate/internal/archive"
	"codeberg.org/snonux/turktranslate/internal/cli"
	"codeberg.org/snonux/turktranslate/internal/journal"
	"codeberg.org/snonux/turktranslate/internal/judge"
	"codeberg.org/snonux/turktranslate/internal/logging"
	"codeberg.org/snonux/turktranslate/internal/marketplace"
	"codeberg.org/snonux/turktranslate/internal/phrase"
	"codeberg.org/snonux/turktranslate/internal/publisher"
	"codeberg.org/snonux/turktranslate/internal/reviewer"
	"codeberg.org/snonux/turktranslate/internal/task"
)

// Processor runs the publish and review workflows
type Processor struct {
	flags   *cli.Flags
	market  marketplace.Marketplace
	journal *journal.Journal
	judge   judge.Judge
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger
}

// NewProcessor connects to the marketplace and opens the journal
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	logger := logging.New(os.Stderr, logging.Level(flags.Verbose))

	market, err := marketplace.NewMTurk(ctx, marketplace.Config{
		Endpoint: cli.GetEndpoint(),
		Profile:  flags.Profile,
	})
	if err != nil {
		return nil, err
	}

	var j *journal.Journal
	if !flags.NoJournal {
		j, err = journal.Open(flags.Journal)
		if err != nil {
			logger.Warn("Journal disabled", "error", err)
			j = nil
		}
	}

	return New(flags, market, j, logger), nil
}

// New creates a processor from its parts. j may be nil.
func New(flags *cli.Flags, market marketplace.Marketplace, j *journal.Journal, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		flags:   flags,
		market:  market,
		journal: j,
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  logger,
	}
}

// SetIO replaces the console used for prompts and summaries
func (p *Processor) SetIO(in io.Reader, out io.Writer) {
	p.in = in
	p.out = out
}

// SetJudge overrides the judge built from the flags
func (p *Processor) SetJudge(j judge.Judge) {
	p.judge = j
}

// Close releases the journal
func (p *Processor) Close() error {
	if p.journal == nil {
		return nil
	}
	return p.journal.Close()
}

// Publish creates tasks for every phrase of phraseFile in every selected
// language and writes one task file per language
func (p *Processor) Publish(ctx context.Context, phraseFile string) error {
	if err := cli.ValidatePublish(p.flags); err != nil {
		return err
	}
	langs, err := internal.ParseLanguages(p.flags.Languages)
	if err != nil {
		return err
	}

	phrases, err := phrase.ReadFile(phraseFile)
	if err != nil {
		return err
	}
	if err := phrase.Validate(phrases); err != nil {
		return fmt.Errorf("invalid phrases in %s: %w", phraseFile, err)
	}
	p.logger.Debug("Phrases loaded", "file", phraseFile, "count", len(phrases))

	balance, err := p.market.GetBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Account balance: $%s\n", balance)

	p.startRun(ctx, "publish", phraseFile)

	var recorder publisher.Recorder
	if p.journal != nil {
		recorder = p.journal
	}
	pub := publisher.New(p.market, p.publisherConfig(), recorder, p.logger)

	total := 0
	for _, lang := range langs {
		fmt.Fprintf(p.out, "\nPublishing %s tasks\n", lang.Name)

		descriptors, err := pub.PublishLanguage(ctx, phrases, lang)
		if err != nil {
			return fmt.Errorf("publishing %s stopped after %d tasks: %w", lang.Name, len(descriptors), err)
		}

		taskFile := task.TaskFilename(phraseFile, lang.Code)
		if err := p.writeOutput(taskFile, func() error { return task.WriteDescriptors(taskFile, descriptors) }); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "  %d tasks written to %s\n", len(descriptors), taskFile)
		total += len(descriptors)
	}

	fmt.Fprintf(p.out, "\n=== Publish Summary ===\n")
	fmt.Fprintf(p.out, "Phrases: %d\n", len(phrases))
	fmt.Fprintf(p.out, "Languages: %d\n", len(langs))
	fmt.Fprintf(p.out, "Tasks created: %d\n", total)
	fmt.Fprintf(p.out, "=======================\n")

	return nil
}

// Review reviews every task of taskFile and writes the accepted answers
func (p *Processor) Review(ctx context.Context, taskFile string) error {
	answerFile, err := task.AnswerFilename(taskFile)
	if err != nil {
		return err
	}
	descriptors, err := task.ReadDescriptors(taskFile)
	if err != nil {
		return err
	}

	decider, err := p.decider()
	if err != nil {
		return err
	}

	p.startRun(ctx, "review", taskFile)

	var recorder reviewer.Recorder
	if p.journal != nil {
		recorder = p.journal
	}
	rev := reviewer.New(p.market, decider, recorder, p.logger)

	answers := []task.Answer{}
	for i, d := range descriptors {
		fmt.Fprintf(p.out, "\nReviewing %d/%d: HIT %s (phrase %s)\n", i+1, len(descriptors), d.HITId, d.ID)

		accepted, err := rev.Review(ctx, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "  %d answers accepted\n", len(accepted))
		answers = append(answers, accepted...)
	}

	if err := p.writeOutput(answerFile, func() error { return task.WriteAnswers(answerFile, answers) }); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\n=== Review Summary ===\n")
	fmt.Fprintf(p.out, "Tasks: %d\n", len(descriptors))
	fmt.Fprintf(p.out, "Accepted answers: %d\n", len(answers))
	fmt.Fprintf(p.out, "Written to: %s\n", answerFile)
	fmt.Fprintf(p.out, "======================\n")

	return nil
}

// Balance prints the account balance
func (p *Processor) Balance(ctx context.Context) error {
	balance, err := p.market.GetBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Account balance: $%s\n", balance)
	return nil
}

// History prints the latest journal entries
func (p *Processor) History(ctx context.Context) error {
	if p.journal == nil {
		return fmt.Errorf("journal is disabled")
	}

	tasks, err := p.journal.RecentTasks(ctx, p.flags.Limit)
	if err != nil {
		return err
	}
	decisions, err := p.journal.RecentDecisions(ctx, p.flags.Limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Recent tasks:")
	if len(tasks) == 0 {
		fmt.Fprintln(p.out, "  No tasks recorded")
	}
	for _, t := range tasks {
		fmt.Fprintf(p.out, "  %s  %s  phrase %-6s HIT %s  batch %s\n",
			t.CreatedAt.Local().Format("2006-01-02 15:04"), t.Language, t.PhraseID, t.HITId, t.BatchID)
	}

	fmt.Fprintln(p.out, "\nRecent decisions:")
	if len(decisions) == 0 {
		fmt.Fprintln(p.out, "  No decisions recorded")
	}
	for _, d := range decisions {
		verdict := "rejected"
		if d.Accepted {
			verdict = "approved"
		}
		line := fmt.Sprintf("  %s  %s  %-8s assignment %s by %s: %s",
			d.DecidedAt.Local().Format("2006-01-02 15:04"), d.Language, verdict, d.AssignmentID, d.WorkerID,
			internal.Abbreviate(d.Text, 60))
		if d.Reason != "" {
			line += " (" + d.Reason + ")"
		}
		fmt.Fprintln(p.out, line)
	}

	return nil
}

// ListModels prints the models available to the judge provider
func (p *Processor) ListModels(ctx context.Context) error {
	j, err := p.newJudge()
	if err != nil {
		return err
	}

	models, err := j.ListModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Available %s models:\n", j.Name())
	if len(models) == 0 {
		fmt.Fprintln(p.out, "  No models found")
	}
	for _, m := range models {
		fmt.Fprintf(p.out, "  %s\n", m)
	}
	return nil
}

func (p *Processor) publisherConfig() publisher.Config {
	cfg := publisher.DefaultConfig()
	cfg.TaskURL = p.flags.TaskURL
	cfg.PreviewURL = cli.GetPreviewURL()
	cfg.Reward = p.flags.Reward
	cfg.Lifetime = p.flags.Expiration
	cfg.MaxAssignments = p.flags.MaxAssignments
	cfg.MinApprovalRate = p.flags.MinApproval
	cfg.MaxTasks = p.flags.MaxTasks
	return cfg
}

// decider picks the judge, the auto approval or the console prompt
func (p *Processor) decider() (reviewer.Decider, error) {
	if p.judge != nil || p.flags.Judge != "" {
		j, err := p.newJudge()
		if err != nil {
			return nil, err
		}
		p.logger.Info("Assignments are judged by a model", "provider", j.Name())
		return reviewer.JudgeDecider{Judge: j}, nil
	}
	if p.flags.Yes {
		return reviewer.AutoDecider{Strict: p.flags.Strict}, nil
	}
	return reviewer.NewPromptDecider(p.in, p.out), nil
}

func (p *Processor) newJudge() (judge.Judge, error) {
	if p.judge != nil {
		return p.judge, nil
	}

	provider := p.flags.Judge
	if provider == "" {
		provider = "openai"
	}

	cfg := judge.Config{Provider: provider, Model: p.flags.JudgeModel}
	switch provider {
	case "openai":
		cfg.APIKey = cli.GetOpenAIKey()
	case "gemini":
		cfg.APIKey = cli.GetGeminiKey()
	case "ollama":
		cfg.BaseURL = cli.GetOllamaHost()
	}
	return judge.New(cfg)
}

// writeOutput archives an existing file at path before write creates it anew
func (p *Processor) writeOutput(path string, write func() error) error {
	archived, err := archive.ArchiveFile(path)
	if err != nil {
		return err
	}
	if archived != "" {
		fmt.Fprintf(p.out, "  Previous %s archived to %s\n", path, archived)
	}
	return write()
}

func (p *Processor) startRun(ctx context.Context, kind, source string) {
	if p.journal == nil {
		return
	}
	id, err := p.journal.StartRun(ctx, kind, source)
	if err != nil {
		p.logger.Warn("Failed to record run", "error", err)
		return
	}
	p.logger.Debug("Run started", "run", id, "kind", kind)
}
