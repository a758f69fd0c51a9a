package reviewer

import (
	"context"
	"fmt"

	"codeberg.org/snonux/turktranslate/internal"
	"codeberg.org/snonux/turktranslate/internal/judge"
)

// JudgeDecider lets a machine judge decide
type JudgeDecider struct {
	Judge judge.Judge
}

// Decide implements Decider
func (j JudgeDecider) Decide(ctx context.Context, sub Submission) (Decision, error) {
	langName, ok := internal.LanguageName(sub.Language)
	if !ok {
		langName = sub.Language
	}

	verdict, err := j.Judge.Assess(ctx, judge.Request{
		Source:      sub.Source.Text(),
		Translation: sub.Answer.Text(),
		Language:    langName,
		Issues:      sub.Issues,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("%s judge: %w", j.Judge.Name(), err)
	}

	return Decision{Accept: verdict.Accept, Reason: verdict.Reason}, nil
}
