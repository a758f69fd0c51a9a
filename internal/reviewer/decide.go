package reviewer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/turktranslate/internal"
)

// AutoDecider accepts every submission. In strict mode submissions with
// entity issues are rejected.
type AutoDecider struct {
	Strict bool
}

// Decide implements Decider
func (a AutoDecider) Decide(ctx context.Context, sub Submission) (Decision, error) {
	if a.Strict && len(sub.Issues) > 0 {
		return Decision{Accept: false, Reason: strings.Join(sub.Issues, "; ")}, nil
	}
	return Decision{Accept: true}, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	issueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// PromptDecider asks a person on the console
type PromptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptDecider reads decisions from in and writes prompts to out
func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{in: bufio.NewReader(in), out: out}
}

// Decide shows the submission and reads Y/n
func (p *PromptDecider) Decide(ctx context.Context, sub Submission) (Decision, error) {
	fmt.Fprintln(p.out, RenderSubmission(sub))
	fmt.Fprint(p.out, "Approve assignment [Y/n]: ")

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return Decision{}, fmt.Errorf("failed to read decision: %w", err)
	}

	if ParseAnswer(line) {
		return Decision{Accept: true}, nil
	}
	return Decision{Accept: false, Reason: "rejected on prompt"}, nil
}

// ParseAnswer reports whether a prompt reply means yes. An empty reply
// takes the default, which is yes.
func ParseAnswer(reply string) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// RenderSubmission formats a submission for the console
func RenderSubmission(sub Submission) string {
	langName, ok := internal.LanguageName(sub.Language)
	if !ok {
		langName = sub.Language
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("Assignment %s", sub.Response.ID)),
		labelStyle.Render("Worker:  ") + sub.Response.WorkerID,
		labelStyle.Render("English: ") + sub.Source.Text(),
		labelStyle.Render(fmt.Sprintf("%s: ", langName)) + sub.Answer.Text(),
	}
	for _, issue := range sub.Issues {
		lines = append(lines, issueStyle.Render("! "+issue))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}
