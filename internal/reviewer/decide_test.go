package reviewer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/snonux/turktranslate/internal/judge"
	"codeberg.org/snonux/turktranslate/internal/marketplace"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"", true},
		{"\n", true},
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{" YES ", true},
		{"n\n", false},
		{"no\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		if got := ParseAnswer(tt.reply); got != tt.want {
			t.Errorf("ParseAnswer(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}
}

func testSubmission() Submission {
	return Submission{
		TaskID:   "HIT1",
		Language: "fr",
		Source:   source,
		Response: marketplace.Response{ID: "A1", WorkerID: "W1"},
		Answer:   frenchAnswer("7"),
		Issues:   []string{"city (\"@sys.geo-city\") is not selected"},
	}
}

func TestPromptDecider(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		accept bool
	}{
		{"default", "\n", true},
		{"yes", "y\n", true},
		{"no", "n\n", false},
		{"no newline", "n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPromptDecider(strings.NewReader(tt.input), &out)

			got, err := p.Decide(context.Background(), testSubmission())
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}
			if got.Accept != tt.accept {
				t.Errorf("Accept = %v, want %v", got.Accept, tt.accept)
			}
			if !strings.Contains(out.String(), "Approve assignment [Y/n]: ") {
				t.Errorf("Prompt missing from output: %q", out.String())
			}
		})
	}
}

func TestPromptDecider_EOF(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptDecider(strings.NewReader(""), &out)

	if _, err := p.Decide(context.Background(), testSubmission()); err == nil {
		t.Error("Expected error on closed input")
	}
}

func TestPromptDecider_ReadsSequentially(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptDecider(strings.NewReader("y\nn\n"), &out)

	first, err := p.Decide(context.Background(), testSubmission())
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Decide(context.Background(), testSubmission())
	if err != nil {
		t.Fatal(err)
	}
	if !first.Accept || second.Accept {
		t.Errorf("Got %v then %v, want true then false", first.Accept, second.Accept)
	}
}

func TestRenderSubmission(t *testing.T) {
	got := RenderSubmission(testSubmission())

	for _, want := range []string{"A1", "W1", "book a table in Paris", "French", "réserver une table à Paris", "is not selected"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderSubmission() missing %q in:\n%s", want, got)
		}
	}
}

func TestAutoDecider(t *testing.T) {
	sub := testSubmission()

	if d, _ := (AutoDecider{}).Decide(context.Background(), sub); !d.Accept {
		t.Error("AutoDecider should accept")
	}

	d, _ := (AutoDecider{Strict: true}).Decide(context.Background(), sub)
	if d.Accept {
		t.Error("Strict AutoDecider should reject answers with issues")
	}
	if !strings.Contains(d.Reason, "is not selected") {
		t.Errorf("Reason = %q", d.Reason)
	}

	sub.Issues = nil
	if d, _ := (AutoDecider{Strict: true}).Decide(context.Background(), sub); !d.Accept {
		t.Error("Strict AutoDecider should accept clean answers")
	}
}

type stubJudge struct {
	verdict judge.Verdict
	err     error
	got     judge.Request
}

func (s *stubJudge) Name() string { return "stub" }

func (s *stubJudge) Assess(ctx context.Context, req judge.Request) (judge.Verdict, error) {
	s.got = req
	return s.verdict, s.err
}

func (s *stubJudge) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func TestJudgeDecider(t *testing.T) {
	j := &stubJudge{verdict: judge.Verdict{Accept: false, Reason: "wrong language"}}

	d, err := JudgeDecider{Judge: j}.Decide(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if d.Accept || d.Reason != "wrong language" {
		t.Errorf("Decision = %+v", d)
	}

	if j.got.Language != "French" || j.got.Source != "book a table in Paris" || len(j.got.Issues) != 1 {
		t.Errorf("Unexpected request: %+v", j.got)
	}
}

func TestJudgeDecider_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := JudgeDecider{Judge: &stubJudge{err: boom}}.Decide(context.Background(), testSubmission())
	if !errors.Is(err, boom) {
		t.Errorf("Decide() error = %v, want %v", err, boom)
	}
}
