package judge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"codeberg.org/snonux/turktranslate/internal"
)

const systemPrompt = `You review crowd-sourced translations of English chatbot sentences.
Accept a translation when it is a faithful, natural translation of the English sentence.
Reject it when it is empty, machine-like gibberish, in the wrong language, or changes the meaning.
Entity problems reported to you are strong reasons to reject.
Respond only with JSON: {"accept": true|false, "reason": "<one short sentence>"}`

// UserPrompt builds the assessment request sent to a model
func UserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "English: %s\n", req.Source)
	fmt.Fprintf(&b, "%s: %s\n", req.Language, req.Translation)
	if len(req.Issues) > 0 {
		b.WriteString("Entity problems:\n")
		for _, issue := range req.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}
	return b.String()
}

var acceptRE = regexp.MustCompile(`(?i)"accept"\s*:\s*(true|false)`)

// ParseVerdict reads a verdict from a model reply
func ParseVerdict(content string) (Verdict, error) {
	s := strings.TrimSpace(content)

	// Fenced code block
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := strings.TrimPrefix(s[idx+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}

	var v Verdict
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, nil
	}

	// JSON object inside surrounding text
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if err := json.Unmarshal([]byte(s[i:j+1]), &v); err == nil {
				return v, nil
			}
		}
	}

	if m := acceptRE.FindStringSubmatch(s); len(m) == 2 {
		return Verdict{Accept: strings.EqualFold(m[1], "true"), Reason: "unstructured reply"}, nil
	}

	switch firstWord(s) {
	case "accept", "accepted", "yes":
		return Verdict{Accept: true, Reason: s}, nil
	case "reject", "rejected", "no":
		return Verdict{Accept: false, Reason: s}, nil
	}

	return Verdict{}, fmt.Errorf("failed to parse verdict; content: %s", internal.Abbreviate(s, 500))
}

// firstWord returns the leading word of s in lower case
func firstWord(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[0])
}
