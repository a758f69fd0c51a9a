// Package question builds and parses the documents exchanged with the
// marketplace: the callback URL of the translation page, the
// ExternalQuestion envelope that embeds it, and the QuestionFormAnswers
// document a worker submits.
package question

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/snonux/turktranslate/internal/phrase"
)

// Namespace of the ExternalQuestion schema
const Namespace = "http://mechanicalturk.amazonaws.com/AWSMechanicalTurkDataSchemas/2006-07-14/ExternalQuestion.xsd"

// DefaultFrameHeight is the height of the task frame in pixels
const DefaultFrameHeight = 720

const (
	phraseParam   = "userSay"
	languageParam = "language"
)

// BuildURL returns the callback URL that shows phrase p in language lang.
// A phrase read from a file is embedded exactly as it was read.
func BuildURL(base string, p phrase.Phrase, lang string) (string, error) {
	encoded, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode phrase %s: %w", p.ID, err)
	}

	query := url.Values{}
	query.Set(phraseParam, string(encoded))
	query.Set(languageParam, lang)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query.Encode(), nil
}

// ParseURL recovers the phrase and language from a callback URL
func ParseURL(raw string) (phrase.Phrase, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return phrase.Phrase{}, "", fmt.Errorf("invalid callback URL: %w", err)
	}

	query := u.Query()
	encoded := query.Get(phraseParam)
	if encoded == "" {
		return phrase.Phrase{}, "", fmt.Errorf("callback URL has no %s parameter", phraseParam)
	}

	var p phrase.Phrase
	if err := json.Unmarshal([]byte(encoded), &p); err != nil {
		return phrase.Phrase{}, "", fmt.Errorf("failed to decode phrase from callback URL: %w", err)
	}

	return p, query.Get(languageParam), nil
}

type externalQuestion struct {
	XMLName     xml.Name `xml:"ExternalQuestion"`
	Namespace   string   `xml:"xmlns,attr,omitempty"`
	ExternalURL string   `xml:"ExternalURL"`
	FrameHeight int      `xml:"FrameHeight"`
}

// ExternalQuestion wraps a callback URL into the XML envelope of a task
func ExternalQuestion(externalURL string, frameHeight int) (string, error) {
	if frameHeight <= 0 {
		frameHeight = DefaultFrameHeight
	}

	doc, err := xml.Marshal(externalQuestion{
		Namespace:   Namespace,
		ExternalURL: externalURL,
		FrameHeight: frameHeight,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode external question: %w", err)
	}
	return string(doc), nil
}

// ParseExternalQuestion returns the callback URL of an envelope
func ParseExternalQuestion(doc string) (string, error) {
	var q externalQuestion
	if err := unmarshal(doc, &q); err != nil {
		return "", fmt.Errorf("failed to parse external question: %w", err)
	}
	if strings.TrimSpace(q.ExternalURL) == "" {
		return "", fmt.Errorf("external question has no ExternalURL")
	}
	return strings.TrimSpace(q.ExternalURL), nil
}

// ParsePhrase recovers phrase and language straight from an envelope
func ParsePhrase(doc string) (phrase.Phrase, string, error) {
	externalURL, err := ParseExternalQuestion(doc)
	if err != nil {
		return phrase.Phrase{}, "", err
	}
	return ParseURL(externalURL)
}
