package question

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"codeberg.org/snonux/turktranslate/internal/task"
)

// AnswerNamespace of the QuestionFormAnswers schema
const AnswerNamespace = "http://mechanicalturk.amazonaws.com/AWSMechanicalTurkDataSchemas/2005-10-01/QuestionFormAnswers.xsd"

// AnswerIdentifier is the form field the translation page submits
const AnswerIdentifier = "translation"

// AnswerHeader is the declaration the marketplace puts on answer documents
const AnswerHeader = `<?xml version="1.0" encoding="ASCII"?>` + "\n"

type formAnswers struct {
	XMLName   xml.Name     `xml:"QuestionFormAnswers"`
	Namespace string       `xml:"xmlns,attr,omitempty"`
	Answers   []formAnswer `xml:"Answer"`
}

type formAnswer struct {
	QuestionIdentifier string  `xml:"QuestionIdentifier"`
	FreeText           *string `xml:"FreeText"`
}

// ParseAnswer extracts the answer record embedded in the first free text
// answer of a QuestionFormAnswers document
func ParseAnswer(doc string) (task.Answer, error) {
	var form formAnswers
	if err := unmarshal(doc, &form); err != nil {
		return task.Answer{}, fmt.Errorf("failed to parse answer document: %w", err)
	}

	for _, a := range form.Answers {
		if a.FreeText == nil {
			continue
		}
		var answer task.Answer
		if err := json.Unmarshal([]byte(strings.TrimSpace(*a.FreeText)), &answer); err != nil {
			return task.Answer{}, fmt.Errorf("failed to decode answer %q: %w", a.QuestionIdentifier, err)
		}
		return answer, nil
	}

	return task.Answer{}, fmt.Errorf("answer document has no FreeText answer")
}

// AnswerDocument wraps an answer record the way the translation page
// submits it
func AnswerDocument(answer task.Answer) (string, error) {
	encoded, err := json.Marshal(answer)
	if err != nil {
		return "", fmt.Errorf("failed to encode answer: %w", err)
	}

	text := string(encoded)
	doc, err := xml.Marshal(formAnswers{
		Namespace: AnswerNamespace,
		Answers:   []formAnswer{{QuestionIdentifier: AnswerIdentifier, FreeText: &text}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode answer document: %w", err)
	}
	return AnswerHeader + string(doc), nil
}

// unmarshal decodes doc honouring its declared encoding. ASCII documents
// still carry raw UTF-8 worker text, so they are read as UTF-8.
func unmarshal(doc string, v any) error {
	d := xml.NewDecoder(strings.NewReader(doc))
	d.CharsetReader = charsetReader
	return d.Decode(v)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "ascii", "us-ascii", "utf-8", "utf8":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}
