package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/turktranslate/internal/phrase"
)

const (
	tasksMarker   = "_tasks_"
	usersaysInfix = "_usersays_"
)

// ErrNotTaskFile is returned for review inputs that are not task files
var ErrNotTaskFile = errors.New("task file name must contain " + tasksMarker)

// Descriptor links a phrase to the remote task created for it
type Descriptor struct {
	ID    string `json:"id"`
	HITId string `json:"HITId"`
}

// Answer is an accepted translation submitted by a worker
type Answer struct {
	ID    string           `json:"id,omitempty"`
	Count int              `json:"count"`
	Data  []phrase.Segment `json:"data"`
}

// Text returns the translated sentence
func (a Answer) Text() string {
	return phrase.Text(a.Data)
}

// TaskFilename returns the per-language task file for a phrase file
func TaskFilename(phraseFile, lang string) string {
	return fmt.Sprintf("%s%s%s.json", phrase.Prefix(phraseFile), tasksMarker, lang)
}

// AnswerFilename returns the answer file written for a task file
func AnswerFilename(taskFile string) (string, error) {
	if !strings.Contains(taskFile, tasksMarker) {
		return "", fmt.Errorf("%s: %w", taskFile, ErrNotTaskFile)
	}
	return strings.Replace(taskFile, tasksMarker, usersaysInfix, 1), nil
}

// WriteDescriptors stores descriptors as a JSON array
func WriteDescriptors(filename string, descriptors []Descriptor) error {
	if descriptors == nil {
		descriptors = []Descriptor{}
	}
	return writeJSON(filename, descriptors)
}

// ReadDescriptors loads descriptors written by WriteDescriptors
func ReadDescriptors(filename string) ([]Descriptor, error) {
	if !strings.Contains(filename, tasksMarker) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotTaskFile)
	}

	var descriptors []Descriptor
	if err := readJSON(filename, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// WriteAnswers stores accepted answers as a JSON array
func WriteAnswers(filename string, answers []Answer) error {
	if answers == nil {
		answers = []Answer{}
	}
	return writeJSON(filename, answers)
}

// ReadAnswers loads answers written by WriteAnswers
func ReadAnswers(filename string) ([]Answer, error) {
	var answers []Answer
	if err := readJSON(filename, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func writeJSON(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func readJSON(filename string, v any) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return nil
}
