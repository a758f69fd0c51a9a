package phrase

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment is returned when a segment breaks the annotation rules
var ErrInvalidSegment = errors.New("invalid segment annotation")

// Validate checks the annotation rules of every phrase.
// A segment with a meta must carry an alias, unless the meta is
// IgnoreMeta, in which case it must not carry one.
func Validate(phrases []Phrase) error {
	for _, p := range phrases {
		if err := ValidatePhrase(p); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePhrase checks the annotation rules of a single phrase
func ValidatePhrase(p Phrase) error {
	for i, s := range p.Data {
		if s.Meta == "" {
			continue
		}
		if s.Meta == IgnoreMeta {
			if s.Alias != "" {
				return fmt.Errorf("phrase %s segment %d (%q): %s must not have alias %q: %w",
					p.ID, i, s.Text, IgnoreMeta, s.Alias, ErrInvalidSegment)
			}
			continue
		}
		if s.Alias == "" {
			return fmt.Errorf("phrase %s segment %d (%q): meta %s requires an alias: %w",
				p.ID, i, s.Text, s.Meta, ErrInvalidSegment)
		}
	}
	return nil
}

// EntityIssues compares the entities of a source phrase with a translated
// answer. Every source entity has to appear in the answer exactly as often
// as it appears in the source.
func EntityIssues(source, answer []Segment) []string {
	var issues []string

	got := make(map[string]int)
	for _, s := range answer {
		if s.IsEntity() {
			got[entityKey(s)]++
		}
	}

	want := make(map[string]int)
	var order []Segment
	for _, e := range Entities(source) {
		key := entityKey(e)
		if want[key] == 0 {
			order = append(order, e)
		}
		want[key]++
	}

	for _, e := range order {
		key := entityKey(e)
		switch n := got[key]; {
		case n < want[key]:
			issues = append(issues, fmt.Sprintf("%s (%q) is not selected", e.Alias, e.Text))
		case n > want[key]:
			issues = append(issues, fmt.Sprintf("there are multiple %s (%q)", e.Alias, e.Text))
		}
	}

	return issues
}

func entityKey(s Segment) string {
	return s.Alias + "\x00" + s.Meta
}
