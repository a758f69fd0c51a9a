package phrase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileSuffix is the required suffix of a phrase input file
const FileSuffix = "_usersays_en.json"

// IgnoreMeta marks a segment that carries no entity
const IgnoreMeta = "@sys.ignore"

// ErrBadSuffix is returned for input files without FileSuffix
var ErrBadSuffix = errors.New("phrase file must end with " + FileSuffix)

// Segment is one piece of a phrase: plain text or an annotated entity
type Segment struct {
	Text        string `json:"text"`
	Alias       string `json:"alias,omitempty"`
	Meta        string `json:"meta,omitempty"`
	UserDefined *bool  `json:"userDefined,omitempty"`
}

// IsEntity reports whether the segment is linked to an entity
func (s Segment) IsEntity() bool {
	return s.Alias != ""
}

// Phrase is a single sentence to translate
type Phrase struct {
	ID         string    `json:"id"`
	Data       []Segment `json:"data"`
	Count      int       `json:"count,omitempty"`
	IsTemplate bool      `json:"isTemplate,omitempty"`
	Updated    int64     `json:"updated,omitempty"`

	// Raw is the record as it was decoded, unknown fields included.
	// MarshalJSON writes it back unchanged.
	Raw json.RawMessage `json:"-"`
}

type record Phrase

// UnmarshalJSON decodes the phrase and keeps a copy of the raw record
func (p *Phrase) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*p = Phrase(r)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the raw record when there is one
func (p Phrase) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(record(p))
}

// Text returns the full sentence of the phrase
func (p Phrase) Text() string {
	return Text(p.Data)
}

// ReadFile reads a JSON array of phrases from filename
func ReadFile(filename string) ([]Phrase, error) {
	if !strings.HasSuffix(filename, FileSuffix) {
		return nil, fmt.Errorf("%s: %w", filename, ErrBadSuffix)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read phrase file: %w", err)
	}

	var phrases []Phrase
	if err := json.Unmarshal(content, &phrases); err != nil {
		return nil, fmt.Errorf("failed to parse phrase file %s: %w", filename, err)
	}

	return phrases, nil
}

// Prefix returns the filename without FileSuffix
func Prefix(filename string) string {
	return strings.TrimSuffix(filename, FileSuffix)
}

// Text joins the text of all segments
func Text(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Entities returns the annotated segments in order
func Entities(segments []Segment) []Segment {
	var entities []Segment
	for _, s := range segments {
		if s.IsEntity() {
			entities = append(entities, s)
		}
	}
	return entities
}
