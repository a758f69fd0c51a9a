package question

import (
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/turktranslate/internal/phrase"
	"codeberg.org/snonux/turktranslate/internal/task"
)

func TestParseAnswer(t *testing.T) {
	doc := `<?xml version="1.0" encoding="ASCII"?>
<QuestionFormAnswers xmlns="` + AnswerNamespace + `">
  <Answer>
    <QuestionIdentifier>assignmentId</QuestionIdentifier>
  </Answer>
  <Answer>
    <QuestionIdentifier>translation</QuestionIdentifier>
    <FreeText>{"count":0,"data":[{"userDefined":false,"text":"bonjour"}]}</FreeText>
  </Answer>
</QuestionFormAnswers>`

	got, err := ParseAnswer(doc)
	if err != nil {
		t.Fatalf("ParseAnswer failed: %v", err)
	}

	no := false
	want := task.Answer{Data: []phrase.Segment{{Text: "bonjour", UserDefined: &no}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseAnswer() = %+v, want %+v", got, want)
	}
}

func TestParseAnswer_DeclaredEncodings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "ascii declared with utf-8 worker text",
			doc:  `<?xml version="1.0" encoding="ASCII"?><QuestionFormAnswers><Answer><FreeText>{"data":[{"text":"일본의 관광지를 볼 수 있을까요"}]}</FreeText></Answer></QuestionFormAnswers>`,
			want: "일본의 관광지를 볼 수 있을까요",
		},
		{
			name: "us-ascii",
			doc:  `<?xml version="1.0" encoding="us-ascii"?><QuestionFormAnswers><Answer><FreeText>{"data":[{"text":"Японии"}]}</FreeText></Answer></QuestionFormAnswers>`,
			want: "Японии",
		},
		{
			name: "utf-8",
			doc:  `<?xml version="1.0" encoding="UTF-8"?><QuestionFormAnswers><Answer><FreeText>{"data":[{"text":"über"}]}</FreeText></Answer></QuestionFormAnswers>`,
			want: "über",
		},
		{
			name: "latin-1",
			doc:  "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><QuestionFormAnswers><Answer><FreeText>{\"data\":[{\"text\":\"caf\xe9\"}]}</FreeText></Answer></QuestionFormAnswers>",
			want: "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(tt.doc)
			if err != nil {
				t.Fatalf("ParseAnswer failed: %v", err)
			}
			if got.Text() != tt.want {
				t.Errorf("ParseAnswer() text = %q, want %q", got.Text(), tt.want)
			}
		})
	}
}

func TestParseAnswer_Errors(t *testing.T) {
	tests := map[string]string{
		"not xml":          "{}",
		"no free text":     `<QuestionFormAnswers><Answer><QuestionIdentifier>x</QuestionIdentifier></Answer></QuestionFormAnswers>`,
		"bad json":         `<QuestionFormAnswers><Answer><FreeText>nope</FreeText></Answer></QuestionFormAnswers>`,
		"unknown encoding": `<?xml version="1.0" encoding="x-no-such-charset"?><QuestionFormAnswers></QuestionFormAnswers>`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAnswer(doc); err == nil {
				t.Errorf("Expected error for %s", name)
			}
		})
	}
}

func TestAnswerDocument_RoundTrip(t *testing.T) {
	yes := true
	answer := task.Answer{ID: "1", Data: []phrase.Segment{
		{Text: "Японии", Alias: "location", Meta: "@sys.location", UserDefined: &yes},
		{Text: " <ok> & done"},
	}}

	doc, err := AnswerDocument(answer)
	if err != nil {
		t.Fatalf("AnswerDocument failed: %v", err)
	}

	if !strings.HasPrefix(doc, AnswerHeader) {
		t.Errorf("document does not start with %q: %s", AnswerHeader, doc)
	}

	got, err := ParseAnswer(doc)
	if err != nil {
		t.Fatalf("ParseAnswer failed: %v", err)
	}
	if !reflect.DeepEqual(got, answer) {
		t.Errorf("round trip = %+v, want %+v", got, answer)
	}
}
