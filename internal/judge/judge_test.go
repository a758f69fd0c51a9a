package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{"openai", "openai", false},
		{"OpenAI", "openai", false},
		{"gemini", "gemini", false},
		{"ollama", "ollama", false},
		{"claude", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			j, err := New(Config{Provider: tt.provider})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
			if err == nil && j.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", j.Name(), tt.want)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Verdict
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"accept": true, "reason": "faithful"}`,
			want:    Verdict{Accept: true, Reason: "faithful"},
		},
		{
			name:    "fenced",
			content: "```json\n{\"accept\": false, \"reason\": \"wrong language\"}\n```",
			want:    Verdict{Accept: false, Reason: "wrong language"},
		},
		{
			name:    "embedded",
			content: `Here you go: {"accept": true, "reason": "ok"} hope it helps`,
			want:    Verdict{Accept: true, Reason: "ok"},
		},
		{
			name:    "broken json",
			content: `{"accept": false, "reason": "cut off`,
			want:    Verdict{Accept: false, Reason: "unstructured reply"},
		},
		{
			name:    "plain yes",
			content: "Yes, this is fine.",
			want:    Verdict{Accept: true, Reason: "Yes, this is fine."},
		},
		{
			name:    "plain reject",
			content: "Reject: meaning changed",
			want:    Verdict{Accept: false, Reason: "Reject: meaning changed"},
		},
		{
			name:    "plain no",
			content: "No. The city is missing.",
			want:    Verdict{Accept: false, Reason: "No. The city is missing."},
		},
		{
			name:    "garbage",
			content: "I cannot tell",
			wantErr: true,
		},
		{
			name:    "word starting with no",
			content: "Nothing wrong with it",
			wantErr: true,
		},
		{
			name:    "word starting with accept",
			content: "Acceptable, but the tone is off",
			wantErr: true,
		},
		{
			name:    "word starting with yes",
			content: "Yesterday is translated wrongly",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVerdict() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVerdict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(Request{
		Source:      "hello",
		Translation: "안녕하세요",
		Language:    "Korean",
		Issues:      []string{"there are multiple name (\"Kim\")"},
	})

	for _, want := range []string{"English: hello", "Korean: 안녕하세요", "Entity problems:", "- there are multiple name"} {
		if !strings.Contains(got, want) {
			t.Errorf("UserPrompt() missing %q in:\n%s", want, got)
		}
	}

	if strings.Contains(UserPrompt(Request{Source: "a", Translation: "b", Language: "French"}), "Entity problems") {
		t.Error("UserPrompt() should omit the problems section without issues")
	}
}

func TestOpenAI_NoAPIKey(t *testing.T) {
	j := NewOpenAI(Config{})

	_, err := j.Assess(context.Background(), Request{Source: "hello"})
	if err == nil || err.Error() != "OpenAI API key not found" {
		t.Errorf("Expected 'OpenAI API key not found' error, got: %v", err)
	}
}

func TestGemini_NoAPIKey(t *testing.T) {
	j := NewGemini(Config{})

	if _, err := j.Assess(context.Background(), Request{Source: "hello"}); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := j.ListModels(context.Background()); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestOpenAI_Assess(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chat/completions":
			var req struct {
				Model string `json:"model"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotModel = req.Model

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{
					"index": 0,
					"message": map[string]string{
						"role":    "assistant",
						"content": `{"accept": false, "reason": "not Korean"}`,
					},
				}},
			})
		case "/v1/models":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"id": "gpt-4o"}, {"id": "whisper-1"}, {"id": "gpt-4o-mini"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	j := NewOpenAI(Config{APIKey: "test", BaseURL: server.URL + "/v1", Model: "gpt-test"})

	got, err := j.Assess(context.Background(), Request{Source: "hello", Translation: "bonjour", Language: "Korean"})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if got.Accept || got.Reason != "not Korean" {
		t.Errorf("Assess() = %+v", got)
	}
	if gotModel != "gpt-test" {
		t.Errorf("Model = %q, want gpt-test", gotModel)
	}

	models, err := j.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if want := []string{"gpt-4o", "gpt-4o-mini"}; !reflect.DeepEqual(models, want) {
		t.Errorf("ListModels() = %v, want %v", models, want)
	}
}

func TestOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat":
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["format"] != "json" || req["stream"] != false {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"accept\":true,\"reason\":\"fine\"}"}}`))
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:latest"},{"name":"qwen2.5:7b"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	j := NewOllama(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second})

	got, err := j.Assess(context.Background(), Request{Source: "hello", Translation: "hola", Language: "Spanish"})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if !got.Accept || got.Reason != "fine" {
		t.Errorf("Assess() = %+v", got)
	}

	models, err := j.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if want := []string{"llama3.1:latest", "qwen2.5:7b"}; !reflect.DeepEqual(models, want) {
		t.Errorf("ListModels() = %v, want %v", models, want)
	}
}

func TestOllama_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	j := NewOllama(Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	if _, err := j.Assess(context.Background(), Request{Source: "hello"}); err == nil {
		t.Error("Expected error for server failure")
	}
}

func TestOpenAI_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	j := NewOpenAI(Config{APIKey: apiKey})
	got, err := j.Assess(context.Background(), Request{Source: "good morning", Translation: "buongiorno", Language: "Italian"})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	t.Logf("Verdict: %+v", got)
}
