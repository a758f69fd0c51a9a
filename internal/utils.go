package internal

import (
	"fmt"
	"strings"
)

// Language is a target language offered to workers
type Language struct {
	Code string
	Name string
}

// Languages lists the supported target languages in publishing order
var Languages = []Language{
	{Code: "ko", Name: "Korean"},
	{Code: "ru", Name: "Russian"},
	{Code: "fr", Name: "French"},
	{Code: "it", Name: "Italian"},
	{Code: "es", Name: "Spanish"},
	{Code: "pt", Name: "Portuguese"},
}

// LanguageName returns the display name for a language code
func LanguageName(code string) (string, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}

// ParseLanguages turns a comma separated list of codes into languages.
// An empty list selects every supported language.
func ParseLanguages(list string) ([]Language, error) {
	if strings.TrimSpace(list) == "" {
		return append([]Language(nil), Languages...), nil
	}

	var result []Language
	seen := make(map[string]bool)
	for _, code := range strings.Split(list, ",") {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		name, ok := LanguageName(code)
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s", code)
		}
		seen[code] = true
		result = append(result, Language{Code: code, Name: name})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no languages selected")
	}
	return result, nil
}

// Abbreviate shortens s to at most n characters for log output
func Abbreviate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:max(n, 0)])
	}
	return string(runes[:n-3]) + "..."
}
