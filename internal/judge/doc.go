// Package judge provides machine reviewers for worker translations. A judge
// asks a language model whether a translation is faithful to its English
// source and keeps the annotated entities, and answers with a verdict the
// review workflow can act on. Providers: OpenAI, Gemini and Ollama.
package judge
