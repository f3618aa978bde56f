// Package openai implements the ai service interfaces against any
// OpenAI-compatible API, which covers the hosted OpenAI endpoints as
// well as local servers like Ollama, LocalAI and vLLM.
package openai
