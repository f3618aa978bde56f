// Package ai defines the interfaces for the external AI services the
// app depends on: text embedding and chat completion. Concrete
// implementations live in subpackages (openai for OpenAI-compatible
// APIs, mock for tests).
package ai
