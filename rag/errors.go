package rag

import "errors"

var (
	// ErrStoreRequired is returned when a collection store is not provided.
	ErrStoreRequired = errors.New("collection store required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuestion is returned when Ask is called with a blank question.
	ErrEmptyQuestion = errors.New("empty question")
)
