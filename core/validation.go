package core

import (
	"fmt"
	"strings"
)

// ValidateCollectionName checks that a collection name is usable as a
// registry key. Names are user-supplied on the command line.
func ValidateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCollectionName
	}
	return nil
}

// Validate checks that an Entry is complete enough to store.
func (e *Entry) Validate() error {
	if e.Text == "" {
		return fmt.Errorf("entry %d: %w", e.Id, ErrEmptyText)
	}
	if len(e.Vector) == 0 {
		return fmt.Errorf("entry %d: %w", e.Id, ErrMissingVector)
	}
	return nil
}
