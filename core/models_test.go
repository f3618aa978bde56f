package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("wiki-items")
		id2 := IDFromContent("wiki-items")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("wiki-items")
		id2 := IDFromContent("aws-faqs")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		// Still hashes to something; collection name validation rejects
		// empty names before this point.
		id := IDFromContent("")
		assert.NotZero(t, id)
	})
}

func TestValidateCollectionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid name", "aws-faqs", nil},
		{"empty name", "", ErrEmptyCollectionName},
		{"blank name", "   ", ErrEmptyCollectionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollectionName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntryValidate(t *testing.T) {
	valid := &Entry{
		Id:     1,
		Text:   "some chunk text",
		Vector: []float32{0.1, 0.2},
	}
	require.NoError(t, valid.Validate())

	t.Run("empty text", func(t *testing.T) {
		e := &Entry{Id: 2, Vector: []float32{0.1}}
		assert.ErrorIs(t, e.Validate(), ErrEmptyText)
	})

	t.Run("missing vector", func(t *testing.T) {
		e := &Entry{Id: 3, Text: "text"}
		assert.ErrorIs(t, e.Validate(), ErrMissingVector)
	})
}
