package scraper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Writer persists one scraped page under a name chosen by the scraper.
type Writer interface {
	Write(ctx context.Context, name, content string) error
}

// TextWriter writes scraped pages as .txt files in a directory.
type TextWriter struct {
	dir string
}

// NewTextWriter creates the output directory if needed.
func NewTextWriter(dir string) (*TextWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TextWriter{dir: dir}, nil
}

func (w *TextWriter) Write(_ context.Context, name, content string) error {
	return os.WriteFile(filepath.Join(w.dir, sanitizeFilename(name)+".txt"), []byte(content), 0o644)
}

// sanitizeFilename keeps page names safe to use as file names.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")
	return replacer.Replace(name)
}
