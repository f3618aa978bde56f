package loader

import (
	"context"
	"os"

	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/tmc/langchaingo/documentloaders"
)

// readPDFFile reads a PDF file, producing one document per page so the
// page number survives into chunk metadata.
func readPDFFile(ctx context.Context, path string) ([]core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(pages))
	for i, page := range pages {
		docs = append(docs, core.Document{
			Text: page.PageContent,
			Metadata: core.Metadata{
				Source: path,
				Page:   pageNumber(page.Metadata, i+1),
			},
		})
	}
	return docs, nil
}

// pageNumber pulls the page number out of loader metadata, falling back
// to the document's position in the file.
func pageNumber(metadata map[string]any, fallback int) int {
	switch v := metadata["page"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
