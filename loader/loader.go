package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/douglasmakey/chatting-with-docs/core"
)

var (
	// ErrUnsupportedDataType indicates that no reader is registered for
	// the requested data type.
	ErrUnsupportedDataType = errors.New("unsupported data type")

	// ErrNotFound indicates a missing source directory or a directory
	// with no files of the requested type.
	ErrNotFound = errors.New("no documents found")
)

// readFunc reads a single file into one or more documents.
type readFunc func(ctx context.Context, path string) ([]core.Document, error)

// Readers are registered per declared data type. The key doubles as the
// file extension matched in the source directory.
var readers = map[string]readFunc{
	"txt": readTextFile,
	"md":  readTextFile,
	"pdf": readPDFFile,
}

// SupportedTypes lists the registered data types in sorted order.
func SupportedTypes() []string {
	types := make([]string, 0, len(readers))
	for t := range readers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Load reads all files of the declared data type from dir and returns
// them as documents in file-name order. Paged formats produce one
// document per page with the page number in metadata; flat text formats
// produce one document per file. The only side effect is file reads.
func Load(ctx context.Context, dir, dataType string) ([]core.Document, error) {
	dataType = strings.ToLower(strings.TrimSpace(dataType))
	read, ok := readers[dataType]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedDataType, dataType, strings.Join(SupportedTypes(), ", "))
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*."+dataType))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no .%s files in %s", ErrNotFound, dataType, dir)
	}
	sort.Strings(matches)

	logger := slog.Default().With("component", "loader")
	var docs []core.Document
	for _, path := range matches {
		fileDocs, err := read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		logger.Debug("loaded file", "path", path, "documents", len(fileDocs))
		docs = append(docs, fileDocs...)
	}

	logger.Info("loaded documents", "dir", dir, "type", dataType, "files", len(matches), "documents", len(docs))
	return docs, nil
}

// readTextFile reads a flat text file as a single document.
func readTextFile(_ context.Context, path string) ([]core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []core.Document{{
		Text:     string(data),
		Metadata: core.Metadata{Source: path},
	}}, nil
}
