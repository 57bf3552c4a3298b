// Package output persists tagged topic records as a JSON document.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"news-tag-app/internal/domain/entity"
)

// DefaultPath is the output file used when none is configured.
const DefaultPath = "all_topics.json"

// Writer overwrites a single JSON file with the full record set.
type Writer struct {
	path string
}

// NewWriter creates a Writer for path. An empty path means DefaultPath.
func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

// Path returns the file the writer targets.
func (w *Writer) Path() string {
	return w.path
}

// Write serializes records as a 4-space indented JSON array without escaping
// non-ASCII or HTML characters. The file is replaced atomically through a
// temporary file in the same directory.
func (w *Writer) Write(records []entity.TopicRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	slog.Info("topics written",
		slog.String("path", w.path),
		slog.Int("records", len(records)),
		slog.Int("bytes", len(data)))
	return nil
}

// Encode renders records in the output format. Nil tags are written as [].
func Encode(records []entity.TopicRecord) ([]byte, error) {
	normalized := make([]entity.TopicRecord, len(records))
	for i, r := range records {
		normalized[i] = r.WithTags(r.Tags)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}
	return buf.Bytes(), nil
}
