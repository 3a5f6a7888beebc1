// Package writer persists assembled records, one file per record, either as
// self-describing JSON or as a rendered HTML page.
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rag_data_generator/generator"
)

// Format selects the output branch.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// WriteError wraps a persistence failure. Generation succeeded by the time a
// record reaches the writer, so callers treat this class separately.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer serializes records into a single output directory.
type Writer struct {
	dir    string
	format Format
}

func New(dir string, format Format) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	switch format {
	case FormatJSON, FormatHTML:
	default:
		return nil, fmt.Errorf("output format %s not supported", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir, format: format}, nil
}

// Format returns the configured output branch.
func (w *Writer) Format() Format { return w.format }

// Write persists one record and returns the written path.
func (w *Writer) Write(rec generator.Record) (string, error) {
	switch w.format {
	case FormatHTML:
		return w.writeHTML(rec)
	default:
		return w.writeJSON(rec)
	}
}

func (w *Writer) writeJSON(rec generator.Record) (string, error) {
	name := fmt.Sprintf("record_%s_%s.json", time.Now().Format("20060102_150405"), shortID(rec.ID))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

func (w *Writer) writeHTML(rec generator.Record) (string, error) {
	title := DeriveTitle(rec)
	name := fmt.Sprintf("%s_%s_%s.html", slugify(title), time.Now().Format("20060102_150405"), shortID(rec.ID))
	path := filepath.Join(w.dir, name)

	page, err := renderPage(rec, title)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "00000000"
	}
	return id
}

// CountExisting counts records already present in dir, so a restarted process
// can report how much output it would add to.
func CountExisting(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".html":
			n++
		}
	}
	return n
}
