package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag_data_generator/generator"
)

func sampleRecord() generator.Record {
	return generator.Assemble(
		generator.Intent{RawIntent: "Build a sanitizer for comment forms. It must escape everything.", Tags: []string{"xss", "forms"}},
		generator.Solution{Content: "<?php echo Sanitizer::filter($input);", Description: "Filters input through the proprietary sanitizer."},
		"http://x", "http://y",
	)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("", FormatJSON)
	assert.Error(t, err)

	_, err = New(t.TempDir(), Format("xml"))
	assert.Error(t, err)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, FormatJSON)
	require.NoError(t, err)

	rec := sampleRecord()
	path, err := w.Write(rec)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got generator.Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec.RawIntent, got.RawIntent)
	assert.Equal(t, rec.Tags, got.Tags)
	assert.Equal(t, rec.Content, got.Content)
	assert.Equal(t, rec.Description, got.Description)
	assert.Equal(t, rec.GeneratedAt, got.GeneratedAt)
	assert.Equal(t, rec.ID, got.ID)
}

func TestWriteUniqueFilenames(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, FormatJSON)
	require.NoError(t, err)

	p1, err := w.Write(sampleRecord())
	require.NoError(t, err)
	p2, err := w.Write(sampleRecord())
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, 2, CountExisting(dir))
}

func TestWriteErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	w, err := New(out, FormatJSON)
	require.NoError(t, err)

	// Yank the directory out from under the writer.
	require.NoError(t, os.RemoveAll(out))

	_, err = w.Write(sampleRecord())
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.NotEmpty(t, we.Path)
}

func TestCountExistingMissingDir(t *testing.T) {
	assert.Equal(t, 0, CountExisting(filepath.Join(t.TempDir(), "missing")))
}
