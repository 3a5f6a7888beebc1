package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MaxRecords)
	assert.Equal(t, 3, cfg.MaxConsecutiveFailures)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "rag_data", cfg.OutputDir)
	assert.False(t, cfg.WebFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
domain: "Italian cuisine"
max_records: 5
max_consecutive_failures: 2
delay: 0s
model_x_url: "http://localhost:9001"
model_y_url: "http://localhost:9002"
web_format: true
output_dir: "out"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Italian cuisine", cfg.Domain)
	assert.Equal(t, 5, cfg.MaxRecords)
	assert.Equal(t, 2, cfg.MaxConsecutiveFailures)
	assert.Equal(t, time.Duration(0), cfg.Delay)
	assert.Equal(t, "http://localhost:9001", cfg.ModelXURL)
	assert.True(t, cfg.WebFormat)
	// Defaults still fill the gaps.
	assert.Equal(t, "senior architect", cfg.SkillLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	cfg := base
	cfg.MaxRecords = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.MaxConsecutiveFailures = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Delay = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.ModelXURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	assert.NoError(t, base.Validate())
}

func TestOverlayApply(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	n := 7
	web := true
	delay := 0.5
	domain := "gardening"
	ov := Overlay{
		MaxRecords:   &n,
		WebFormat:    &web,
		DelaySeconds: &delay,
		Domain:       &domain,
	}

	cfg := ov.Apply(base)
	assert.Equal(t, 7, cfg.MaxRecords)
	assert.True(t, cfg.WebFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.Delay)
	assert.Equal(t, "gardening", cfg.Domain)
	// Untouched fields keep base values.
	assert.Equal(t, base.ModelXURL, cfg.ModelXURL)

	// Empty overlay is a no-op.
	assert.Equal(t, base, Overlay{}.Apply(base))
}
