package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streamscribe/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if cfg.Chunking.DurationSeconds != 30 || cfg.Chunking.OverlapSeconds != 5 {
		t.Fatalf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.ChunkStrideSeconds() != 25 {
		t.Fatalf("stride = %d, want 25", cfg.ChunkStrideSeconds())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Whisper.Model != "base" {
		t.Fatalf("model = %q, want base", cfg.Whisper.Model)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("output dir not expanded: %q", cfg.Paths.OutputDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "out") + `"

[whisper]
endpoint = "http://localhost:9999/v1/audio/transcriptions"
model = "Large-V3"

[chunking]
duration_seconds = 60
overlap_seconds = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Whisper.Model != "large-v3" {
		t.Fatalf("model = %q, want large-v3", cfg.Whisper.Model)
	}
	if got := cfg.ChunkStrideSeconds(); got != 50 {
		t.Fatalf("stride = %d, want 50", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "empty endpoint",
			mutate: func(c *config.Config) { c.Whisper.Endpoint = "" },
			want:   "whisper.endpoint",
		},
		{
			name:   "unknown model",
			mutate: func(c *config.Config) { c.Whisper.Model = "enormous" },
			want:   "whisper.model",
		},
		{
			name:   "overlap exceeds duration",
			mutate: func(c *config.Config) { c.Chunking.OverlapSeconds = 30 },
			want:   "overlap_seconds",
		},
		{
			name:   "negative overlap",
			mutate: func(c *config.Config) { c.Chunking.OverlapSeconds = -1 },
			want:   "overlap_seconds",
		},
		{
			name:   "bad log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q missing %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample should exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
