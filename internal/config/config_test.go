package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "whisper.cpp backend",
			config: Config{
				Whisper: WhisperConfig{Backend: "whisper-cpp", ModelDir: "models"},
			},
			wantErr: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Whisper: WhisperConfig{Backend: "vosk"},
			},
			wantErr: true,
		},
		{
			name: "negative beam",
			config: Config{
				Whisper: WhisperConfig{BeamSize: -1},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				Batch: BatchConfig{TimeoutSeconds: -5},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalid", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Whisper.Model != "large-v3" {
		t.Errorf("Model = %v, want large-v3", cfg.Whisper.Model)
	}
	if cfg.Whisper.ComputeType != "int8" {
		t.Errorf("ComputeType = %v, want int8", cfg.Whisper.ComputeType)
	}
	if cfg.Whisper.Language != "auto" {
		t.Errorf("Language = %v, want auto", cfg.Whisper.Language)
	}
	if cfg.Whisper.BeamSize != 5 {
		t.Errorf("BeamSize = %v, want 5", cfg.Whisper.BeamSize)
	}
	if cfg.Batch.Retries != 2 {
		t.Errorf("Retries = %v, want 2", cfg.Batch.Retries)
	}
	if cfg.Batch.ProgressTimeoutSeconds != 180 {
		t.Errorf("ProgressTimeoutSeconds = %v, want 180", cfg.Batch.ProgressTimeoutSeconds)
	}
	if cfg.Batch.TimeoutSeconds != 0 {
		t.Errorf("TimeoutSeconds = %v, want 0", cfg.Batch.TimeoutSeconds)
	}
	if cfg.Summary.MaxSentences != 8 {
		t.Errorf("MaxSentences = %v, want 8", cfg.Summary.MaxSentences)
	}
	if cfg.Batch.Extension != ".mp4" {
		t.Errorf("Extension = %v, want .mp4", cfg.Batch.Extension)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
whisper:
  model: "small"
  language: "en"

summary:
  provider: "none"

batch:
  retries: 0
  timeout_seconds: 600

paths:
  input: "videos"
  output: "out"
`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.Model != "small" {
		t.Errorf("Model = %v, want %v", cfg.Whisper.Model, "small")
	}
	if cfg.Paths.Input != "videos" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "videos")
	}
	// explicit zero survives defaulting
	if cfg.Batch.Retries != 0 {
		t.Errorf("Retries = %v, want 0", cfg.Batch.Retries)
	}
	if cfg.Batch.ProgressTimeoutSeconds != 180 {
		t.Errorf("ProgressTimeoutSeconds = %v, want 180", cfg.Batch.ProgressTimeoutSeconds)
	}
	if got := cfg.Batch.Timeout().Seconds(); got != 600 {
		t.Errorf("Timeout() = %vs, want 600s", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gemini:\n  api_keys: [\"from-file\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEYS", "a, b,,c")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Gemini.APIKeys) != 3 || cfg.Gemini.APIKeys[1] != "b" {
		t.Errorf("APIKeys = %v, want [a b c]", cfg.Gemini.APIKeys)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Whisper.Model != "large-v3" {
		t.Errorf("Model = %v, want defaults", cfg.Whisper.Model)
	}
}
