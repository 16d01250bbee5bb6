package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Whisper WhisperConfig `yaml:"whisper"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Summary SummaryConfig `yaml:"summary"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	LLM     LLMConfig     `yaml:"llm"`
	Batch   BatchConfig   `yaml:"batch"`
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

type WhisperConfig struct {
	Backend         string `yaml:"backend"`
	Model           string `yaml:"model"`
	ComputeType     string `yaml:"compute_type"`
	Language        string `yaml:"language"`
	BeamSize        int    `yaml:"beam_size"`
	Python          string `yaml:"python"`
	BinaryPath      string `yaml:"binary_path"`
	ModelDir        string `yaml:"model_dir"`
	Threads         int    `yaml:"threads"`
	VADMinSilenceMs int    `yaml:"vad_min_silence_ms"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type SummaryConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	MaxSentences int    `yaml:"max_sentences"`
	ChunkChars   int    `yaml:"chunk_chars"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type LLMConfig struct {
	OllamaHost      string `yaml:"ollama_host"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

type BatchConfig struct {
	Extension              string `yaml:"extension"`
	TimeoutSeconds         int    `yaml:"timeout_seconds"`
	Retries                int    `yaml:"retries"`
	ProgressTimeoutSeconds int    `yaml:"progress_timeout_seconds"`
	RetryDelaySeconds      int    `yaml:"retry_delay_seconds"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.Batch.Retries = -1
	cfg.Batch.ProgressTimeoutSeconds = -1
	cfg.Batch.RetryDelaySeconds = -1
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML config file and applies environment overrides.
// A missing file is an error; callers that treat the file as optional should
// check os.IsNotExist themselves.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	cfg.Batch.Retries = -1
	cfg.Batch.ProgressTimeoutSeconds = -1
	cfg.Batch.RetryDelaySeconds = -1
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but falls back to Default when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" {
		c.Gemini.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.LLM.OllamaHost = v
	}
	if v := os.Getenv("CAPTION_BATCH_PYTHON"); v != "" {
		c.Whisper.Python = v
	}
}

// Validate fills defaults and rejects values the pipeline cannot run with.
// Negative batch counters mean "unset" and are replaced by their defaults.
func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "faster-whisper"
	}
	switch c.Whisper.Backend {
	case "faster-whisper", "whisper-cpp":
	default:
		return fmt.Errorf("%w: whisper.backend %q is not supported", ErrInvalid, c.Whisper.Backend)
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "large-v3"
	}
	if c.Whisper.ComputeType == "" {
		c.Whisper.ComputeType = "int8"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}
	if c.Whisper.BeamSize < 0 {
		return fmt.Errorf("%w: whisper.beam_size must be positive", ErrInvalid)
	}
	if c.Whisper.Python == "" {
		c.Whisper.Python = "python3"
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "models"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.VADMinSilenceMs == 0 {
		c.Whisper.VADMinSilenceMs = 400
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}

	if c.Summary.Provider == "" {
		c.Summary.Provider = "gemini"
	}
	if c.Summary.Model == "" {
		c.Summary.Model = DefaultSummaryModel(c.Summary.Provider)
	}
	if c.Summary.MaxSentences == 0 {
		c.Summary.MaxSentences = 8
	}
	if c.Summary.MaxSentences < 0 {
		return fmt.Errorf("%w: summary.max_sentences must be positive", ErrInvalid)
	}
	if c.Summary.ChunkChars == 0 {
		c.Summary.ChunkChars = 3500
	}
	if c.LLM.OllamaHost == "" {
		c.LLM.OllamaHost = "http://localhost:11434"
	}

	if c.Batch.Extension == "" {
		c.Batch.Extension = ".mp4"
	}
	if !strings.HasPrefix(c.Batch.Extension, ".") {
		c.Batch.Extension = "." + c.Batch.Extension
	}
	if c.Batch.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: batch.timeout_seconds must not be negative", ErrInvalid)
	}
	if c.Batch.Retries < 0 {
		c.Batch.Retries = 2
	}
	if c.Batch.ProgressTimeoutSeconds < 0 {
		c.Batch.ProgressTimeoutSeconds = 180
	}
	if c.Batch.RetryDelaySeconds < 0 {
		c.Batch.RetryDelaySeconds = 3
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// Timeout is the per-file wall-clock limit; zero means unlimited.
func (b BatchConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func (b BatchConfig) RetryDelay() time.Duration {
	return time.Duration(b.RetryDelaySeconds) * time.Second
}

// DefaultSummaryModel is the model used for provider when none is configured.
func DefaultSummaryModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "ollama":
		return "llama3.2"
	default:
		return "gemini-2.5-flash"
	}
}
