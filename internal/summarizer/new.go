package summarizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
)

const (
	ProviderNone      = "none"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	// legacy name for "whichever provider the config selects"
	ProviderDefault = "bart"

	DefaultChunkChars = 3500
)

var (
	ErrUnknownProvider = errors.New("unknown summarizer provider")
	ErrNoAPIKeys       = errors.New("no API keys configured")
)

// Config selects and configures a Digester backend.
type Config struct {
	Provider string
	Model    string

	GeminiAPIKeys   []string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

type implSummarizer struct {
	digester   Digester
	chunkChars int
	logger     logger.Logger
}

// New wraps d with the chunk, digest, merge, re-digest policy.
func New(d Digester, chunkChars int, log logger.Logger) Summarizer {
	if chunkChars <= 0 {
		chunkChars = DefaultChunkChars
	}
	return &implSummarizer{
		digester:   d,
		chunkChars: chunkChars,
		logger:     log,
	}
}

// Known reports whether name is an accepted --summarizer value.
func Known(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderNone, ProviderDefault, ProviderGemini, ProviderOllama, ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

// Enabled reports whether provider asks for summaries at all.
func Enabled(provider string) bool {
	return strings.ToLower(strings.TrimSpace(provider)) != ProviderNone
}

// Resolve maps the worker's --summarizer value to a concrete provider. The
// legacy "bart" value and the empty string select the configured provider.
func Resolve(requested, configured string) string {
	switch r := strings.ToLower(strings.TrimSpace(requested)); r {
	case "", ProviderDefault:
		c := strings.ToLower(strings.TrimSpace(configured))
		if c == "" || c == ProviderDefault {
			return ProviderGemini
		}
		return c
	default:
		return r
	}
}

// NewDigester builds the backend named by cfg.Provider.
func NewDigester(cfg Config, log logger.Logger) (Digester, error) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case ProviderGemini:
		if len(cfg.GeminiAPIKeys) == 0 {
			return nil, fmt.Errorf("gemini: %w (set GEMINI_API_KEYS)", ErrNoAPIKeys)
		}
		return newGemini(cfg.GeminiAPIKeys, cfg.Model, log), nil
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
		return newLangchain(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
