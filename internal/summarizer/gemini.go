package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"google.golang.org/genai"
)

const digestPrompt = `Summarize the following transcript excerpt in a short paragraph of plain English sentences.
Keep the most important points in the order they appear. Do not use bullet points, headings or markdown.
Use at most 100 words.

Transcript:
---
%s
---`

type geminiDigester struct {
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
}

func newGemini(apiKeys []string, model string, log logger.Logger) *geminiDigester {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiDigester{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
}

// Digest sends text to Gemini. Rotates API keys on 429 / quota errors.
func (g *geminiDigester) Digest(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(digestPrompt, text)

	var lastErr error
	for range len(g.apiKeys) {
		key := g.apiKeys[g.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var b strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				b.WriteString(part.Text)
			}
			return b.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiDigester) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
