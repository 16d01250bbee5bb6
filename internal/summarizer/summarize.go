package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Summarize collapses whitespace, splits text into chunks of at most
// chunkChars on sentence boundaries, digests each chunk, digests the joined
// digests once more, and returns the first max sentences of the result.
func (s *implSummarizer) Summarize(ctx context.Context, text string, max int) ([]string, error) {
	text = collapseWhitespace(text)
	if text == "" {
		return nil, nil
	}

	chunks := chunkText(text, s.chunkChars)
	s.logger.Debug(ctx, "Summarizing %d chars in %d chunk(s)", utf8.RuneCountInString(text), len(chunks))

	partials := make([]string, 0, len(chunks))
	for i, c := range chunks {
		out, err := s.digester.Digest(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("digest chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, strings.TrimSpace(out))
	}

	merged, err := s.digester.Digest(ctx, strings.Join(partials, " "))
	if err != nil {
		return nil, fmt.Errorf("digest merged summary: %w", err)
	}

	sentences := splitSentences(collapseWhitespace(merged))
	if max > 0 && len(sentences) > max {
		sentences = sentences[:max]
	}
	return sentences, nil
}

// chunkText packs sentences greedily into chunks of at most max characters.
// A single sentence longer than max becomes its own oversized chunk.
func chunkText(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var (
		chunks []string
		cur    string
	)
	for _, sent := range splitSentences(text) {
		if cur != "" && utf8.RuneCountInString(cur)+utf8.RuneCountInString(sent)+1 > max {
			chunks = append(chunks, strings.TrimSpace(cur))
			cur = sent
			continue
		}
		if cur == "" {
			cur = sent
		} else {
			cur += " " + sent
		}
	}
	if cur != "" {
		chunks = append(chunks, strings.TrimSpace(cur))
	}
	return chunks
}
