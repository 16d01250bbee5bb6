package artifact

import (
	"context"

	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

// Summarizer condenses the full transcript into at most max sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, max int) ([]string, error)
}

// Request describes one output directory's worth of artifacts.
type Request struct {
	Dir      string
	Name     string
	Segments []transcript.Segment
	FullText string

	Summary      bool
	MaxSentences int
}

// Writer renders a transcription result into the fixed artifact set.
type Writer interface {
	Write(ctx context.Context, req Request) error
}
