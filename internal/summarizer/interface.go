package summarizer

import "context"

// Digester is a single call to a summarization model: text in, shorter text out.
// Implementations may have an input-length ceiling; Summarizer chunks around it.
type Digester interface {
	Digest(ctx context.Context, text string) (string, error)
}

// Summarizer turns an arbitrarily long transcript into at most max sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, max int) ([]string, error)
}
