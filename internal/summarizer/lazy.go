package summarizer

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
)

// lazySummarizer defers building the backend until the first summary is
// requested, so runs that never summarize need no credentials.
type lazySummarizer struct {
	once    sync.Once
	build   func() (Digester, error)
	chunk   int
	logger  logger.Logger
	inner   Summarizer
	initErr error
}

// NewLazy returns a Summarizer whose Digester comes from build on first use.
func NewLazy(build func() (Digester, error), chunkChars int, log logger.Logger) Summarizer {
	return &lazySummarizer{build: build, chunk: chunkChars, logger: log}
}

func (l *lazySummarizer) Summarize(ctx context.Context, text string, max int) ([]string, error) {
	// nothing to digest, so no backend is needed
	if collapseWhitespace(text) == "" {
		return nil, nil
	}
	l.once.Do(func() {
		d, err := l.build()
		if err != nil {
			l.initErr = err
			return
		}
		l.inner = New(d, l.chunk, l.logger)
	})
	if l.initErr != nil {
		return nil, l.initErr
	}
	return l.inner.Summarize(ctx, text, max)
}
