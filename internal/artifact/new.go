package artifact

import (
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/spf13/afero"
)

type Options struct {
	// Docx also renders transcript.docx and summary.docx. These go through
	// the OS filesystem regardless of the afero backend.
	Docx bool
}

type implWriter struct {
	fs         afero.Fs
	summarizer Summarizer
	logger     logger.Logger
	opts       Options
}

// New creates a Writer on fs. summarizer may be nil if no request asks for a summary.
func New(fs afero.Fs, summarizer Summarizer, log logger.Logger, opts Options) Writer {
	return &implWriter{
		fs:         fs,
		summarizer: summarizer,
		logger:     log,
		opts:       opts,
	}
}
