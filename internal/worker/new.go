package worker

import (
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/artifact"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/spf13/afero"
)

type implWorker struct {
	fs      afero.Fs
	engines EngineSource
	writer  artifact.Writer
	status  *status.Printer
	logger  logger.Logger
	now     func() time.Time
}

// New creates a Worker. engines is only touched when a file actually needs
// transcribing.
func New(fs afero.Fs, engines EngineSource, writer artifact.Writer, out *status.Printer, log logger.Logger) Worker {
	return &implWorker{
		fs:      fs,
		engines: engines,
		writer:  writer,
		status:  out,
		logger:  log,
		now:     time.Now,
	}
}
