package engine

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
)

// Settings are the machine-level paths the backends need.
type Settings struct {
	Python           string
	WhisperCppBinary string
	ModelDir         string
	FFmpegBinary     string
	Threads          int
	TempDir          string
}

// NewFactory returns a Factory that loads the backend named in the key.
func NewFactory(s Settings, exec executor.Executor, log logger.Logger) Factory {
	return func(ctx context.Context, key Key) (Engine, error) {
		log.Info(ctx, "Loading %s model %s (%s)", key.Backend, key.Model, key.ComputeType)
		switch key.Backend {
		case BackendFasterWhisper, "":
			key.Backend = BackendFasterWhisper
			return newFasterWhisper(key, s.Python, log)
		case BackendWhisperCpp:
			return newWhisperCpp(key, s, exec, log)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, key.Backend)
		}
	}
}
