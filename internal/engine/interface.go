package engine

import (
	"context"

	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

const (
	BackendFasterWhisper = "faster-whisper"
	BackendWhisperCpp    = "whisper-cpp"
)

// Models lists the model sizes both backends understand.
var Models = []string{"tiny", "base", "small", "medium", "large-v1", "large-v2", "large-v3"}

// Options are the per-file decoding parameters.
type Options struct {
	// Language is an ISO code or "auto" for detection.
	Language        string
	BeamSize        int
	VADFilter       bool
	VADMinSilenceMs int
}

// Engine is a loaded recognition model. Transcribe may be called repeatedly;
// each returned stream must be closed by the caller.
type Engine interface {
	Transcribe(ctx context.Context, mediaPath string, opts Options) (transcript.Stream, error)
	Close() error
}

// Key identifies a loaded engine.
type Key struct {
	Backend     string
	Model       string
	ComputeType string
}

func (k Key) String() string {
	return k.Backend + "/" + k.Model + "/" + k.ComputeType
}

// Factory loads the engine for key.
type Factory func(ctx context.Context, key Key) (Engine, error)
