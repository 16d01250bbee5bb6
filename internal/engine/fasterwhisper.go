package engine

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

//go:embed assets/faster_whisper_stream.py
var fasterWhisperScript []byte

// fasterWhisper runs the embedded Python helper once per file. Loading the
// handle resolves the interpreter and materializes the script.
type fasterWhisper struct {
	key        Key
	python     string
	scriptPath string
	logger     logger.Logger
}

type helperLine struct {
	Type     string  `json:"type"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Message  string  `json:"message"`
}

func newFasterWhisper(key Key, python string, log logger.Logger) (*fasterWhisper, error) {
	pyPath, err := exec.LookPath(python)
	if err != nil {
		return nil, fmt.Errorf("find python interpreter %q: %w", python, err)
	}

	f, err := os.CreateTemp("", "faster-whisper-*.py")
	if err != nil {
		return nil, fmt.Errorf("create helper script: %w", err)
	}
	if _, err := f.Write(fasterWhisperScript); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write helper script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write helper script: %w", err)
	}

	return &fasterWhisper{
		key:        key,
		python:     pyPath,
		scriptPath: f.Name(),
		logger:     log,
	}, nil
}

func (fw *fasterWhisper) args(mediaPath string, opts Options) []string {
	args := []string{
		fw.scriptPath,
		"--media", mediaPath,
		"--model", fw.key.Model,
		"--compute-type", fw.key.ComputeType,
		"--language", opts.Language,
		"--beam", strconv.Itoa(opts.BeamSize),
	}
	if opts.VADFilter {
		args = append(args, "--vad", "--vad-min-silence-ms", strconv.Itoa(opts.VADMinSilenceMs))
	}
	return args
}

// Transcribe starts the helper and blocks until it reports recognition info,
// which includes model load time.
func (fw *fasterWhisper) Transcribe(ctx context.Context, mediaPath string, opts Options) (transcript.Stream, error) {
	fw.logger.Debug(ctx, "Starting faster-whisper helper for %s (%s)", mediaPath, fw.key)

	s, err := startProcessStream(ctx, "faster-whisper", fw.python, fw.args(mediaPath, opts), parseHelperLine)
	if err != nil {
		return nil, err
	}

	info, err := readHelperInfo(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.info = info
	return s, nil
}

func (fw *fasterWhisper) Close() error {
	return os.Remove(fw.scriptPath)
}

func readHelperInfo(s *processStream) (transcript.Info, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		var hl helperLine
		if err := json.Unmarshal([]byte(line), &hl); err != nil {
			return transcript.Info{}, fmt.Errorf("decode helper header %q: %w", line, err)
		}
		switch hl.Type {
		case "info":
			return transcript.Info{Language: hl.Language, Duration: hl.Duration}, nil
		case "error":
			return transcript.Info{}, fmt.Errorf("faster-whisper: %s", hl.Message)
		default:
			return transcript.Info{}, fmt.Errorf("unexpected helper line type %q before info", hl.Type)
		}
	}
	if err := s.wait(); err != nil {
		return transcript.Info{}, err
	}
	return transcript.Info{}, errors.New("faster-whisper exited before reporting info")
}

func parseHelperLine(line string) (transcript.Segment, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return transcript.Segment{}, false, nil
	}
	var hl helperLine
	if err := json.Unmarshal([]byte(line), &hl); err != nil {
		return transcript.Segment{}, false, fmt.Errorf("decode helper line %q: %w", line, err)
	}
	switch hl.Type {
	case "segment":
		return transcript.Segment{Start: hl.Start, End: hl.End, Text: hl.Text}, true, nil
	case "error":
		return transcript.Segment{}, false, fmt.Errorf("faster-whisper: %s", hl.Message)
	default:
		return transcript.Segment{}, false, nil
	}
}
