package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
)

// 16 kHz, mono, 16-bit PCM
const (
	wavBytesPerSecond = 16000 * 2
	wavHeaderBytes    = 44
)

// whisper-cli prints one "[00:00:00.000 --> 00:00:02.000]  text" line per segment
var cppSegmentLine = regexp.MustCompile(`^\[(\d+:\d{2}:\d{2}[.,]\d{3})\s+-->\s+(\d+:\d{2}:\d{2}[.,]\d{3})\]\s*(.*)$`)

type whisperCpp struct {
	key       Key
	binary    string
	modelPath string
	ffmpeg    string
	threads   int
	tempDir   string
	executor  executor.Executor
	logger    logger.Logger
}

func newWhisperCpp(key Key, s Settings, ex executor.Executor, log logger.Logger) (*whisperCpp, error) {
	bin, err := exec.LookPath(s.WhisperCppBinary)
	if err != nil {
		return nil, fmt.Errorf("find whisper.cpp binary %q: %w", s.WhisperCppBinary, err)
	}
	modelPath := filepath.Join(s.ModelDir, "ggml-"+key.Model+".bin")
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
	}
	if key.ComputeType != "" && key.ComputeType != "auto" {
		log.Debug(context.Background(), "whisper.cpp ignores compute type %q", key.ComputeType)
	}
	return &whisperCpp{
		key:       key,
		binary:    bin,
		modelPath: modelPath,
		ffmpeg:    s.FFmpegBinary,
		threads:   s.Threads,
		tempDir:   s.TempDir,
		executor:  ex,
		logger:    log,
	}, nil
}

// Transcribe extracts 16 kHz mono audio with ffmpeg, then streams whisper-cli's
// segment lines as they are printed. VAD options are not forwarded.
func (w *whisperCpp) Transcribe(ctx context.Context, mediaPath string, opts Options) (transcript.Stream, error) {
	audioPath, err := w.extractAudio(ctx, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	lang := opts.Language
	if lang == "" {
		lang = "auto"
	}
	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-l", lang,
		"-bs", strconv.Itoa(opts.BeamSize),
		"-t", strconv.Itoa(w.threads),
		"-np",
	}

	s, err := startProcessStream(ctx, "whisper-cli", w.binary, args, parseCppLine)
	if err != nil {
		os.Remove(audioPath)
		return nil, err
	}
	s.cleanup = append(s.cleanup, func() { os.Remove(audioPath) })
	s.info = transcript.Info{Language: lang, Duration: wavDuration(audioPath)}
	return s, nil
}

func (w *whisperCpp) extractAudio(ctx context.Context, mediaPath string) (string, error) {
	f, err := os.CreateTemp(w.tempDir, "caption-batch-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	audioPath := f.Name()
	f.Close()

	w.logger.Debug(ctx, "Extracting audio: %s -> %s", mediaPath, audioPath)

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}
	if _, err := w.executor.Execute(ctx, w.ffmpeg, args...); err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return audioPath, nil
}

func (w *whisperCpp) Close() error { return nil }

func wavDuration(path string) float64 {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= wavHeaderBytes {
		return 0
	}
	return float64(info.Size()-wavHeaderBytes) / wavBytesPerSecond
}

func parseCppLine(line string) (transcript.Segment, bool, error) {
	m := cppSegmentLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return transcript.Segment{}, false, nil
	}
	start, err := parseClock(m[1])
	if err != nil {
		return transcript.Segment{}, false, err
	}
	end, err := parseClock(m[2])
	if err != nil {
		return transcript.Segment{}, false, err
	}
	return transcript.Segment{Start: start, End: end, Text: m[3]}, true, nil
}

// parseClock reads HH:MM:SS.mmm (or ,mmm) into seconds.
func parseClock(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err := errors.Join(err1, err2, err3); err != nil {
		return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return float64(h*3600+m*60) + sec, nil
}
