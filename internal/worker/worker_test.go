package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/artifact"
	"github.com/nguyentantai21042004/caption-batch/internal/engine"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/internal/summarizer"
	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

// slowStream advances the clock by gap before each segment.
type slowStream struct {
	*transcript.SliceStream
	clock  *clock
	gap    time.Duration
	closed bool
}

func (s *slowStream) Next() (transcript.Segment, error) {
	s.clock.t = s.clock.t.Add(s.gap)
	return s.SliceStream.Next()
}

func (s *slowStream) Close() error {
	s.closed = true
	return nil
}

type fakeEngine struct {
	stream      *slowStream
	err         error
	transcribes int
	gotOpts     engine.Options
}

func (f *fakeEngine) Transcribe(_ context.Context, _ string, opts engine.Options) (transcript.Stream, error) {
	f.transcribes++
	f.gotOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func (f *fakeEngine) Close() error { return nil }

type fakeSource struct {
	engine   *fakeEngine
	err      error
	acquires int
	gotKey   engine.Key
}

func (f *fakeSource) Acquire(_ context.Context, key engine.Key) (engine.Engine, error) {
	f.acquires++
	f.gotKey = key
	if f.err != nil {
		return nil, f.err
	}
	return f.engine, nil
}

type fakeSummarizer struct{ sentences []string }

func (f fakeSummarizer) Summarize(context.Context, string, int) ([]string, error) {
	return f.sentences, nil
}

type harness struct {
	fs     afero.Fs
	clock  *clock
	engine *fakeEngine
	source *fakeSource
	out    *bytes.Buffer
	worker *implWorker
}

func newHarness(gap time.Duration, segs ...transcript.Segment) *harness {
	fs := afero.NewMemMapFs()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	eng := &fakeEngine{stream: &slowStream{
		SliceStream: transcript.NewSliceStream(transcript.Info{Language: "en", Duration: 9}, segs),
		clock:       c,
		gap:         gap,
	}}
	src := &fakeSource{engine: eng}
	out := &bytes.Buffer{}
	writer := artifact.New(fs, fakeSummarizer{sentences: []string{"A greeting and a farewell."}}, logger.Discard(), artifact.Options{})

	w := New(fs, src, writer, status.Plain(out), logger.Discard()).(*implWorker)
	w.now = c.Now
	return &harness{fs: fs, clock: c, engine: eng, source: src, out: out, worker: w}
}

func params() Params {
	return Params{
		InputFile:       "/in/My Talk.mp4",
		OutputRoot:      "/out",
		Backend:         engine.BackendFasterWhisper,
		Model:           "large-v3",
		ComputeType:     "int8",
		Language:        "auto",
		BeamSize:        5,
		Summary:         true,
		SummaryMax:      8,
		StallTimeout:    180 * time.Second,
		VADMinSilenceMs: 400,
	}
}

var scenario = []transcript.Segment{
	{Start: 0.0, End: 2.0, Text: "Hello"},
	{Start: 2.0, End: 5.0, Text: "world."},
	{Start: 5.0, End: 9.0, Text: "Goodbye."},
}

func TestRun_EndToEnd(t *testing.T) {
	h := newHarness(time.Second, scenario...)

	code := h.worker.Run(context.Background(), params())
	require.Equal(t, ExitOK, code, h.out.String())

	dir := "/out/My_Talk"
	transcriptTxt, err := afero.ReadFile(h.fs, dir+"/transcript.txt")
	require.NoError(t, err)
	assert.Equal(t,
		"[00:00:00,000 - 00:00:02,000] Hello\n"+
			"[00:00:02,000 - 00:00:05,000] world.\n"+
			"[00:00:05,000 - 00:00:09,000] Goodbye.\n",
		string(transcriptTxt))

	srt, err := afero.ReadFile(h.fs, dir+"/captions.srt")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(srt), " --> "))
	assert.True(t, strings.HasPrefix(string(srt), "1\n"))

	full, err := afero.ReadFile(h.fs, dir+"/full.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello world. Goodbye.", string(full))

	summary, err := afero.ReadFile(h.fs, dir+"/summary.md")
	require.NoError(t, err)
	assert.Equal(t, "# Summary: My_Talk\n\n- A greeting and a farewell.\n", string(summary))

	assert.True(t, artifact.IsComplete(h.fs, dir))
	assert.True(t, h.engine.stream.closed)
	assert.Equal(t, engine.Key{Backend: "faster-whisper", Model: "large-v3", ComputeType: "int8"}, h.source.gotKey)
	assert.Equal(t, engine.Options{Language: "auto", BeamSize: 5, VADFilter: true, VADMinSilenceMs: 400}, h.engine.gotOpts)

	out := h.out.String()
	assert.Contains(t, out, "START: My Talk.mp4\n")
	assert.Contains(t, out, "    My Talk.mp4: processed 2s of audio\n")
	assert.Contains(t, out, "DONE: My Talk.mp4\n")
}

func TestRun_SecondCallDoesNoWork(t *testing.T) {
	h := newHarness(time.Second, scenario...)

	require.Equal(t, ExitOK, h.worker.Run(context.Background(), params()))
	require.Equal(t, 1, h.source.acquires)

	h.out.Reset()
	require.Equal(t, ExitOK, h.worker.Run(context.Background(), params()))

	assert.Equal(t, 1, h.source.acquires)
	assert.Equal(t, 1, h.engine.transcribes)
	assert.Equal(t, "SKIP (already done): My Talk.mp4\n", h.out.String())
}

func TestRun_Stalled(t *testing.T) {
	// many buffered segments, none advancing the audio position by more than 0.5s
	var segs []transcript.Segment
	for i := 0; i < 20; i++ {
		segs = append(segs, transcript.Segment{Start: 1, End: 1 + float64(i)*0.01, Text: "um"})
	}
	h := newHarness(time.Minute, segs...)

	code := h.worker.Run(context.Background(), params())
	assert.Equal(t, ExitStalled, code)

	entries, err := afero.ReadDir(h.fs, "/out/My_Talk")
	require.NoError(t, err)
	assert.Empty(t, entries, "no artifacts may be written on stall")
	assert.True(t, h.engine.stream.closed)

	out := h.out.String()
	assert.Contains(t, out, "    My Talk.mp4: no progress for 180s → aborting\n")
	assert.Contains(t, out, "ERROR (progress-timeout): My Talk.mp4\n")
}

func TestRun_StallDisabled(t *testing.T) {
	var segs []transcript.Segment
	for i := 0; i < 5; i++ {
		segs = append(segs, transcript.Segment{Start: 1, End: 1, Text: "um"})
	}
	h := newHarness(time.Hour, segs...)
	p := params()
	p.StallTimeout = 0

	assert.Equal(t, ExitOK, h.worker.Run(context.Background(), p))
}

func TestRun_EngineFailures(t *testing.T) {
	t.Run("load error", func(t *testing.T) {
		h := newHarness(time.Second, scenario...)
		h.source.err = errors.New("CUDA unavailable")

		assert.Equal(t, ExitFailed, h.worker.Run(context.Background(), params()))
		assert.Contains(t, h.out.String(), "ERROR: My Talk.mp4 -> ")
	})

	t.Run("transcribe error", func(t *testing.T) {
		h := newHarness(time.Second, scenario...)
		h.engine.err = errors.New("unsupported codec")

		assert.Equal(t, ExitFailed, h.worker.Run(context.Background(), params()))
		entries, err := afero.ReadDir(h.fs, "/out/My_Talk")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("cancelled", func(t *testing.T) {
		h := newHarness(time.Second, scenario...)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Equal(t, ExitFailed, h.worker.Run(ctx, params()))
		assert.False(t, artifact.IsComplete(h.fs, "/out/My_Talk"))
	})
}

func TestRun_SummaryDisabledWritesPlaceholder(t *testing.T) {
	h := newHarness(time.Second, scenario...)
	p := params()
	p.Summary = false

	require.Equal(t, ExitOK, h.worker.Run(context.Background(), p))
	summary, err := afero.ReadFile(h.fs, "/out/My_Talk/summary.md")
	require.NoError(t, err)
	assert.Equal(t, "# Summary\n\n", string(summary))
}

func TestRun_SilentVideoNeedsNoSummaryBackend(t *testing.T) {
	h := newHarness(time.Second)
	builds := 0
	lazy := summarizer.NewLazy(func() (summarizer.Digester, error) {
		builds++
		return nil, summarizer.ErrNoAPIKeys
	}, 0, logger.Discard())
	h.worker.writer = artifact.New(h.fs, lazy, logger.Discard(), artifact.Options{})

	code := h.worker.Run(context.Background(), params())
	require.Equal(t, ExitOK, code, h.out.String())

	assert.Zero(t, builds)
	assert.True(t, artifact.IsComplete(h.fs, "/out/My_Talk"))
	summary, err := afero.ReadFile(h.fs, "/out/My_Talk/summary.md")
	require.NoError(t, err)
	assert.Equal(t, "# Summary: My_Talk\n\n- No content to summarize.\n", string(summary))
}
