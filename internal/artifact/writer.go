package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
	"github.com/spf13/afero"
)

const (
	vttHeader          = "WEBVTT\n\n"
	emptySummaryBullet = "- No content to summarize.\n"
	summaryPlaceholder = "# Summary\n\n"
)

// Write emits transcript.txt, captions.srt, captions.vtt, full.txt and
// summary.md in that order. summary.md goes last so an interrupted run never
// looks complete.
func (w *implWriter) Write(ctx context.Context, req Request) error {
	if err := EnsureDir(w.fs, req.Dir); err != nil {
		return err
	}

	files := []struct {
		name string
		data string
	}{
		{TranscriptFile, renderTranscript(req.Segments)},
		{SRTFile, renderSRT(req.Segments)},
		{VTTFile, renderVTT(req.Segments)},
		{FullTextFile, req.FullText},
	}
	for _, f := range files {
		if err := writeFileAtomic(w.fs, filepath.Join(req.Dir, f.name), []byte(f.data)); err != nil {
			return err
		}
	}

	sentences, err := w.writeSummary(ctx, req)
	if err != nil {
		return err
	}

	if w.opts.Docx {
		if err := exportDocx(req.Dir, req.Name, req.Segments, sentences); err != nil {
			w.logger.Warn(ctx, "Failed to export docx for %s: %v", req.Name, err)
		}
	}
	return nil
}

func (w *implWriter) writeSummary(ctx context.Context, req Request) ([]string, error) {
	path := filepath.Join(req.Dir, SummaryFile)

	if !req.Summary {
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if exists {
			return nil, nil
		}
		return nil, writeFileAtomic(w.fs, path, []byte(summaryPlaceholder))
	}

	if w.summarizer == nil {
		return nil, errors.New("summary requested but no summarizer configured")
	}
	sentences, err := w.summarizer.Summarize(ctx, req.FullText, req.MaxSentences)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return sentences, writeFileAtomic(w.fs, path, []byte(renderSummary(req.Name, sentences)))
}

func renderTranscript(segments []transcript.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		fmt.Fprintf(&b, "[%s - %s] %s\n", Timestamp(s.Start), Timestamp(s.End), s.Text)
	}
	return b.String()
}

func renderSRT(segments []transcript.Segment) string {
	var b strings.Builder
	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, Timestamp(s.Start), Timestamp(s.End), s.Text)
	}
	return b.String()
}

func renderVTT(segments []transcript.Segment) string {
	var b strings.Builder
	b.WriteString(vttHeader)
	for _, s := range segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n", VTTTimestamp(s.Start), VTTTimestamp(s.End), s.Text)
	}
	return b.String()
}

func renderSummary(name string, sentences []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n\n", name)
	if len(sentences) == 0 {
		b.WriteString(emptySummaryBullet)
		return b.String()
	}
	for _, s := range sentences {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}
