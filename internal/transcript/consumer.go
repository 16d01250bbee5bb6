package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrStalled is returned when the audio position stops advancing for longer
// than the configured stall timeout.
var ErrStalled = errors.New("no audio progress")

const (
	progressBucketSeconds = 10
	// advances smaller than this do not reset the stall clock
	advanceHysteresis = 0.5
)

// Watchdog configures Consume.
type Watchdog struct {
	// StallTimeout <= 0 disables stall detection.
	StallTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Progress is called each time the stream enters a new 10 second bucket
	// of audio, with the whole seconds processed so far.
	Progress func(audioSeconds int)
}

// Consume drains stream into a Result while checking liveness. The stall check
// runs inline once per segment; an engine that never yields a segment is not
// detected here and has to be bounded by the caller's process timeout.
// On any error no partial result is returned.
func Consume(ctx context.Context, stream Stream, wd Watchdog) (*Result, error) {
	now := wd.Now
	if now == nil {
		now = time.Now
	}

	var (
		segments     []Segment
		parts        []string
		lastAudio    float64
		lastWall     = now()
		lastReported = -1
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seg, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}

		seg.Text = strings.TrimSpace(seg.Text)
		segments = append(segments, seg)
		parts = append(parts, seg.Text)

		if bucket := int(seg.End) / progressBucketSeconds; bucket != lastReported {
			if wd.Progress != nil {
				wd.Progress(int(seg.End))
			}
			lastReported = bucket
		}

		if seg.End > lastAudio+advanceHysteresis {
			lastAudio = seg.End
			lastWall = now()
		}

		if wd.StallTimeout > 0 && now().Sub(lastWall) > wd.StallTimeout {
			return nil, fmt.Errorf("%w for %s at %.1fs of audio", ErrStalled, wd.StallTimeout, lastAudio)
		}
	}

	return &Result{
		Segments: segments,
		FullText: strings.Join(parts, " "),
		Info:     stream.Info(),
	}, nil
}
