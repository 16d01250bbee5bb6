// Package transcript holds the segment model shared by the recognition
// engines, the stream consumer and the artifact writer.
package transcript

import "io"

// Segment is one timed span of recognized speech. Start <= End, and a stream
// yields segments in non-decreasing End order.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Info is the recognition metadata reported alongside the segment stream.
type Info struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Result is a fully consumed stream.
type Result struct {
	Segments []Segment
	FullText string
	Info     Info
}

// Stream is a lazy, finite, forward-only sequence of segments. Next returns
// io.EOF once the sequence is exhausted. It is consumed exactly once.
type Stream interface {
	Info() Info
	Next() (Segment, error)
	Close() error
}

// SliceStream serves segments from memory. Useful for engines that produce
// their output in one go, and in tests.
type SliceStream struct {
	info     Info
	segments []Segment
	pos      int
}

func NewSliceStream(info Info, segments []Segment) *SliceStream {
	return &SliceStream{info: info, segments: segments}
}

func (s *SliceStream) Info() Info { return s.info }

func (s *SliceStream) Next() (Segment, error) {
	if s.pos >= len(s.segments) {
		return Segment{}, io.EOF
	}
	seg := s.segments[s.pos]
	s.pos++
	return seg, nil
}

func (s *SliceStream) Close() error { return nil }
