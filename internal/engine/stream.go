package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

const stderrTailBytes = 4096

// lineParser turns one stdout line into a segment. ok=false skips the line.
type lineParser func(line string) (seg transcript.Segment, ok bool, err error)

// processStream reads segments from a helper process's stdout, line by line,
// as the helper produces them.
type processStream struct {
	tool    string
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	stdout  io.ReadCloser
	stderr  *tailBuffer
	parse   lineParser
	info    transcript.Info

	waitOnce sync.Once
	waitErr  error
	cleanup  []func()
	closed   bool
}

func startProcessStream(ctx context.Context, tool, name string, args []string, parse lineParser) (*processStream, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdout: %w", tool, err)
	}
	stderr := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", tool, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &processStream{
		tool:    tool,
		cmd:     cmd,
		scanner: scanner,
		stdout:  stdout,
		stderr:  stderr,
		parse:   parse,
	}, nil
}

func (s *processStream) Info() transcript.Info { return s.info }

func (s *processStream) Next() (transcript.Segment, error) {
	for s.scanner.Scan() {
		seg, ok, err := s.parse(s.scanner.Text())
		if err != nil {
			return transcript.Segment{}, err
		}
		if ok {
			return seg, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return transcript.Segment{}, fmt.Errorf("read %s output: %w", s.tool, err)
	}
	if err := s.wait(); err != nil {
		return transcript.Segment{}, err
	}
	return transcript.Segment{}, io.EOF
}

func (s *processStream) wait() error {
	s.waitOnce.Do(func() {
		err := s.cmd.Wait()
		if err == nil {
			return
		}
		pe := &ProcessError{Tool: s.tool, ExitCode: -1, Stderr: s.stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			pe.ExitCode = exitErr.ExitCode()
		}
		s.waitErr = pe
	})
	return s.waitErr
}

// Close kills the helper if it is still running and runs cleanups.
func (s *processStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd.ProcessState == nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.wait()
	for _, fn := range s.cleanup {
		fn()
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(bytes.TrimSpace(t.buf))
}
