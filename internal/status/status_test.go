package status

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	p := Plain(&buf)

	p.Printf(Run, "[%d/%d] RUN (%d/%d): %s", 1, 2, 1, 3, "a.mp4")
	p.Printf(Done, "DONE: %s", "a.mp4")

	assert.Equal(t, "[1/2] RUN (1/3): a.mp4\nDONE: a.mp4\n", buf.String())
}

func TestNew_NonTerminalIsPlain(t *testing.T) {
	assert.False(t, New(&bytes.Buffer{}).styled)

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, New(f).styled)
}
