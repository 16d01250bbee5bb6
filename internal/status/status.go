// Package status prints the human-facing per-file progress lines of the
// controller and worker, colored when stdout is a terminal.
package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type Kind int

const (
	Info Kind = iota
	Run
	Done
	Skip
	Retry
	Fail
	Progress
)

var styles = map[Kind]lipgloss.Style{
	Info:     lipgloss.NewStyle(),
	Run:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	Skip:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Retry:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	Progress: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

// Printer writes one status line per call.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styled bool
}

// New styles output only when w is a terminal.
func New(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{w: w, styled: styled}
}

// Plain never styles output.
func Plain(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Printf(kind Kind, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if p.styled && !strings.Contains(line, "\n") {
		line = styles[kind].Render(line)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}
