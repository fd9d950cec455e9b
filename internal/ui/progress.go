package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ylchen07/keyweave/internal/errs"
)

// Color palette
const (
	ColorLoading = "214"
	ColorSuccess = "82"
	ColorError   = "196"
	ColorHint    = "245"
	ColorValue   = "81"
)

// Progress renders human-readable step messages on the diagnostic stream
type Progress struct {
	w            io.Writer
	loadingStyle lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	hintStyle    lipgloss.Style
	valueStyle   lipgloss.Style
}

// NewProgress creates a progress reporter writing to w (stderr when nil)
// Colours are only emitted when w is a terminal
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w = os.Stderr
	}

	r := lipgloss.NewRenderer(w)
	return &Progress{
		w:            w,
		loadingStyle: r.NewStyle().Foreground(lipgloss.Color(ColorLoading)),
		successStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSuccess)),
		errorStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorError)),
		hintStyle:    r.NewStyle().Foreground(lipgloss.Color(ColorHint)),
		valueStyle:   r.NewStyle().Foreground(lipgloss.Color(ColorValue)),
	}
}

// Value highlights an inline value such as a vault or file name
func (p *Progress) Value(s string) string {
	return p.valueStyle.Render(s)
}

// Loading announces a step that is starting
func (p *Progress) Loading(format string, args ...interface{}) {
	p.line(p.loadingStyle.Render("…"), format, args...)
}

// Success announces a step that completed
func (p *Progress) Success(format string, args ...interface{}) {
	p.line(p.successStyle.Render("✔"), format, args...)
}

// Error announces a failed step
func (p *Progress) Error(format string, args ...interface{}) {
	p.line(p.errorStyle.Render("✖"), format, args...)
}

// Hint prints a remediation hint below an error
func (p *Progress) Hint(text string) {
	fmt.Fprintf(p.w, "  %s\n", p.hintStyle.Render("ℹ "+text))
}

// Fatal reports a run-ending error followed by its remediation hints
func (p *Progress) Fatal(err error) {
	if err == nil {
		return
	}
	p.Error("%v", err)
	for _, h := range errs.Hints(err) {
		p.Hint(h)
	}
}

func (p *Progress) line(icon, format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
