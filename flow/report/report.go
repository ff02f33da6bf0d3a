// Package report renders the user-facing verdict text: stage banners,
// colored pass/fail markers and mismatch lines.
//
// Styling goes through lipgloss, which drops colors when the output is not a
// terminal, so the same text is safe to write into logs and test buffers.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Verdict strings printed at the end of a stage or a run.
const (
	PassString = "PASS ^__^"
	FailString = "FAIL @__@"
)

var (
	passColor = lipgloss.Color("#25A065")
	failColor = lipgloss.Color("#DC3545")

	passStyle   = lipgloss.NewStyle().Foreground(passColor)
	failStyle   = lipgloss.NewStyle().Foreground(failColor)
	passBanner  = passStyle.Bold(true)
	failBanner  = failStyle.Bold(true)
	plainBanner = lipgloss.NewStyle()
)

// Banner writes msg framed by a row of stars above and below:
//
//	***********
//	* COMPILE *
//	***********
func Banner(w io.Writer, msg string) {
	writeBanner(w, msg, plainBanner)
}

// Pass writes the green success banner.
func Pass(w io.Writer) {
	writeBanner(w, PassString, passBanner)
}

// Fail writes the red failure banner.
func Fail(w io.Writer) {
	writeBanner(w, FailString, failBanner)
}

func writeBanner(w io.Writer, msg string, style lipgloss.Style) {
	line := fmt.Sprintf("* %s *", msg)
	frame := strings.Repeat("*", len(line))
	_, _ = fmt.Fprintln(w, style.Render(frame+"\n"+line+"\n"+frame))
}

// Red renders s in the failure color.
func Red(s string) string {
	return failStyle.Render(s)
}

// Green renders s in the pass color.
func Green(s string) string {
	return passStyle.Render(s)
}

// Mismatchf writes one red diagnostic line.
func Mismatchf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, Red(fmt.Sprintf(format, args...)))
}
