package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // Yellow
	roundStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")) // Blue
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // Red
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))           // Gray
)

// Formatter renders report entries to a writer. The writer may be a tee
// when the operator appends the report to a file.
type Formatter struct {
	format  Format
	writer  io.Writer
	info    RoundInfo
	entries []Entry
}

// NewFormatter creates a formatter for the given format and writer.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Begin implements Reporter.
func (f *Formatter) Begin(info RoundInfo) error {
	if f.format == FormatJSON {
		f.info = info
		f.entries = f.entries[:0]
		return nil
	}

	line := fmt.Sprintf("%s [round %d] sampled %d threads",
		info.When.Format("2006-01-02 15:04:05"), info.Round, info.Sampled)
	if _, err := fmt.Fprintln(f.writer, roundStyle.Render(line)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer, dimStyle.Render(strings.Repeat("═", 70)))
	return err
}

// Emit implements Reporter.
func (f *Formatter) Emit(e Entry) error {
	if f.format == FormatJSON {
		f.entries = append(f.entries, e)
		return nil
	}

	header := fmt.Sprintf("[%d] Busy(%.1f%%) time(%s) thread(%d/%s) of process(%d) under user(%s) [%s]:",
		e.Rank, e.CPUPercent, e.CPUTime.Round(10*time.Millisecond), e.TID, e.Nid, e.PID, e.User, e.Command)
	if _, err := fmt.Fprintln(f.writer, headerStyle.Render(header)); err != nil {
		return err
	}

	if e.Failed() {
		_, err := fmt.Fprintln(f.writer, errorStyle.Render("    "+e.Error))
		return err
	}
	_, err := fmt.Fprint(f.writer, e.Stack)
	return err
}

// End implements Reporter.
func (f *Formatter) End(s Summary) error {
	if f.format == FormatJSON {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			RoundInfo
			Entries []Entry `json:"entries"`
			Summary Summary `json:"summary"`
		}{
			RoundInfo: f.info,
			Entries:   f.entries,
			Summary:   s,
		})
	}

	if s.Failed > 0 {
		_, err := fmt.Fprintf(f.writer, "%s\n\n",
			dimStyle.Render(fmt.Sprintf("%d reported, %d failed", s.Reported, s.Failed)))
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
