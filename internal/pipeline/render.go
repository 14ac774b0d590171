package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/tweetlens/internal/model"
	"github.com/ppiankov/tweetlens/internal/query"
)

// ErrUnknownFormat is returned for an output format other than text, json or md
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// NormalizeFormat maps a user-supplied format name to one of the Format
// constants
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Extension returns the file extension (with dot) for a format
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Renderer writes reports
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer. Verbose output adds source metadata to
// text and Markdown reports.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// Render writes report to w in format
func (r *Renderer) Render(w io.Writer, report *model.Report, format string) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return r.RenderJSON(w, report)
	case FormatMarkdown:
		return r.RenderMarkdown(w, report)
	default:
		return r.RenderText(w, report)
	}
}

// RenderFile writes report to path in format
func (r *Renderer) RenderFile(report *model.Report, path, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()

	return r.Render(f, report, format)
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderText writes a terse human-readable report
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	var b strings.Builder

	if r.verbose {
		fmt.Fprintf(&b, "# %s\n", report.Query)
		if report.Source != "" {
			fmt.Fprintf(&b, "# source: %s (%d tweets)\n", report.Source, report.TweetCount)
		}
		fmt.Fprintf(&b, "# generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	}

	switch {
	case report.HasError():
		fmt.Fprintf(&b, "error: %s\n", report.Error)
	case report.Op == query.OpTimespan && report.Timespan != nil:
		fmt.Fprintf(&b, "%s\n%s\n", formatTime(report.Timespan.Start()), formatTime(report.Timespan.End()))
		if r.verbose {
			fmt.Fprintf(&b, "# duration: %s\n", report.Timespan.Duration())
		}
	case report.Op == query.OpMentions:
		for _, m := range report.Mentions {
			fmt.Fprintf(&b, "%s\n", m)
		}
	default:
		for _, t := range report.Tweets {
			fmt.Fprintf(&b, "%d\t%s\t@%s\t%s\n", t.ID, formatTime(t.Timestamp), t.Author, oneLine(t.Text))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# `%s`\n\n", report.Query)
	if r.verbose {
		if report.Source != "" {
			fmt.Fprintf(&b, "- **Source:** `%s`\n", report.Source)
		}
		fmt.Fprintf(&b, "- **Tweets in collection:** %d\n", report.TweetCount)
		fmt.Fprintf(&b, "- **Generated:** %s\n\n", report.GeneratedAt.Format(time.RFC3339))
	}

	switch {
	case report.HasError():
		fmt.Fprintf(&b, "> **Error:** %s\n", report.Error)
	case report.Op == query.OpTimespan && report.Timespan != nil:
		b.WriteString("| Start | End | Duration |\n|---|---|---|\n")
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			formatTime(report.Timespan.Start()), formatTime(report.Timespan.End()), report.Timespan.Duration())
	case report.Op == query.OpMentions:
		fmt.Fprintf(&b, "**%d mentioned users**\n\n", len(report.Mentions))
		for _, m := range report.Mentions {
			fmt.Fprintf(&b, "- @%s\n", m)
		}
	default:
		fmt.Fprintf(&b, "**%d of %d tweets matched**\n\n", report.Matched, report.TweetCount)
		if len(report.Tweets) > 0 {
			b.WriteString("| ID | Time | Author | Text |\n|---|---|---|---|\n")
			for _, t := range report.Tweets {
				fmt.Fprintf(&b, "| %d | %s | @%s | %s |\n", t.ID, formatTime(t.Timestamp), t.Author, escapeCell(t.Text))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}
