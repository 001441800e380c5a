package rendering

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zkfm/zktools/internal/linkdoc"
)

// Format selects how a collection is written out.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatTable    Format = "table"
	FormatHTML     Format = "html"
)

// Formats lists every supported format in help-text order.
var Formats = []Format{FormatPlain, FormatMarkdown, FormatJSON, FormatTable, FormatHTML}

// ParseFormat accepts a format name case-insensitively; "md" and "text" are aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain", "text":
		return FormatPlain, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "html":
		return FormatHTML, nil
	}
	return "", &RenderError{Message: fmt.Sprintf("unknown format %q", name)}
}

// Render writes coll to w in the given format.
func Render(w io.Writer, format Format, coll *linkdoc.Collection) error {
	var out string
	var err error

	switch format {
	case FormatPlain:
		out = Plain(coll.Ordered())
	case FormatMarkdown:
		out = Markdown(coll.Ordered())
	case FormatJSON:
		out, err = JSON(coll)
	case FormatTable:
		out = Table(coll.Ordered())
	case FormatHTML:
		var page []byte
		page, err = HTML(coll.Ordered())
		out = string(page)
	default:
		err = &RenderError{Message: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, out); err != nil {
		return &RenderError{Message: "failed to write output", Cause: err}
	}
	return nil
}

// Plain returns one plain line per record.
func Plain(records []*linkdoc.Record) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r.PlainLine)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Markdown returns the records as a Markdown bullet list.
func Markdown(records []*linkdoc.Record) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString("- ")
		sb.WriteString(r.MarkdownLine)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// JSON returns the identifier-to-record mapping, plus failures when present.
func JSON(coll *linkdoc.Collection) (string, error) {
	payload := any(coll.Records)
	if len(coll.Failures) > 0 {
		payload = struct {
			Records  map[string]*linkdoc.Record `json:"records"`
			Failures []linkdoc.Failure          `json:"failures"`
		}{coll.Records, coll.Failures}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", &RenderError{Message: "failed to encode JSON", Cause: err}
	}
	return string(data) + "\n", nil
}

// Table renders a rounded summary table for the terminal.
func Table(records []*linkdoc.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Variant", "Title", "Publication", "URL"})

	for _, r := range records {
		tw.AppendRow(table.Row{r.ID, string(r.Variant), r.Title, r.Publication, r.URL})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60, Align: text.AlignLeft},
		{Number: 5, WidthMax: 60, Align: text.AlignLeft},
	})
	return tw.Render() + "\n"
}
