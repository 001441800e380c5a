package rendering

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/zkfm/zktools/internal/linkdoc"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Show notes</title></head>
<body>
{{.}}</body>
</html>
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders the Markdown list as a standalone page. Scraped titles are
// untrusted, so the fragment is sanitized before it is embedded.
func HTML(records []*linkdoc.Record) ([]byte, error) {
	fragment, err := MarkdownToHTML(Markdown(records))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	//nolint:gosec // fragment has been sanitized
	if err := pageTemplate.Execute(&buf, template.HTML(fragment)); err != nil {
		return nil, &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return buf.Bytes(), nil
}

// MarkdownToHTML converts Markdown to a sanitized HTML fragment.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}
	return bluemonday.UGCPolicy().Sanitize(buf.String()), nil
}
