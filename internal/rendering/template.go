package rendering

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/zkfm/zktools/internal/linkdoc"
)

// TemplateData is passed to user-supplied show-notes templates.
type TemplateData struct {
	Records  []*linkdoc.Record
	Failures []linkdoc.Failure
}

// RenderTemplate renders coll through the text/template at templatePath.
func RenderTemplate(coll *linkdoc.Collection, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	data := TemplateData{Records: coll.Ordered(), Failures: coll.Failures}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// upper accepts any value so named string types such as linkdoc.Variant work.
func upper(v any) string {
	return strings.ToUpper(fmt.Sprint(v))
}

// parseTemplate reads and parses a template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	tmpl, err := template.New("shownotes").Funcs(template.FuncMap{
		"escape": EscapeMarkdown,
		"upper":  upper,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}
