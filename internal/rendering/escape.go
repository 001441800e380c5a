package rendering

import "strings"

// EscapeMarkdown escapes characters that would change the meaning of text
// placed inside Markdown link text or a table cell.
// Special characters: \ ` * _ [ ] < > |
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '|':
			result.WriteByte('\\')
			result.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
