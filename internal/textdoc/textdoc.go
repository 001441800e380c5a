// Package textdoc reformats free-form show-notes text: it extracts links,
// replaces link lines with classified ones and flattens Markdown for plain
// text publishing targets.
package textdoc

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/linkdoc"
	"github.com/zkfm/zktools/internal/logging"
)

var (
	linkPattern       = regexp.MustCompile(`(?i)https?://\S+`)
	leadingURL        = regexp.MustCompile(`(?i)^(?:https?|ftps?)://\S+`)
	markdownLinkInner = regexp.MustCompile(`\[([^\]]+)\]\((.+)\)`)
	markdownInline    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	twitterHandle     = regexp.MustCompile(`(?i)^(?:https?://)?(?:(?:www\.|mobile\.)?twitter\.com|x\.com)/([^/\s?#]+)`)
)

// ErrNegativeLength is returned when a maximum line length below zero is requested.
var ErrNegativeLength = errors.New("max line length must not be negative")

// Classifier is the part of linkdoc.Classifier used for reformatting.
type Classifier interface {
	Classify(ctx context.Context, raw string) (*linkdoc.Record, error)
}

// ExtractLinks returns every http(s) URL in text, in order of appearance.
func ExtractLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

// ForceSimple turns the first Markdown link in line into "url | text".
func ForceSimple(line string) string {
	m := markdownLinkInner.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	return fmt.Sprintf("%s | %s", m[2], m[1])
}

// Truncate shortens s to n-4 runes followed by "..." when it is longer than n.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	keep := n - 4
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + "..."
}

// Reformatter rewrites show-notes text line by line.
type Reformatter struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewReformatter creates a reformatter backed by classifier.
func NewReformatter(classifier Classifier, logger *zap.Logger) *Reformatter {
	return &Reformatter{classifier: classifier, logger: logging.OrNop(logger)}
}

// Reformat replaces every line that starts with a URL (after Markdown links
// are flattened) by its classified plain or Markdown line. Other lines pass
// through trimmed. maxLen > 0 truncates output lines.
func (r *Reformatter) Reformat(ctx context.Context, text string, markdown bool, maxLen int) (string, error) {
	if maxLen < 0 {
		return "", ErrNegativeLength
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		processed, err := r.processLine(ctx, line, markdown)
		if err != nil {
			return "", err
		}
		out = append(out, Truncate(processed, maxLen))
	}
	return strings.Join(out, "\n"), nil
}

func (r *Reformatter) processLine(ctx context.Context, line string, markdown bool) (string, error) {
	line = ForceSimple(strings.TrimSpace(line))

	url := leadingURL.FindString(line)
	if url == "" {
		return line, nil
	}

	record, err := r.classifier.Classify(ctx, url)
	if err != nil {
		if errors.Is(err, linkdoc.ErrInvalidURL) {
			r.logger.Debug("leaving line unchanged", zap.String("line", line), zap.Error(err))
			return line, nil
		}
		return "", err
	}

	if markdown {
		return record.MarkdownLine, nil
	}
	return record.PlainLine, nil
}

// Simplify flattens inline Markdown links to "name - url". Twitter and X
// links on the first (intro) line become "@handle" instead.
func Simplify(markdown string) string {
	lines := strings.Split(strings.TrimSpace(markdown), "\n")
	for i, line := range lines {
		intro := i == 0
		lines[i] = markdownInline.ReplaceAllStringFunc(line, func(link string) string {
			m := markdownInline.FindStringSubmatch(link)
			name, url := m[1], m[2]
			if intro {
				if h := twitterHandle.FindStringSubmatch(url); h != nil {
					return "@" + h[1]
				}
			}
			return name + " - " + url
		})
	}
	return strings.Join(lines, "\n")
}
