package linkdoc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// CanonicalPaperHost is the short ePrint host every mirror is rewritten to.
const CanonicalPaperHost = "ia.cr"

var (
	paperMirrors = regexp.MustCompile(`(?i)eprint\.kobi\.one|eprint\.iacr\.org`)
	zkpPhrase    = regexp.MustCompile(`Zero[- ]Knowledge Proofs?`)
)

// paperHandler scrapes IACR ePrint citation metadata.
type paperHandler struct {
	genericHandler
}

func (paperHandler) variant() Variant { return VariantPaper }

func (paperHandler) match(u NormalizedURL) bool {
	return strings.Contains(u.Host, "iacr.org") ||
		strings.Contains(u.Host, "kobi.one") ||
		hostMatches(u.Host, CanonicalPaperHost)
}

func (paperHandler) rewrite(u NormalizedURL) string {
	return paperMirrors.ReplaceAllString(u.Text, CanonicalPaperHost)
}

func (paperHandler) target(u NormalizedURL) string { return u.Text }

func (paperHandler) title(_ NormalizedURL, p Page) string {
	title := p.Title()
	if titles := p.MetaContents("name", "citation_title"); len(titles) > 0 {
		title = titles[0]
	}
	return zkpPhrase.ReplaceAllString(title, "ZKP")
}

func (paperHandler) authors(_ NormalizedURL, p Page) string {
	names := p.MetaContents("name", "citation_author")
	abbreviated := make([]string, 0, len(names))
	for _, name := range names {
		abbreviated = append(abbreviated, AbbreviateAuthor(name))
	}
	return strings.Join(abbreviated, ", ")
}

// AbbreviateAuthor shortens "First Middle Last" to "F. Middle Last".
func AbbreviateAuthor(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return strings.Join(parts, " ")
	}
	initial, _ := utf8.DecodeRuneInString(parts[0])
	return string(initial) + ". " + strings.Join(parts[1:], " ")
}

// edition is the "<year>/<number>" part of the ePrint path.
func edition(u NormalizedURL) string {
	return strings.Trim(u.Path, "/")
}

func (paperHandler) plainLine(m linkMeta) string {
	text := m.title
	if ed := edition(m.url); ed != "" {
		text = "(" + ed + ") " + text
	}
	if m.authors != "" {
		text += " by " + m.authors
	}
	return joinParts(m.url.Text, text)
}

func (paperHandler) markdownLine(m linkMeta) string {
	line := markdownLink(m.title, m.url.Text)
	if m.authors != "" {
		line += " by " + m.authors
	}
	return line
}
