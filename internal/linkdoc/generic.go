package linkdoc

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	pathWordSeparators = regexp.MustCompile(`[-_]+`)
	pathPunctuation    = regexp.MustCompile(`[^\p{L}\p{N}\s.]`)
	fileExtension      = regexp.MustCompile(`\.[A-Za-z][A-Za-z0-9]{0,4}$`)
)

// genericHandler is the fallback for unrecognized sites. Its methods double
// as defaults for the other handlers, which embed it.
type genericHandler struct{}

func (genericHandler) variant() Variant { return VariantGeneric }

func (genericHandler) match(NormalizedURL) bool { return true }

func (genericHandler) rewrite(u NormalizedURL) string { return u.Text }

// Links with a usable path are titled from it without fetching.
func (genericHandler) target(u NormalizedURL) string {
	if PathTitle(u) != "" {
		return ""
	}
	return u.Text
}

func (genericHandler) title(u NormalizedURL, p Page) string {
	if t := PathTitle(u); t != "" {
		return t
	}
	return p.Title()
}

func (genericHandler) authors(NormalizedURL, Page) string { return "" }

func (genericHandler) publication(u NormalizedURL) string {
	return registrableHost(u.Host)
}

func (genericHandler) plainLine(m linkMeta) string {
	return joinParts(m.url.Text, m.title, m.authors, m.publication)
}

func (genericHandler) markdownLine(m linkMeta) string {
	return markdownLink(m.title, m.url.Text) + " | " + m.publication
}

// PathTitle derives a title from the last path segment: a file extension is
// dropped, "-" and "_" runs become spaces, punctuation other than "." (kept
// for version numbers) is dropped and words are title-cased. It returns ""
// when the URL has no usable path.
func PathTitle(u NormalizedURL) string {
	trimmedPath := strings.TrimRight(u.Path, "/")
	if trimmedPath == "" {
		return ""
	}
	last := path.Base(trimmedPath)
	if stem := fileExtension.ReplaceAllString(last, ""); stem != "" {
		last = stem
	}
	last = pathWordSeparators.ReplaceAllString(last, " ")
	last = pathPunctuation.ReplaceAllString(last, "")
	last = collapseSpace(last)
	if last == "" {
		return ""
	}
	return cases.Title(language.Und).String(last)
}
