package feedarchive

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	schemePrefix  = regexp.MustCompile(`https?://`)
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9_ ./]`)
	dotsAndSlash  = regexp.MustCompile(`[./]`)
	separatorRuns = regexp.MustCompile(`[-\s_]+`)
)

// Autoname turns a title or URL into a file name that is readable for humans
// and safe for file systems:
//
//	Autoname("https://feeds.fireside.fm/zeroknowledge/rss", "20240102", "xml")
//	// "20240102_Feeds_Fireside_Fm_Zeroknowledge_Rss.xml"
//
// prefix and ext are optional.
func Autoname(name, prefix, ext string) string {
	out := strings.TrimSpace(name)
	out = schemePrefix.ReplaceAllString(out, "")
	out = unsafeChars.ReplaceAllString(out, "")
	out = dotsAndSlash.ReplaceAllString(out, "_")
	out = strings.ReplaceAll(out, "Episode", "Ep")
	out = separatorRuns.ReplaceAllString(out, "_")
	out = titleWords(out)

	if prefix != "" {
		out = prefix + "_" + out
	}
	if ext != "" {
		out = out + "." + ext
	}
	return out
}

// titleWords title-cases each "_"-separated word.
func titleWords(s string) string {
	spaced := strings.ReplaceAll(s, "_", " ")
	titled := cases.Title(language.Und).String(spaced)
	return strings.ReplaceAll(titled, " ", "_")
}
